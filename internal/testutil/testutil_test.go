package testutil

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("sub", "file.txt")
	if !strings.HasPrefix(path, env.RootDir()) {
		t.Errorf("path %q not under root %q", path, env.RootDir())
	}
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("dir/queries.csv", "query\nHarry Potter\n")
	got := env.ReadFileString("dir/queries.csv")
	if got != "query\nHarry Potter\n" {
		t.Errorf("unexpected content: %q", got)
	}
}

func TestTestEnv_FileExists(t *testing.T) {
	env := NewTestEnv(t)

	if env.FileExists("missing.txt") {
		t.Error("missing file reported as existing")
	}
	env.WriteFileString("present.txt", "x")
	env.RequireFileExists("present.txt")
	env.RequireFileNotExists("missing.txt")
}

func TestSetViperValue(t *testing.T) {
	ResetViper(t)

	SetViperValue(t, "cache.dir", "/tmp/test-cache")
	if got := viper.GetString("cache.dir"); got != "/tmp/test-cache" {
		t.Errorf("cache.dir = %q", got)
	}
}

func TestSetupTestCache(t *testing.T) {
	ResetViper(t)
	env := NewTestEnv(t)

	cacheDir := SetupTestCache(t, env)
	if viper.GetString("cache.dir") != cacheDir {
		t.Errorf("cache.dir not pointed at sandbox")
	}
	if !env.FileExists("cache") {
		t.Error("cache directory not created")
	}
}
