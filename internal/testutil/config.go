package testutil

import (
	"testing"

	"github.com/spf13/viper"
)

// ResetViper resets viper and schedules another reset when the test
// completes, so per-test configuration never leaks across tests.
func ResetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetViperValue sets a viper key for the duration of the test.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	previous := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() {
		if previous == nil {
			viper.Reset()
			return
		}
		viper.Set(key, previous)
	})
}

// SetupTestCache points the cache directory at a sandboxed location
// and returns the path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")
	SetViperValue(t, "cache.dir", cacheDir)
	return cacheDir
}
