package automation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"grazbib/internal/automation"
)

func TestScreenshotPath(t *testing.T) {
	t.Parallel()

	now := time.Unix(1756600000, 0)
	path := automation.ScreenshotPath("/tmp/debug", now)

	assert.Equal(t, "/tmp/debug/catalog_error_1756600000.png", path)
}

func TestScreenshotPathRelativeDir(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	assert.Equal(t, "shots/catalog_error_0.png", automation.ScreenshotPath("shots", now))
}
