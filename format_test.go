package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", formatSize(0))
	assert.Contains(t, formatSize(1500), "kB")
}

func TestFormatTimeZeroIsNever(t *testing.T) {
	assert.Equal(t, "never", formatTime(time.Time{}))
}

func TestFormatTimeNonZero(t *testing.T) {
	got := formatTime(time.Now().Add(-2 * time.Minute))
	assert.NotEqual(t, "never", got)
}

func TestUnixTimeZeroIsZeroValue(t *testing.T) {
	assert.True(t, unixTime(0).IsZero())
}

func TestUnixTimeNonZero(t *testing.T) {
	got := unixTime(1000)
	assert.False(t, got.IsZero())
	assert.Equal(t, int64(1000), got.Unix())
}

func TestColorizeNoColorWhenDisabled(t *testing.T) {
	// colorEnabled checks os.Stdout's fd, which is never a terminal under
	// `go test`, so colorize must return the string unchanged here.
	assert.Equal(t, "plain", colorize(colorGreen, "plain"))
}
