package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerboseLevel(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, false).Debug("hidden")
	assert.Zero(t, buf.Len())

	NewWithWriter(&buf, true).Debug("shown", "crop", "abc", "empty", "")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "abc")
	assert.NotContains(t, buf.String(), "empty")
}

func TestFormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 20, 30, 45_000_000, time.UTC)
	assert.Equal(t, "2024-03-01T10:20:30.045Z", formatRFC3339Millis(ts))
}
