package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name        string
		level       string
		format      string
		expectError bool
	}{
		{name: "Console debug", level: "debug", format: "console"},
		{name: "Empty format falls back to console", level: "info", format: ""},
		{name: "JSON warn", level: "warn", format: "json"},
		{name: "Bad level", level: "loud", format: "json", expectError: true},
		{name: "Bad format", level: "info", format: "xml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := NewLogger(tc.level, tc.format)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			assert.NoError(t, err)
			lvl, _ := zapcore.ParseLevel(tc.level)
			assert.True(t, log.Core().Enabled(lvl))
		})
	}
}
