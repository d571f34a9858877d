package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseLevel(tc.in), "input %q", tc.in)
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	Init(true, slog.LevelWarn)
	assert.False(t, slog.Default().Enabled(nil, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(nil, slog.LevelWarn))
}
