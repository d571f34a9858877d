package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"FATAL": LevelFatal,
		"ERROR": LevelError,
		"WARN":  LevelWarn,
		"INFO":  LevelInfo,
		"DEBUG": LevelDebug,
		"TRACE": LevelTrace,
		"LOG":   LevelLog,
		"info":  LevelInfo,
		" LOG ": LevelLog,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, "level %q", name)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("NOTICE")
	assert.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "FATAL", LevelFatal.String())
	assert.Equal(t, "LOG", LevelLog.String())
	assert.Equal(t, "Level(99)", Level(99).String())
}

func TestAncestorVariables(t *testing.T) {
	root := &EventType{ID: 1, Variables: []string{"run"}}
	mid := &EventType{ID: 2, Dominator: root, Variables: []string{"job", "run"}}
	leaf := &EventType{ID: 3, Dominator: mid, Variables: []string{"code"}}

	assert.Empty(t, root.AncestorVariables())
	assert.Equal(t, []string{"run"}, mid.AncestorVariables())
	assert.Equal(t, []string{"job", "run"}, leaf.AncestorVariables(),
		"union over the whole chain, deduplicated and sorted")
}

func TestLogEventLookup(t *testing.T) {
	et := &EventType{ID: 7}
	ev := &Event{Type: et}
	l := &Log{Message: "m", Events: map[int]*Event{7: ev}, Ranked: []*Event{ev}}

	got, ok := l.Event(7)
	require.True(t, ok)
	assert.Same(t, ev, got)

	_, ok = l.Event(8)
	assert.False(t, ok)
}
