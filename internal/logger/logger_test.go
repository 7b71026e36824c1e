package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"", "dev", "prod", "PRODUCTION"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}

	_, err := New("verbose")
	assert.Error(t, err)
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("assessment", "a1").Info("challenge selected", "challenge", "c1")
	l.Warn("no challenge left")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "challenge selected", entries[0].Message)
	assert.Equal(t, map[string]any{"assessment": "a1", "challenge": "c1"}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded", "k", "v")
	l.Sync()
}
