package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode)
		require.NoError(t, err, "mode %q", mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "tracker").Info("meal added", "calories", 500)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "meal added", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "tracker", fields["component"])
	require.EqualValues(t, 500, fields["calories"])
}

func TestNop_Discards(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
