package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Levels(t *testing.T) {
	defer Log.SetOutput(os.Stderr)

	tests := []struct {
		level    string
		verbose  bool
		expected logrus.Level
	}{
		{"debug", false, logrus.DebugLevel},
		{"warn", false, logrus.WarnLevel},
		{"nonsense", false, logrus.InfoLevel},
		{"error", true, logrus.DebugLevel},
	}

	for _, tc := range tests {
		require.NoError(t, Init(tc.level, "", tc.verbose))
		assert.Equal(t, tc.expected, Log.GetLevel(), tc.level)
	}
}

func TestInit_WritesLogFile(t *testing.T) {
	defer Log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "dossier.log")
	require.NoError(t, Init("info", path, false))

	Log.Info("hello file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
	assert.NotNil(t, l)
}
