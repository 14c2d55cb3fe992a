package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewFilePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")
	plugin, c := NewFilePlugin(path, zapcore.InfoLevel)
	logger := NewLogger(plugin)

	logger.Debug("dropped")
	logger.Info("page done")
	require.NoError(t, logger.Sync())
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"page done"`)
	assert.Contains(t, string(b), `"level":"INFO"`)
	assert.NotContains(t, string(b), "dropped")
}

func TestNewInvalidLevel(t *testing.T) {
	_, _, err := New("LOUD", "")
	assert.Error(t, err)
}
