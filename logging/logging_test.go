package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wallet-engine/logging"
)

func TestNew_ParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "warn"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "chatty"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wallet.log")
	logger, err := logging.New(logging.Config{Level: "info", File: path, MaxSizeMB: 1}, &bytes.Buffer{})
	require.NoError(t, err)

	logger.WithField("op", "deposit").Info("recorded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "op=deposit")
}
