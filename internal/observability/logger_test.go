// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltline/stitch-cli/internal/config"
)

// The logger is a process-wide singleton, so these tests run sequentially and
// reset it around each use.

func TestGetLogger_BeforeInitializeIsNop(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger)
	// Must not panic.
	logger.Info("early message")
}

func TestInitialize_WritesStructuredOutput(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "stitch-cli",
	}, &buf)

	GetLogger().Info("hello")
	require.NoError(t, Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"service":"stitch-cli"`)
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &first)
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &second)

	GetLogger().Info("routed")
	_ = Sync()

	assert.True(t, strings.Contains(first.String(), "routed"))
	assert.Empty(t, second.String())
}

func TestInitialize_LevelFiltering(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, &buf)

	GetLogger().Info("dropped")
	GetLogger().Warn("kept")
	_ = Sync()

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestInitialize_BadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "nonsense", Format: "json"}, &buf)

	GetLogger().Info("visible")
	_ = Sync()
	assert.Contains(t, buf.String(), "visible")
}
