package ecslog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSONOutputWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf})
	defer Init(Config{Level: InfoLevel})

	WithComponent("test").Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestInitInfoBelowErrorThresholdIsSuppressed(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: ErrorLevel, JSONOutput: true, Output: &buf})
	defer Init(Config{Level: InfoLevel})

	WithComponent("test").Info().Msg("should not appear")
	assert.Empty(t, buf.String())
}

func TestWithTickIDAndSystemIDTagFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf})
	defer Init(Config{Level: InfoLevel})

	WithTickID("abc-123").Info().Msg("tick")
	var tickLine map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tickLine))
	assert.Equal(t, "abc-123", tickLine["tick_id"])

	buf.Reset()
	WithSystemID(7).Info().Msg("system")
	var sysLine map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sysLine))
	assert.Equal(t, float64(7), sysLine["system_id"])
}
