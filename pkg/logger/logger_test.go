package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "ordenes-api", false)

	log.Debug().Msg("hidden")
	log.Info().Str("code", "OC-0001").Msg("order registered")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ordenes-api", line["service"])
	assert.Equal(t, "OC-0001", line["code"])
	assert.Equal(t, "order registered", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewToDebugIsReadable(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "ledgerctl", true)

	log.Debug().Msg("schema up to date")
	assert.Contains(t, buf.String(), "schema up to date")
	assert.False(t, json.Valid(buf.Bytes()))
}
