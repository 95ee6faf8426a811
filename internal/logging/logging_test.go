package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/logging"
)

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := logging.NewHandler(&buf, "warn", "json")
	require.NoError(t, err)

	log := slog.New(h)
	log.Info("dropped")
	log.Warn("kept", "sync_id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "abc", line["sync_id"])
}

func TestNewHandler_Invalid(t *testing.T) {
	_, err := logging.NewHandler(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = logging.NewHandler(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
