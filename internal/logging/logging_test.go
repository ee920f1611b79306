package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONInProd(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "debug", true)
	require.NoError(t, err)

	log.WithField("seat_id", "1A").Debug("hold started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hold started", entry["msg"])
	assert.Equal(t, "1A", entry["seat_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn", false)
	require.NoError(t, err)

	log.Info("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}
