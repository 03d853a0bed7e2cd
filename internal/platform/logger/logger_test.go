package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("nope"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestNew_FanoutWritesToBothSinks(t *testing.T) {
	var primary, file bytes.Buffer
	l := New(Options{Level: Info, Format: FormatText, App: "moltmon", Output: &primary, Extra: &file})

	l.With(map[string]any{"pet_id": 3}).Info("pet hatched", map[string]any{"creature_id": "001_blue_cat"})
	l.Debug("filtered out", nil)

	assert.Contains(t, primary.String(), "pet hatched")
	assert.Contains(t, primary.String(), "pet_id=3")
	assert.NotContains(t, primary.String(), "filtered out")

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "moltmon", entry["app"])
	assert.Equal(t, "001_blue_cat", entry["creature_id"])
}

func TestNew_NoPrimaryOnlyWritesExtra(t *testing.T) {
	var file bytes.Buffer
	l := New(Options{Level: Debug, NoPrimary: true, Extra: &file})
	l.Warn("observer mode", nil)
	assert.Contains(t, file.String(), "observer mode")

	Nop().Error("nothing", map[string]any{"x": 1})
}
