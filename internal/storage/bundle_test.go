package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBundle(t *testing.T) {
	p := samplePreset("3x 32h")
	p.ID = "abc"

	data, err := EncodeBundle([]*models.Preset{p})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "version: 1")
	assert.Contains(t, text, "name: 3x 32h")
	assert.Contains(t, text, "method: standard")
	assert.Contains(t, text, "valve_reference: right_of_valve")
	assert.NotContains(t, text, "created_at", "zero timestamps are omitted")

	decoded, err := DecodeBundle(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "abc", decoded[0].ID)
	assert.Equal(t, 32, decoded[0].Holes)
	assert.Equal(t, "right", decoded[0].Params["startSide"])
}

func TestDecodeBundle(t *testing.T) {
	t.Run("hand written", func(t *testing.T) {
		doc := `
version: 1
presets:
  - name: Rear 2x
    method: standard
    holes: 28
    start_rim_hole: 3
    valve_reference: left_of_valve
    params:
      crosses: 2
      startSide: left
`
		presets, err := DecodeBundle(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, presets, 1)

		p := presets[0]
		assert.Equal(t, "Rear 2x", p.Name)
		assert.Equal(t, 28, p.Holes)
		assert.Equal(t, 3, p.StartRimHole)
		assert.Equal(t, models.LeftOfValve, p.ValveReference)
		assert.Equal(t, 2, p.Params["crosses"])
		assert.Empty(t, p.ID)
	})

	t.Run("empty document", func(t *testing.T) {
		presets, err := DecodeBundle(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, presets)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeBundle(strings.NewReader("presets: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("future version", func(t *testing.T) {
		_, err := DecodeBundle(strings.NewReader("version: 9\npresets: []\n"))
		assert.Error(t, err)
	})
}
