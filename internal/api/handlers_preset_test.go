package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/CryoKynase/wheel-lacing-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresetHandler(store *testutil.MockStorage) PresetHandler {
	return NewPresetHandler(store, newTestRegistry(), Defaults{}, nil)
}

func samplePreset() models.Preset {
	return models.Preset{
		Name:           "front 3x",
		MethodID:       "standard",
		Holes:          32,
		Params:         map[string]any{"crosses": float64(3)},
		StartRimHole:   1,
		ValveReference: models.RightOfValve,
	}
}

func TestPresetHandler_HandleCreatePreset(t *testing.T) {
	tests := []struct {
		name       string
		request    presetRequest
		wantErr    bool
		errCode    string
		wantStatus int
	}{
		{
			name:    "valid preset",
			request: presetRequest{Name: "front", MethodID: "standard", Holes: intPtr(32), Params: map[string]any{"crosses": 2}},
		},
		{
			name:    "defaults fill omitted inputs",
			request: presetRequest{Name: "bare"},
		},
		{
			name:       "empty name",
			request:    presetRequest{Name: "   ", Holes: intPtr(32)},
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "odd holes",
			request:    presetRequest{Name: "odd", Holes: intPtr(31)},
			wantErr:    true,
			errCode:    "INVALID_HOLE_COUNT",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown method",
			request:    presetRequest{Name: "x", MethodID: "snowflake"},
			wantErr:    true,
			errCode:    "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad valve reference",
			request:    presetRequest{Name: "x", ValveReference: "below"},
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			h := newTestPresetHandler(store)
			c, rec := newJSONContext(t, http.MethodPost, "/api/presets", tt.request)

			err := h.HandleCreatePreset(c)
			if tt.wantErr {
				requireAPIError(t, err, tt.errCode, tt.wantStatus)
				assert.Equal(t, 0, store.PresetCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, 1, store.PresetCount())

			var p models.Preset
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, "standard", p.MethodID)
			assert.Len(t, p.Params, 4, "params are stored fully resolved")
			assert.True(t, p.ValveReference.Valid())
			assert.GreaterOrEqual(t, p.StartRimHole, 1)
		})
	}
}

func TestPresetHandler_NormalizesInputs(t *testing.T) {
	store := testutil.NewMockStorage()
	h := newTestPresetHandler(store)
	c, rec := newJSONContext(t, http.MethodPost, "/api/presets", presetRequest{
		Name:         "  wrapped  ",
		Holes:        intPtr(24),
		StartRimHole: intPtr(26),
		Params:       map[string]any{"crosses": 99, "unknown": 1},
	})

	require.NoError(t, h.HandleCreatePreset(c))

	var p models.Preset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "wrapped", p.Name)
	assert.Equal(t, 2, p.StartRimHole)
	assert.Equal(t, float64(3), p.Params["crosses"], "out of range falls back to the default")
	assert.NotContains(t, p.Params, "unknown")
}

func TestPresetHandler_GetUpdateDelete(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddPreset("p1", samplePreset())
	h := newTestPresetHandler(store)

	t.Run("get", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/api/presets/p1", nil)
		c.SetParamNames("id")
		c.SetParamValues("p1")
		require.NoError(t, h.HandleGetPreset(c))
		assert.Contains(t, rec.Body.String(), `"name":"front 3x"`)
	})

	t.Run("get missing", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodGet, "/api/presets/zz", nil)
		c.SetParamNames("id")
		c.SetParamValues("zz")
		requireAPIError(t, h.HandleGetPreset(c), "NOT_FOUND", http.StatusNotFound)
	})

	t.Run("update", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPut, "/api/presets/p1", presetRequest{Name: "front 2x", Holes: intPtr(28), Params: map[string]any{"crosses": 2}})
		c.SetParamNames("id")
		c.SetParamValues("p1")
		require.NoError(t, h.HandleUpdatePreset(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var p models.Preset
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, 28, p.Holes)
		assert.Equal(t, float64(2), p.Params["crosses"])
	})

	t.Run("update missing", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodPut, "/api/presets/zz", presetRequest{Name: "x"})
		c.SetParamNames("id")
		c.SetParamValues("zz")
		requireAPIError(t, h.HandleUpdatePreset(c), "NOT_FOUND", http.StatusNotFound)
	})

	t.Run("update invalid", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodPut, "/api/presets/p1", presetRequest{Name: "x", Holes: intPtr(7)})
		c.SetParamNames("id")
		c.SetParamValues("p1")
		requireAPIError(t, h.HandleUpdatePreset(c), "INVALID_HOLE_COUNT", http.StatusBadRequest)
	})

	t.Run("delete", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodDelete, "/api/presets/p1", nil)
		c.SetParamNames("id")
		c.SetParamValues("p1")
		require.NoError(t, h.HandleDeletePreset(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 0, store.PresetCount())
	})

	t.Run("delete missing", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodDelete, "/api/presets/p1", nil)
		c.SetParamNames("id")
		c.SetParamValues("p1")
		requireAPIError(t, h.HandleDeletePreset(c), "NOT_FOUND", http.StatusNotFound)
	})
}

func TestPresetHandler_HandleListPresets(t *testing.T) {
	store := testutil.NewMockStorage()
	for _, id := range []string{"a", "b", "c"} {
		store.AddPreset(id, samplePreset())
	}
	h := newTestPresetHandler(store)

	t.Run("all", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/api/presets", nil)
		require.NoError(t, h.HandleListPresets(c))

		var list []models.PresetSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})

	t.Run("limit", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/api/presets?limit=2", nil)
		require.NoError(t, h.HandleListPresets(c))

		var list []models.PresetSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 2)
	})

	t.Run("bad limit", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodGet, "/api/presets?limit=-1", nil)
		requireAPIError(t, h.HandleListPresets(c), "VALIDATION_ERROR", http.StatusBadRequest)
	})

	t.Run("storage failure", func(t *testing.T) {
		failing := testutil.NewMockStorage()
		failing.Err = errors.New("disk on fire")
		c, _ := newJSONContext(t, http.MethodGet, "/api/presets", nil)
		requireAPIError(t, newTestPresetHandler(failing).HandleListPresets(c), "INTERNAL_ERROR", http.StatusInternalServerError)
	})
}

func TestPresetHandler_ExportImport(t *testing.T) {
	source := testutil.NewMockStorage()
	source.AddPreset("a", samplePreset())
	second := samplePreset()
	second.Name = "rear 2x"
	second.Holes = 28
	source.AddPreset("b", second)

	c, rec := newJSONContext(t, http.MethodGet, "/api/presets/export", nil)
	require.NoError(t, newTestPresetHandler(source).HandleExportPresets(c))
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "wheel-presets.yaml")
	assert.Contains(t, rec.Body.String(), "name: rear 2x")

	target := testutil.NewMockStorage()
	c, rec = newJSONContext(t, http.MethodPost, "/api/presets/import", importPresetsRequest{
		Data: base64.StdEncoding.EncodeToString(rec.Body.Bytes()),
	})
	require.NoError(t, newTestPresetHandler(target).HandleImportPresets(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":2`)
	assert.Equal(t, 2, target.PresetCount())
}

func TestPresetHandler_HandleImportPresets_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		errCode string
	}{
		{name: "empty data", data: "", errCode: "VALIDATION_ERROR"},
		{name: "invalid base64", data: "not-valid!!!", errCode: "BAD_REQUEST"},
		{name: "invalid yaml", data: base64.StdEncoding.EncodeToString([]byte("presets: [")), errCode: "BAD_REQUEST"},
		{
			name: "one bad preset rejects the bundle",
			data: base64.StdEncoding.EncodeToString([]byte(`
version: 1
presets:
  - name: good
    method: standard
    holes: 32
  - name: bad
    method: standard
    holes: 33
`)),
			errCode: "INVALID_HOLE_COUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			c, _ := newJSONContext(t, http.MethodPost, "/api/presets/import", importPresetsRequest{Data: tt.data})

			err := newTestPresetHandler(store).HandleImportPresets(c)
			requireAPIError(t, err, tt.errCode, http.StatusBadRequest)
			assert.Equal(t, 0, store.PresetCount())
		})
	}
}

func TestPresetHandler_HandleImportPresets_StoreFailureStoresNothing(t *testing.T) {
	bundle := []byte(`
version: 1
presets:
  - name: first
    method: standard
    holes: 32
  - name: second
    method: standard
    holes: 28
  - name: third
    method: standard
    holes: 36
`)

	store := testutil.NewMockStorage()
	store.FailCreateAt = 2
	c, _ := newJSONContext(t, http.MethodPost, "/api/presets/import", importPresetsRequest{
		Data: base64.StdEncoding.EncodeToString(bundle),
	})

	err := newTestPresetHandler(store).HandleImportPresets(c)
	requireAPIError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)

	listed, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
