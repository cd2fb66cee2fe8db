package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/CryoKynase/wheel-lacing-app/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestPatternHandler(store *testutil.MockStorage) PatternHandler {
	return NewPatternHandler(newTestRegistry(), store, Defaults{})
}

func TestPatternHandler_HandleCompute(t *testing.T) {
	tests := []struct {
		name       string
		request    patternRequest
		wantHoles  int
		wantErr    bool
		errCode    string
		wantStatus int
	}{
		{
			name:      "defaults",
			request:   patternRequest{},
			wantHoles: 32,
		},
		{
			name:      "explicit 36 holes",
			request:   patternRequest{MethodID: "standard", Holes: intPtr(36), Params: map[string]any{"crosses": 2}},
			wantHoles: 36,
		},
		{
			name:      "method id is case-insensitive",
			request:   patternRequest{MethodID: "STANDARD", Holes: intPtr(24)},
			wantHoles: 24,
		},
		{
			name:      "unlisted even hole count",
			request:   patternRequest{Holes: intPtr(40)},
			wantHoles: 40,
		},
		{
			name:       "odd hole count",
			request:    patternRequest{Holes: intPtr(33)},
			wantErr:    true,
			errCode:    "INVALID_HOLE_COUNT",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "explicit zero holes",
			request:    patternRequest{Holes: intPtr(0)},
			wantErr:    true,
			errCode:    "INVALID_HOLE_COUNT",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "too few holes",
			request:    patternRequest{Holes: intPtr(18)},
			wantErr:    true,
			errCode:    "INVALID_HOLE_COUNT",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown method",
			request:    patternRequest{MethodID: "radial-only"},
			wantErr:    true,
			errCode:    "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown step",
			request:    patternRequest{Step: "step9"},
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown side",
			request:    patternRequest{Side: "middle"},
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown valve reference",
			request:    patternRequest{ValveReference: "above_valve"},
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing preset",
			request:    patternRequest{PresetID: "nope"},
			wantErr:    true,
			errCode:    "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPatternHandler(testutil.NewMockStorage())
			c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/compute", tt.request)

			err := h.HandleCompute(c)
			if tt.wantErr {
				requireAPIError(t, err, tt.errCode, tt.wantStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			var res models.PatternResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, models.PatternFormatVersion, res.Version)
			assert.Equal(t, "standard", res.MethodID)
			assert.Equal(t, tt.wantHoles, res.HoleCount)
			assert.Len(t, res.Placements, tt.wantHoles)
			assert.Len(t, res.Table.Rows, tt.wantHoles)
		})
	}
}

func TestPatternHandler_HandleCompute_MalformedParamsFallBack(t *testing.T) {
	h := newTestPatternHandler(testutil.NewMockStorage())
	c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/compute", patternRequest{
		Params: map[string]any{"crosses": "three", "startSide": "up", "bogus": true},
	})

	require.NoError(t, h.HandleCompute(c))

	var res models.PatternResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, float64(3), res.Params["crosses"])
	assert.Equal(t, "right", res.Params["startSide"])
	assert.NotContains(t, res.Params, "bogus")
}

func TestPatternHandler_HandleCompute_InvalidBody(t *testing.T) {
	h := newTestPatternHandler(testutil.NewMockStorage())
	req := newRawRequest(http.MethodPost, "/api/pattern/compute", `{"holes": "many"}`)
	rec := newRecorder()
	c := echo.New().NewContext(req, rec)

	requireAPIError(t, h.HandleCompute(c), "BAD_REQUEST", http.StatusBadRequest)
}

func TestPatternHandler_HandleCompute_Msgpack(t *testing.T) {
	h := newTestPatternHandler(testutil.NewMockStorage())
	c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/compute", patternRequest{Holes: intPtr(28)})
	c.Request().Header.Set(echo.HeaderAccept, MIMEApplicationMsgpack)

	require.NoError(t, h.HandleCompute(c))
	assert.Equal(t, MIMEApplicationMsgpack, rec.Header().Get(echo.HeaderContentType))

	dec := msgpack.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	dec.SetCustomStructTag("json")
	var res models.PatternResult
	require.NoError(t, dec.Decode(&res))
	assert.Equal(t, 28, res.HoleCount)
	assert.Len(t, res.Placements, 28)
	assert.Equal(t, models.NoteRightReference, res.Placements[0].Note)
}

func TestPatternHandler_HandleCompute_FromPreset(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddPreset("p1", models.Preset{
		Name:           "rear",
		MethodID:       "standard",
		Holes:          36,
		Params:         map[string]any{"crosses": float64(2), "startSide": "left"},
		StartRimHole:   5,
		ValveReference: models.LeftOfValve,
	})
	h := newTestPatternHandler(store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/compute", patternRequest{
		PresetID: "p1",
		Params:   map[string]any{"crosses": 1},
	})
	require.NoError(t, h.HandleCompute(c))

	var res models.PatternResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 36, res.HoleCount)
	assert.Equal(t, float64(1), res.Params["crosses"], "request params override the preset")
	assert.Equal(t, "left", res.Params["startSide"])
}

func TestPatternHandler_HandleLayout(t *testing.T) {
	tests := []struct {
		name        string
		request     patternRequest
		wantVisible int
		wantAnchor  [2]int
	}{
		{
			name:        "all spokes",
			request:     patternRequest{},
			wantVisible: 32,
			wantAnchor:  [2]int{1, 32},
		},
		{
			name:        "step 1 right flange",
			request:     patternRequest{Step: "step1", Side: "right"},
			wantVisible: 8,
			wantAnchor:  [2]int{1, 32},
		},
		{
			name:        "step 1 left flange is empty",
			request:     patternRequest{Step: "step1", Side: "LEFT"},
			wantVisible: 0,
			wantAnchor:  [2]int{1, 32},
		},
		{
			name:        "left of valve",
			request:     patternRequest{StartRimHole: intPtr(1), ValveReference: models.LeftOfValve},
			wantVisible: 32,
			wantAnchor:  [2]int{32, 31},
		},
		{
			name:        "start hole wraps",
			request:     patternRequest{StartRimHole: intPtr(33)},
			wantVisible: 32,
			wantAnchor:  [2]int{1, 32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPatternHandler(testutil.NewMockStorage())
			c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/layout", tt.request)

			require.NoError(t, h.HandleLayout(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp layoutResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Len(t, resp.Visible, tt.wantVisible)
			assert.Len(t, resp.Table.Rows, tt.wantVisible)
			assert.Len(t, resp.Layout.Segments, 32, "geometry always covers every spoke")
			assert.Len(t, resp.Pattern.Placements, 32)
			assert.Equal(t, tt.wantAnchor[0], resp.Anchor.RightOfValve)
			assert.Equal(t, tt.wantAnchor[1], resp.Anchor.LeftOfValve)

			emphasized := 0
			for _, s := range resp.Layout.Segments {
				if s.Emphasized {
					emphasized++
				}
			}
			assert.Equal(t, tt.wantVisible, emphasized)
		})
	}
}

func TestPatternHandler_HandleExportCSV(t *testing.T) {
	h := newTestPatternHandler(testutil.NewMockStorage())
	c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/export/csv", patternRequest{Step: "step2"})

	require.NoError(t, h.HandleExportCSV(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "standard-32h-step2.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "order,step,group,side,heads,hubHole,rimHole,crosses,notes", lines[0])
	for _, line := range lines[1:] {
		assert.Contains(t, line, ",Step 2,2,")
	}
}

func TestPatternHandler_HandleDiagramSVG(t *testing.T) {
	h := newTestPatternHandler(testutil.NewMockStorage())

	t.Run("inline", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/diagram.svg", patternRequest{Holes: intPtr(24), Step: "step3"})
		require.NoError(t, h.HandleDiagramSVG(c))
		assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType))
		assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
		assert.Contains(t, rec.Body.String(), "<title>standard 24h, Step 3</title>")
	})

	t.Run("download", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/api/pattern/diagram.svg?download=1", patternRequest{Side: "left"})
		require.NoError(t, h.HandleDiagramSVG(c))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "standard-32h-all-left.svg")
	})

	t.Run("invalid holes", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodPost, "/api/pattern/diagram.svg", patternRequest{Holes: intPtr(21)})
		requireAPIError(t, h.HandleDiagramSVG(c), "INVALID_HOLE_COUNT", http.StatusBadRequest)
	})
}
