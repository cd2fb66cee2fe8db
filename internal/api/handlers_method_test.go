package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodHandler_HandleListMethods(t *testing.T) {
	h := NewMethodHandler(newTestRegistry())
	c, rec := newJSONContext(t, http.MethodGet, "/api/methods", nil)

	require.NoError(t, h.HandleListMethods(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Methods []method.Info `json:"methods"`
		Default string        `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Methods, 1)
	assert.Equal(t, "standard", body.Default)
	assert.Equal(t, "standard", body.Methods[0].ID)
	assert.Equal(t, []int{20, 24, 28, 32, 36}, body.Methods[0].SupportedHoles)
	assert.Len(t, body.Methods[0].Params, 4)
	assert.Len(t, body.Methods[0].Steps, 5)
}

func TestMethodHandler_HandleGetMethod(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "known", id: "standard"},
		{name: "case-insensitive", id: "Standard"},
		{name: "unknown", id: "snowflake", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMethodHandler(newTestRegistry())
			c, rec := newJSONContext(t, http.MethodGet, "/api/methods/"+tt.id, nil)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.HandleGetMethod(c)
			if tt.wantErr {
				requireAPIError(t, err, "NOT_FOUND", http.StatusNotFound)
				return
			}
			require.NoError(t, err)

			var info method.Info
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
			assert.Equal(t, "standard", info.ID)
			assert.Equal(t, "crosses", info.Params[0].Key)
		})
	}
}

func TestMethodHandler_HandleGetCrosses(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		holes      string
		wantMax    int
		wantCommon []int
		errCode    string
		wantStatus int
	}{
		{name: "32 holes", id: "standard", holes: "32", wantMax: 7, wantCommon: []int{0, 1, 2, 3, 4}},
		{name: "20 holes", id: "standard", holes: "20", wantMax: 4, wantCommon: []int{0, 1, 2}},
		{name: "36 holes", id: "standard", holes: "36", wantMax: 8, wantCommon: []int{0, 1, 2, 3, 4}},
		{name: "missing holes", id: "standard", holes: "", errCode: "VALIDATION_ERROR", wantStatus: http.StatusBadRequest},
		{name: "odd holes", id: "standard", holes: "19", errCode: "INVALID_HOLE_COUNT", wantStatus: http.StatusBadRequest},
		{name: "unknown method", id: "snowflake", holes: "32", errCode: "NOT_FOUND", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMethodHandler(newTestRegistry())
			c, rec := newJSONContext(t, http.MethodGet, "/api/methods/"+tt.id+"/crosses?holes="+tt.holes, nil)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.HandleGetCrosses(c)
			if tt.errCode != "" {
				requireAPIError(t, err, tt.errCode, tt.wantStatus)
				return
			}
			require.NoError(t, err)

			var body struct {
				Holes  int   `json:"holes"`
				Max    int   `json:"max"`
				Common []int `json:"common"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMax, body.Max)
			assert.Equal(t, tt.wantCommon, body.Common)
		})
	}
}
