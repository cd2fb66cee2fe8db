package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/method/standard"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *method.Registry {
	return method.MustRegistry(standard.New())
}

func intPtr(n int) *int {
	return &n
}

// newJSONContext builds an echo context for a request with a JSON body.
// A nil body sends no content.
func newJSONContext(t *testing.T, httpMethod, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(httpMethod, target, nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(httpMethod, target, bytes.NewReader(data))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// requireAPIError asserts err is an *APIError with the given code and status.
func requireAPIError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code, apiErr.Message)
	require.Equal(t, status, apiErr.Status)
}

func newRawRequest(httpMethod, target, body string) *http.Request {
	req := httptest.NewRequest(httpMethod, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
