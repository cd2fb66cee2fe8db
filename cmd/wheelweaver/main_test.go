package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/layout"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestComputeJSON(t *testing.T) {
	out, err := execute(t, "compute", "--holes", "32", "-p", "crosses=2", "--format", "json")
	require.NoError(t, err)

	var got computeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "standard", got.MethodID)
	assert.Equal(t, 32, got.HoleCount)
	assert.Equal(t, float64(2), got.Params["crosses"])
	assert.Equal(t, method.AllStepID, got.Step)
	assert.Len(t, got.Rows, 32)
}

func TestComputeStepAndSide(t *testing.T) {
	out, err := execute(t, "compute", "--holes", "24", "--step", "step1", "--side", "right", "--format", "yaml")
	require.NoError(t, err)

	var got computeOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "step1", got.Step)
	assert.Equal(t, "right", got.Side)
	require.Len(t, got.Rows, 6)
	for _, row := range got.Rows {
		assert.Equal(t, "right", row["side"])
	}
}

func TestComputeCSV(t *testing.T) {
	out, err := execute(t, "compute", "--holes", "36", "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 37)
	assert.Equal(t, "order", records[0][0])
}

func TestComputeTable(t *testing.T) {
	out, err := execute(t, "compute", "--holes", "28", "-p", "crosses=8")
	require.NoError(t, err)
	assert.Contains(t, out, "standard 28h")
	assert.Contains(t, out, "warning:")
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "odd hole count", args: []string{"compute", "--holes", "33"}, wantErr: "hole count"},
		{name: "too few holes", args: []string{"compute", "--holes", "18"}, wantErr: "hole count"},
		{name: "unknown method", args: []string{"compute", "--method", "nope"}, wantErr: "unknown lacing method"},
		{name: "unknown step", args: []string{"compute", "--step", "step9"}, wantErr: "unknown step"},
		{name: "bad side", args: []string{"compute", "--side", "middle"}, wantErr: "invalid side"},
		{name: "bad format", args: []string{"compute", "--format", "xml"}, wantErr: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLayoutSVGToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.svg")
	_, err := execute(t, "layout", "--holes", "32", "--step", "step2", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "<svg"))
	assert.Contains(t, string(data), "standard 32h, Step 2")
}

func TestLayoutJSON(t *testing.T) {
	out, err := execute(t, "layout", "--holes", "32", "--format", "json",
		"--start-rim-hole", "5", "--valve-reference", "left_of_valve")
	require.NoError(t, err)

	var got layout.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Segments, 32)
}

func TestLayoutRejectsValveReference(t *testing.T) {
	_, err := execute(t, "layout", "--valve-reference", "above")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid valve reference")
}

func TestMethods(t *testing.T) {
	out, err := execute(t, "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "standard")

	out, err = execute(t, "methods", "--format", "json")
	require.NoError(t, err)
	var infos []method.Info
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "standard", infos[0].ID)
	assert.NotEmpty(t, infos[0].Params)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wheelweaver dev")
}

func TestParseParams(t *testing.T) {
	assert.Nil(t, parseParams(nil))
	assert.Equal(t, map[string]any{
		"crosses":   float64(3),
		"startSide": "left",
		"flag":      true,
	}, parseParams(map[string]string{"crosses": "3", "startSide": "left", "flag": "true"}))
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins(" http://a , ,http://b"))
}
