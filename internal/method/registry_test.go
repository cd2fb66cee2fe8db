package method

import (
	"errors"
	"testing"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMethod struct {
	desc Descriptor
	defs []ParamDef
}

func (f fakeMethod) Descriptor() Descriptor  { return f.desc }
func (f fakeMethod) ParamSchema() []ParamDef { return f.defs }
func (f fakeMethod) Steps() []Step           { return []Step{AllSteps} }
func (f fakeMethod) Compute(holes int, raw map[string]any) (*models.PatternResult, error) {
	if err := ValidateHoleCount(holes); err != nil {
		return nil, err
	}
	return &models.PatternResult{MethodID: f.desc.ID, HoleCount: holes, Params: Resolve(f.defs, raw).Map()}, nil
}

func fake(id string, holes ...int) fakeMethod {
	return fakeMethod{desc: Descriptor{ID: id, Name: id, SupportedHoles: holes}}
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(fake("alpha", 32), fake("beta", 24, 28))
	require.NoError(t, err)

	m, err := r.Get("BETA")
	require.NoError(t, err)
	assert.Equal(t, "beta", m.Descriptor().ID)

	_, err = r.Get("gamma")
	assert.True(t, errors.Is(err, ErrUnknownMethod))

	def, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "alpha", def.Descriptor().ID)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Descriptor().ID)
	assert.Equal(t, "beta", list[1].Descriptor().ID)
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		methods []LacingMethod
		want    error
	}{
		{"duplicate id", []LacingMethod{fake("a", 32), fake("A", 36)}, ErrDuplicateMethod},
		{"no holes", []LacingMethod{fake("a")}, ErrInvalidDescriptor},
		{"odd holes", []LacingMethod{fake("a", 21)}, ErrInvalidDescriptor},
		{"small holes", []LacingMethod{fake("a", 18, 20)}, ErrInvalidDescriptor},
		{"unsorted holes", []LacingMethod{fake("a", 32, 28)}, ErrInvalidDescriptor},
		{"empty id", []LacingMethod{fake("", 32)}, ErrInvalidDescriptor},
		{"bad schema", []LacingMethod{fakeMethod{
			desc: Descriptor{ID: "a", SupportedHoles: []int{32}},
			defs: []ParamDef{{Key: "x", Kind: KindBoolean, Default: 1}},
		}}, ErrInvalidDescriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.methods...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRegistry_Empty(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Nil(t, r.Default())
	_, err = r.Resolve("")
	assert.True(t, errors.Is(err, ErrUnknownMethod))
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry(fake("a", 19)) })
}

func TestDescriptor_Supports(t *testing.T) {
	d := Descriptor{ID: "x", SupportedHoles: []int{28, 32}}
	assert.True(t, d.Supports(32))
	assert.False(t, d.Supports(36))
}
