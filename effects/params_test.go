package effects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamSpecsAreConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range ParamSpecs() {
		assert.False(t, seen[s.Name], "duplicate %s", s.Name)
		seen[s.Name] = true
		assert.Less(t, s.Min, s.Max, s.Name)
		assert.GreaterOrEqual(t, s.Default, s.Min, s.Name)
		assert.LessOrEqual(t, s.Default, s.Max, s.Name)
		assert.NotEmpty(t, s.Doc, s.Name)
		assert.Greater(t, s.Step(), float32(0), s.Name)
	}
}

func TestDefaultHoloParamsMatchTable(t *testing.T) {
	p := DefaultHoloParams()
	require.NoError(t, p.Validate())
	for _, s := range ParamSpecs() {
		v, err := p.Get(s.Name)
		require.NoError(t, err)
		assert.Equal(t, s.Default, v, s.Name)
	}
	assert.Equal(t, float32(1), p.Tint.A)
}

func TestGetSetByName(t *testing.T) {
	p := DefaultHoloParams()
	require.NoError(t, p.Set("scan_density", 42))
	assert.Equal(t, float32(42), p.ScanDensity)

	v, err := p.Get("scan_density")
	require.NoError(t, err)
	assert.Equal(t, float32(42), v)

	require.NoError(t, p.Set("tint_b", 0.5))
	assert.Equal(t, float32(0.5), p.Tint.B)

	_, err = p.Get("gamma")
	assert.True(t, errors.Is(err, ErrUnknownParam))
	assert.True(t, errors.Is(p.Set("gamma", 1), ErrUnknownParam))
}

func TestSpecClamp(t *testing.T) {
	s, ok := LookupSpec("scan_speed")
	require.True(t, ok)
	assert.Equal(t, float32(-10), s.Clamp(-50))
	assert.Equal(t, float32(10), s.Clamp(50))
	assert.Equal(t, float32(1), s.Clamp(1))

	_, ok = LookupSpec("nope")
	assert.False(t, ok)
}

func TestParamSpecsReturnsCopy(t *testing.T) {
	specs := ParamSpecs()
	specs[0].Name = "changed"
	_, ok := LookupSpec("intensity")
	assert.True(t, ok)
}
