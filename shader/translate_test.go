package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holo-engine/effects"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"glsl410", TargetGLSL410, false},
		{" GLSL330 ", TargetGLSL330, false},
		{"essl", TargetESSL, false},
		{"", TargetGLSL410, false},
		{"hlsl", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappedNameFallsBack(t *testing.T) {
	p := &Program{mapped: map[string]string{"uBandPhase": "_uuBandPhase", "uTint": ""}}
	assert.Equal(t, "_uuBandPhase", p.MappedName("uBandPhase"))
	assert.Equal(t, "uTint", p.MappedName("uTint"))
	assert.Equal(t, "uScene", p.MappedName("uScene"))
}

func TestTranslateUnknownTarget(t *testing.T) {
	_, err := TranslateFragment("void main() {}", Target("spirv"))
	assert.Error(t, err)
}

func TestTranslateHoloFragment(t *testing.T) {
	for _, target := range []Target{TargetGLSL410, TargetGLSL330, TargetESSL} {
		t.Run(string(target), func(t *testing.T) {
			prog, err := TranslateFragment(effects.HoloFragmentSource, target)
			require.NoError(t, err)
			assert.Equal(t, target, prog.Target)
			require.NotEmpty(t, prog.Code)

			names := []string{"uScene"}
			for _, u := range effects.HoloUniforms(effects.DefaultHoloParams(), 0, 64, 48) {
				names = append(names, u.Name)
			}
			for _, name := range names {
				assert.Contains(t, prog.Code, prog.MappedName(name), "uniform %s", name)
			}
		})
	}
}
