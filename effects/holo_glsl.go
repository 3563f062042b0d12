package effects

// HoloFragmentSource is the holographic pass as a WebGL2 (GLSL ES 3.00)
// fragment program. It follows HoloPass.Apply step for step; the GPU path
// samples with the texture unit's bilinear filter instead of rowSampler.
// uScene must use CLAMP_TO_EDGE wrapping.
const HoloFragmentSource = `#version 300 es
precision highp float;
precision highp int;

uniform sampler2D uScene;
uniform vec2  uResolution;

// Time enters only through these phases, each already reduced to its period.
uniform float uBandPhase;
uniform float uGlitchPhase;
uniform float uScanPhase;
uniform float uFlickerPhase;

uniform float uIntensity;
uniform float uDistortion;
uniform float uDistortionFreq;
uniform float uScanDensity;
uniform float uScanStrength;
uniform float uFlicker;
uniform float uChromaShift;
uniform float uTintMix;
uniform vec3  uTint;

out vec4 outColor;

const float TWO_PI = 6.28318530718;
const uint NOISE_MASK = 1023u; // NoisePeriod - 1

uint hash32(uint x) {
    x ^= x >> 16;
    x *= 0x7feb352du;
    x ^= x >> 15;
    x *= 0x846ca68bu;
    x ^= x >> 16;
    return x;
}

float hash1(int n) {
    return float(hash32(uint(n) & NOISE_MASK)) / 4294967295.0;
}

float hash2(int x, int y) {
    return float(hash32((uint(x) & NOISE_MASK) ^ hash32(uint(y) & NOISE_MASK))) / 4294967295.0;
}

float noise1(float x) {
    float i = floor(x);
    float f = x - i;
    float u = f * f * (3.0 - 2.0 * f);
    int n = int(i);
    return mix(hash1(n), hash1(n + 1), u);
}

float noise2(vec2 p) {
    vec2 i = floor(p);
    vec2 f = p - i;
    vec2 u = f * f * (3.0 - 2.0 * f);
    int nx = int(i.x);
    int ny = int(i.y);
    float a = mix(hash2(nx, ny), hash2(nx + 1, ny), u.x);
    float b = mix(hash2(nx, ny + 1), hash2(nx + 1, ny + 1), u.x);
    return mix(a, b, u.y);
}

void main() {
    vec2 uv = gl_FragCoord.xy / uResolution;
    // Image rows run top to bottom on the CPU side.
    float v = 1.0 - uv.y;

    float amp = uIntensity * uDistortion;
    float band = sin(v * uDistortionFreq * TWO_PI + uBandPhase);
    float glitch = 2.0 * noise2(vec2(v * uDistortionFreq * 0.5, uGlitchPhase)) - 1.0;
    float dx = amp * (0.6 * band + 0.4 * glitch);

    vec2 suv = vec2(uv.x + dx, uv.y);
    float shift = uIntensity * uChromaShift;
    vec4 c = texture(uScene, suv);
    c.r = texture(uScene, suv + vec2(shift, 0.0)).r;
    c.b = texture(uScene, suv - vec2(shift, 0.0)).b;

    float scan = 0.0;
    if (uScanDensity != 0.0) {
        float phase = v * uScanDensity - uScanPhase;
        scan = uScanStrength * (0.5 - 0.5 * cos(TWO_PI * phase));
    }
    float bright = 1.0 - uIntensity * uFlicker * noise1(uFlickerPhase);
    c.rgb *= bright * (1.0 - scan);

    float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
    c.rgb = mix(c.rgb, uTint * l, uIntensity * uTintMix);
    outColor = c;
}
`

// Uniform is a named scalar or vector pushed into a fragment program.
type Uniform struct {
	Name   string
	Values []float32
}

// HoloUniforms lists the per-frame uniforms of HoloFragmentSource for the
// given constants, time and render target size. The time is passed as the
// same float64-reduced phases HoloPass.Apply uses.
func HoloUniforms(p HoloParams, t float64, width, height int) []Uniform {
	ph := timePhases(p, t)
	return []Uniform{
		{"uResolution", []float32{float32(width), float32(height)}},
		{"uBandPhase", []float32{ph.band}},
		{"uGlitchPhase", []float32{ph.glitch}},
		{"uScanPhase", []float32{ph.scan}},
		{"uFlickerPhase", []float32{ph.flicker}},
		{"uIntensity", []float32{p.Intensity}},
		{"uDistortion", []float32{p.Distortion}},
		{"uDistortionFreq", []float32{p.DistortionFreq}},
		{"uScanDensity", []float32{p.ScanDensity}},
		{"uScanStrength", []float32{p.ScanStrength}},
		{"uFlicker", []float32{p.Flicker}},
		{"uChromaShift", []float32{p.ChromaShift}},
		{"uTintMix", []float32{p.TintMix}},
		{"uTint", []float32{p.Tint.R, p.Tint.G, p.Tint.B}},
	}
}
