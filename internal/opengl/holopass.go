package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"holo-engine/effects"
	"holo-engine/shader"
)

// HoloPass runs effects.HoloFragmentSource as a fullscreen pass into its own
// RGBA8 target, which can then be read back or blitted to the window.
type HoloPass struct {
	// Off-screen target (scene → effect → FBO)
	FBO      uint32
	ColorTex uint32
	Width    int32
	Height   int32

	prog     uint32
	sceneLoc int32
	locs     map[string]int32 // uniform name → location, -1 if unused

	blitProg   uint32
	blitTexLoc int32

	quadVAO uint32 // empty VAO for the fullscreen triangle

	Params effects.HoloParams
	time   float64
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// holoVertSrc draws a fullscreen triangle from gl_VertexID, no VBO needed.
const holoVertSrc = `
#version 410 core
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
}
`

// blitFragSrc copies the off-screen target to the bound framebuffer.
const blitFragSrc = `
#version 410 core
out vec4 outColor;
uniform sampler2D colorTex;
uniform vec2 size;
void main() {
    outColor = texture(colorTex, gl_FragCoord.xy / size);
}
`

// ── Constructor ───────────────────────────────────────────────────────────────

// NewHoloPass translates and links the holographic program and allocates a
// width×height off-screen target. The GL context must be current.
func NewHoloPass(width, height int, params effects.HoloParams) (*HoloPass, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("holo pass: %w", err)
	}
	hp := &HoloPass{Params: params, locs: make(map[string]int32)}

	frag, err := shader.TranslateFragment(effects.HoloFragmentSource, shader.TargetGLSL410)
	if err != nil {
		return nil, fmt.Errorf("holo shader: %w", err)
	}
	prog, err := newProgram(holoVertSrc, frag.Code)
	if err != nil {
		return nil, fmt.Errorf("holo shader: %w", err)
	}
	hp.prog = prog
	hp.sceneLoc = uniformLocation(prog, frag.MappedName("uScene"))
	for _, u := range effects.HoloUniforms(params, 0, width, height) {
		hp.locs[u.Name] = uniformLocation(prog, frag.MappedName(u.Name))
	}
	gl.UseProgram(prog)
	gl.Uniform1i(hp.sceneLoc, 0)

	blit, err := newProgram(holoVertSrc, blitFragSrc)
	if err != nil {
		hp.Destroy()
		return nil, fmt.Errorf("blit shader: %w", err)
	}
	hp.blitProg = blit
	hp.blitTexLoc = uniformLocation(blit, "colorTex")
	gl.UseProgram(blit)
	gl.Uniform1i(hp.blitTexLoc, 0)

	gl.GenVertexArrays(1, &hp.quadVAO)

	if err := hp.allocFBO(width, height); err != nil {
		hp.Destroy()
		return nil, err
	}
	return hp, nil
}

// SetParams replaces the effect constants, rejecting non-finite values.
func (hp *HoloPass) SetParams(p effects.HoloParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("holo pass: %w", err)
	}
	hp.Params = p
	return nil
}

// SetTime mirrors effects.HoloPass.SetTime: time never moves backwards.
func (hp *HoloPass) SetTime(t float64) {
	if t > hp.time {
		hp.time = t
	}
}

func (hp *HoloPass) Time() float64 { return hp.time }

// ── Off-screen target lifecycle ───────────────────────────────────────────────

func (hp *HoloPass) allocFBO(width, height int) error {
	hp.Width = int32(width)
	hp.Height = int32(height)

	gl.GenTextures(1, &hp.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, hp.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &hp.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, hp.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, hp.ColorTex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("holo FBO incomplete (0x%X)", status)
	}
	return nil
}

func (hp *HoloPass) freeFBO() {
	if hp.FBO != 0 {
		gl.DeleteFramebuffers(1, &hp.FBO)
		hp.FBO = 0
	}
	if hp.ColorTex != 0 {
		gl.DeleteTextures(1, &hp.ColorTex)
		hp.ColorTex = 0
	}
}

// Resize recreates the off-screen target at the new pixel dimensions.
func (hp *HoloPass) Resize(width, height int) error {
	if int32(width) == hp.Width && int32(height) == hp.Height {
		return nil
	}
	hp.freeFBO()
	return hp.allocFBO(width, height)
}

// Destroy frees all GPU resources owned by this pass.
func (hp *HoloPass) Destroy() {
	hp.freeFBO()
	if hp.prog != 0 {
		gl.DeleteProgram(hp.prog)
		hp.prog = 0
	}
	if hp.blitProg != 0 {
		gl.DeleteProgram(hp.blitProg)
		hp.blitProg = 0
	}
	if hp.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &hp.quadVAO)
		hp.quadVAO = 0
	}
}

// ── Drawing ───────────────────────────────────────────────────────────────────

// Draw renders the effect over sceneTex into the off-screen target.
func (hp *HoloPass) Draw(sceneTex uint32) {
	hp.draw(sceneTex, hp.FBO, hp.Width, hp.Height)
}

// Blit copies the off-screen target to the default framebuffer.
func (hp *HoloPass) Blit(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(hp.blitProg)
	gl.Uniform2f(uniformLocation(hp.blitProg, "size"), float32(width), float32(height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, hp.ColorTex)
	gl.BindVertexArray(hp.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadPixels reads the off-screen target back into an image with the top
// row first.
func (hp *HoloPass) ReadPixels() *image.RGBA {
	w, h := int(hp.Width), int(hp.Height)
	flipped := make([]uint8, 4*w*h)
	gl.BindFramebuffer(gl.FRAMEBUFFER, hp.FBO)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, hp.Width, hp.Height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := (h - 1 - y) * 4 * w
		copy(img.Pix[y*img.Stride:y*img.Stride+4*w], flipped[src:src+4*w])
	}
	return img
}

func (hp *HoloPass) draw(sceneTex, fbo uint32, width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, width, height)
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(hp.prog)

	for _, u := range effects.HoloUniforms(hp.Params, hp.time, int(width), int(height)) {
		loc := hp.locs[u.Name]
		if loc < 0 {
			continue
		}
		switch len(u.Values) {
		case 1:
			gl.Uniform1f(loc, u.Values[0])
		case 2:
			gl.Uniform2f(loc, u.Values[0], u.Values[1])
		case 3:
			gl.Uniform3f(loc, u.Values[0], u.Values[1], u.Values[2])
		}
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, sceneTex)
	gl.BindVertexArray(hp.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
