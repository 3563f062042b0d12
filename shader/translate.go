// Package shader translates the WebGL2 fragment programs of the effects
// package into the GLSL dialect of the running context.
package shader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

// Target is an output shading-language dialect.
type Target string

const (
	TargetGLSL410 Target = "glsl410"
	TargetGLSL330 Target = "glsl330"
	TargetESSL    Target = "essl"
)

// ParseTarget accepts the -target flag spellings.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetGLSL410, TargetGLSL330, TargetESSL:
		return t, nil
	case "":
		return TargetGLSL410, nil
	default:
		return "", fmt.Errorf("unknown shader target %q (want glsl410, glsl330 or essl)", s)
	}
}

// Program is a translated fragment program. The translator renames user
// identifiers, so uniform locations must be looked up through MappedName.
type Program struct {
	Target Target
	Code   string
	mapped map[string]string
}

// MappedName returns the identifier a uniform was renamed to, or name
// itself when the translator kept it.
func (p *Program) MappedName(name string) string {
	if m, ok := p.mapped[name]; ok && m != "" {
		return m
	}
	return name
}

var (
	translatorOnce sync.Once
	translator     *gst.ShaderTranslator
	translatorErr  error
)

func getTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// TranslateFragment converts a WebGL2 fragment program to target.
func TranslateFragment(src string, target Target) (*Program, error) {
	if _, err := ParseTarget(string(target)); err != nil || target == "" {
		return nil, fmt.Errorf("unknown shader target %q", target)
	}
	tr, err := getTranslator()
	if err != nil {
		return nil, fmt.Errorf("shader translator: %w", err)
	}

	format := gst.OutputFormatGLSL410
	switch target {
	case TargetGLSL330:
		format = gst.OutputFormatGLSL330
	case TargetESSL:
		format = gst.OutputFormatESSL
	}
	res, err := tr.TranslateShader(src, "fragment", gst.ShaderSpecWebGL2, format)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	mapped := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		mapped[name] = v.MappedName
	}
	return &Program{Target: target, Code: res.Code, mapped: mapped}, nil
}
