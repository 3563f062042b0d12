package io

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"holo-engine/core"
	"holo-engine/effects"
)

// ParamsFile is the top-level structure of a .toml effect parameter file.
type ParamsFile struct {
	Version string   `toml:"version"`
	Name    string   `toml:"name"`
	Holo    HoloData `toml:"holo"`
}

// HoloData stores the holographic pass constants
type HoloData struct {
	Intensity       float32    `toml:"intensity"`
	Distortion      float32    `toml:"distortion"`
	DistortionFreq  float32    `toml:"distortion_freq"`
	DistortionSpeed float32    `toml:"distortion_speed"`
	ScanDensity     float32    `toml:"scan_density"`
	ScanStrength    float32    `toml:"scan_strength"`
	ScanSpeed       float32    `toml:"scan_speed"`
	Flicker         float32    `toml:"flicker"`
	ChromaShift     float32    `toml:"chroma_shift"`
	TintMix         float32    `toml:"tint_mix"`
	Tint            [3]float32 `toml:"tint"`
}

// SaveParams serializes a parameter file as TOML
func SaveParams(path string, file *ParamsFile) error {
	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadParams reads a TOML parameter file. Keys missing from the file keep
// their default values; non-finite values are reported as a setup error.
func LoadParams(path string) (*ParamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	return ParseParams(data)
}

// ParseParams decodes TOML parameter data.
func ParseParams(data []byte) (*ParamsFile, error) {
	file := NewDefaultParamsFile("")
	if err := toml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}
	if err := file.Holo.ToParams().Validate(); err != nil {
		return nil, fmt.Errorf("params file: %w", err)
	}
	return file, nil
}

// NewDefaultParamsFile creates a parameter file holding the documented defaults
func NewDefaultParamsFile(name string) *ParamsFile {
	return &ParamsFile{
		Version: "1.0",
		Name:    name,
		Holo:    HoloDataFromParams(effects.DefaultHoloParams()),
	}
}

// --- Helper conversions ---

// ToParams converts stored data into pass constants
func (d HoloData) ToParams() effects.HoloParams {
	return effects.HoloParams{
		Intensity:       d.Intensity,
		Distortion:      d.Distortion,
		DistortionFreq:  d.DistortionFreq,
		DistortionSpeed: d.DistortionSpeed,
		ScanDensity:     d.ScanDensity,
		ScanStrength:    d.ScanStrength,
		ScanSpeed:       d.ScanSpeed,
		Flicker:         d.Flicker,
		ChromaShift:     d.ChromaShift,
		TintMix:         d.TintMix,
		Tint:            ArrayToColor(d.Tint),
	}
}

// HoloDataFromParams converts pass constants into their stored form
func HoloDataFromParams(p effects.HoloParams) HoloData {
	return HoloData{
		Intensity:       p.Intensity,
		Distortion:      p.Distortion,
		DistortionFreq:  p.DistortionFreq,
		DistortionSpeed: p.DistortionSpeed,
		ScanDensity:     p.ScanDensity,
		ScanStrength:    p.ScanStrength,
		ScanSpeed:       p.ScanSpeed,
		Flicker:         p.Flicker,
		ChromaShift:     p.ChromaShift,
		TintMix:         p.TintMix,
		Tint:            ColorToArray(p.Tint),
	}
}

// ColorToArray converts a Color to [3]float32, dropping alpha
func ColorToArray(c core.Color) [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// ArrayToColor converts [3]float32 to an opaque Color
func ArrayToColor(a [3]float32) core.Color {
	return core.Color{R: a[0], G: a[1], B: a[2], A: 1}
}
