package crt

// preset.go - YAML-serializable monitor control presets, loaded the way
// config.go in the ka9q_ubersdr pack member loads its Config: read the
// whole file, unmarshal into a plain struct, validate, then apply.

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset is the on-disk (YAML) representation of MonitorControls; it carries
// no SystemConfig fields. Fields use pointers so that "not present in the
// file" and "present, set to zero/false" are distinguishable; Apply leaves
// any nil field at the CRT's current value.
type Preset struct {
	Name       string `yaml:"name"`
	Hue        *int32 `yaml:"hue,omitempty"`
	Saturation *int32 `yaml:"saturation,omitempty"`
	Brightness *int32 `yaml:"brightness,omitempty"`
	Contrast   *int32 `yaml:"contrast,omitempty"`
	BlackPoint *int32 `yaml:"black_point,omitempty"`
	WhitePoint *int32 `yaml:"white_point,omitempty"`
	Scanlines  *bool  `yaml:"scanlines,omitempty"`
	Blend      *bool  `yaml:"blend,omitempty"`
}

// LoadPreset reads and parses a YAML preset file. It does not apply it;
// call Apply on the result.
func LoadPreset(filename string) (*Preset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read preset file")
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse preset file")
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid preset")
	}
	return &p, nil
}

// Validate rejects contrast, hue and white-point values outside the ranges
// the demodulator's fixed-point arithmetic assumes. The other fields are not
// range-checked.
func (p *Preset) Validate() error {
	if p.Contrast != nil && (*p.Contrast < 0 || *p.Contrast > 1000) {
		return errors.Errorf("contrast %d out of range [0,1000]", *p.Contrast)
	}
	if p.Hue != nil && (*p.Hue < -360 || *p.Hue > 360) {
		return errors.Errorf("hue %d out of range [-360,360]", *p.Hue)
	}
	if p.WhitePoint != nil && (*p.WhitePoint < 0 || *p.WhitePoint > 200) {
		return errors.Errorf("white point %d out of range [0,200]", *p.WhitePoint)
	}
	return nil
}

// Apply overlays the preset's non-nil fields onto crt's current controls.
func (p *Preset) Apply(c *CRT) {
	m := &c.Controls
	if p.Hue != nil {
		m.Hue = *p.Hue
	}
	if p.Saturation != nil {
		m.Saturation = *p.Saturation
	}
	if p.Brightness != nil {
		m.Brightness = *p.Brightness
	}
	if p.Contrast != nil {
		m.Contrast = *p.Contrast
	}
	if p.BlackPoint != nil {
		m.BlackPoint = *p.BlackPoint
	}
	if p.WhitePoint != nil {
		m.WhitePoint = *p.WhitePoint
	}
	if p.Scanlines != nil {
		m.Scanlines = *p.Scanlines
	}
	if p.Blend != nil {
		m.Blend = *p.Blend
	}
}

// SavePreset writes c's current controls to filename as a fully-populated
// (no omitted fields) YAML preset named name.
func SavePreset(filename, name string, c *CRT) error {
	m := c.Controls
	p := Preset{
		Name:       name,
		Hue:        &m.Hue,
		Saturation: &m.Saturation,
		Brightness: &m.Brightness,
		Contrast:   &m.Contrast,
		BlackPoint: &m.BlackPoint,
		WhitePoint: &m.WhitePoint,
		Scanlines:  &m.Scanlines,
		Blend:      &m.Blend,
	}
	data, err := yaml.Marshal(&p)
	if err != nil {
		return errors.Wrap(err, "marshal preset")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "write preset file")
	}
	return nil
}
