package room

import "github.com/Faultbox/creaoverse/internal/engine/scene"

// Window tint saturation and lightness.
const (
	ColorizerSaturation = 0.6
	ColorizerLightness  = 0.4
)

// Spectrum supplies byte frequency magnitudes.
type Spectrum interface {
	ByteFrequencyData(dst []uint8) int
}

// Colorizer tints target entities from the audio spectrum. Target k takes
// sample k mod len(samples).
type Colorizer struct {
	targets []*scene.Entity
	source  Spectrum
	buf     []uint8
}

// NewColorizer creates a colorizer reading up to bins samples per frame.
func NewColorizer(targets []*scene.Entity, source Spectrum, bins int) *Colorizer {
	return &Colorizer{targets: targets, source: source, buf: make([]uint8, bins)}
}

// SpectrumColor maps a magnitude to a hue across the full color wheel.
func SpectrumColor(m uint8) scene.Color {
	return scene.HSL(float32(m)/255*360, ColorizerSaturation, ColorizerLightness)
}

// Update samples the spectrum and recolors the targets. It does nothing
// when not playing. It returns the number of targets recolored.
func (c *Colorizer) Update(playing bool) int {
	if !playing || c.source == nil || len(c.targets) == 0 {
		return 0
	}
	n := c.source.ByteFrequencyData(c.buf)
	if n <= 0 {
		return 0
	}
	samples := c.buf[:n]
	updated := 0
	for k, t := range c.targets {
		if t.Mesh == nil {
			continue
		}
		t.Mesh.Material.Color = SpectrumColor(samples[k%len(samples)])
		updated++
	}
	return updated
}
