package scene

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is a linear RGB triple with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Hex builds a color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// Hex returns the color as 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

func channel(f float32) uint8 {
	f = min(max(f, 0), 1)
	return uint8(gomath.Round(float64(f) * 255))
}

// String returns the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// Array returns the color as an array for uniform uploads.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Scale multiplies every channel by f.
func (c Color) Scale(f float32) Color {
	return Color{c.R * f, c.G * f, c.B * f}
}

// HSL converts hue (degrees), saturation and lightness ([0, 1]) to RGB.
func HSL(h, s, l float32) Color {
	h = float32(gomath.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	s = min(max(s, 0), 1)
	l = min(max(l, 0), 1)
	if s == 0 {
		return Color{l, l, l}
	}

	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360
	return Color{
		R: hueToRGB(p, q, hk+1.0/3),
		G: hueToRGB(p, q, hk),
		B: hueToRGB(p, q, hk-1.0/3),
	}
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// ParseColor accepts #rgb, #rrggbb, 0xrrggbb and CSS color names.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var digits string
	switch {
	case strings.HasPrefix(s, "#"):
		digits = s[1:]
	case strings.HasPrefix(s, "0x"):
		digits = s[2:]
	default:
		if rgba, ok := colornames.Map[s]; ok {
			return Color{float32(rgba.R) / 255, float32(rgba.G) / 255, float32(rgba.B) / 255}, nil
		}
		return Color{}, fmt.Errorf("scene: unknown color %q", s)
	}

	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("scene: malformed color %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("scene: malformed color %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// UnmarshalYAML accepts any string ParseColor understands or a bare integer.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("scene: color must be a scalar, line %d", node.Line)
	}
	if node.Tag == "!!int" {
		v, err := strconv.ParseUint(node.Value, 0, 32)
		if err != nil {
			return fmt.Errorf("scene: color line %d: %w", node.Line, err)
		}
		*c = Hex(uint32(v))
		return nil
	}
	parsed, err := ParseColor(node.Value)
	if err != nil {
		return fmt.Errorf("%w (line %d)", err, node.Line)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color as #rrggbb.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
