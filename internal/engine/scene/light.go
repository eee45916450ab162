package scene

import "fmt"

// LightKind selects how a light illuminates the scene.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return fmt.Sprintf("light(%d)", uint8(k))
}

// ParseLightKind maps a template name to a LightKind.
func ParseLightKind(s string) (LightKind, error) {
	switch s {
	case "ambient":
		return LightAmbient, nil
	case "directional":
		return LightDirectional, nil
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	}
	return 0, fmt.Errorf("scene: unknown light kind %q", s)
}

// Light is attached to an entity and positioned by its world transform.
// Directional and spot lights aim at Target; without one they aim at the
// world origin.
type Light struct {
	Kind       LightKind
	Color      Color
	Intensity  float32
	Distance   float32 // 0 means unlimited range
	Decay      float32
	Angle      float32 // spot cone half-angle, radians
	Penumbra   float32 // 0..1 fraction of the cone that fades
	CastShadow bool
	Target     *Entity
}

// Ambient returns an ambient light.
func Ambient(c Color, intensity float32) *Light {
	return &Light{Kind: LightAmbient, Color: c, Intensity: intensity}
}

// Directional returns a directional light.
func Directional(c Color, intensity float32) *Light {
	return &Light{Kind: LightDirectional, Color: c, Intensity: intensity}
}

// Point returns a point light with the given range.
func Point(c Color, intensity, distance float32) *Light {
	return &Light{Kind: LightPoint, Color: c, Intensity: intensity, Distance: distance, Decay: 2}
}

// Spot returns a spot light.
func Spot(c Color, intensity, distance, angle, penumbra float32) *Light {
	return &Light{Kind: LightSpot, Color: c, Intensity: intensity, Distance: distance, Angle: angle, Penumbra: penumbra, Decay: 2}
}
