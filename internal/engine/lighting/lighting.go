// Package lighting gathers the scene graph's lights into world space and
// packs them for shader upload.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Shader array sizes.
const (
	MaxDirectionalLights = 4
	MaxPointLights       = 8
	MaxSpotLights        = 8
)

// DirectionalLight shines along Direction (from the light toward its target).
type DirectionalLight struct {
	Direction  math.Vec3
	Color      [3]float32 // color * intensity
	CastShadow bool
}

// PointLight represents a point light source for GPU upload.
type PointLight struct {
	Position math.Vec3
	Color    [3]float32
	Range    float32 // 0 means unlimited
	Decay    float32
}

// SpotLight is a cone light aimed at a target.
type SpotLight struct {
	Position  math.Vec3
	Direction math.Vec3
	Color     [3]float32
	Range     float32
	Decay     float32
	CosOuter  float32
	CosInner  float32
}

// Set is every light visible in one frame, in world space.
type Set struct {
	Ambient     [3]float32
	Directional []DirectionalLight
	Points      []PointLight
	Spots       []SpotLight
	Dropped     int // lights beyond the shader limits
}

// Collect walks the visible part of g and returns its lights. Lights under a
// hidden ancestor are skipped. Lights past the per-kind limits are counted in
// Dropped.
func Collect(g *scene.Graph) Set {
	var s Set
	for e, world := range g.Visible() {
		l := e.Light
		if l == nil || l.Intensity <= 0 {
			continue
		}
		color := l.Color.Scale(l.Intensity).Array()
		pos := world.Translation()

		switch l.Kind {
		case scene.LightAmbient:
			for i := range s.Ambient {
				s.Ambient[i] += color[i]
			}
		case scene.LightDirectional:
			if len(s.Directional) == MaxDirectionalLights {
				s.Dropped++
				continue
			}
			s.Directional = append(s.Directional, DirectionalLight{
				Direction:  aim(pos, l.Target),
				Color:      color,
				CastShadow: l.CastShadow,
			})
		case scene.LightPoint:
			if len(s.Points) == MaxPointLights {
				s.Dropped++
				continue
			}
			s.Points = append(s.Points, PointLight{Position: pos, Color: color, Range: l.Distance, Decay: l.Decay})
		case scene.LightSpot:
			if len(s.Spots) == MaxSpotLights {
				s.Dropped++
				continue
			}
			outer := float64(l.Angle)
			inner := outer * (1 - float64(min(max(l.Penumbra, 0), 1)))
			s.Spots = append(s.Spots, SpotLight{
				Position:  pos,
				Direction: aim(pos, l.Target),
				Color:     color,
				Range:     l.Distance,
				Decay:     l.Decay,
				CosOuter:  float32(gomath.Cos(outer)),
				CosInner:  float32(gomath.Cos(inner)),
			})
		}
	}
	return s
}

// ShadowIndex returns the index of the first shadow-casting directional
// light, or -1.
func (s *Set) ShadowIndex() int {
	for i, l := range s.Directional {
		if l.CastShadow {
			return i
		}
	}
	return -1
}

// aim returns the unit direction from pos toward target's world position,
// or toward the origin without a target.
func aim(pos math.Vec3, target *scene.Entity) math.Vec3 {
	var to math.Vec3
	if target != nil {
		to = target.WorldPosition()
	}
	d := to.Sub(pos).Normalize()
	if d == (math.Vec3{}) {
		return math.V3(0, -1, 0)
	}
	return d
}
