package primitive

import (
	gomath "math"

	"github.com/Faultbox/creaoverse/pkg/math"
)

// VertexStride is the number of floats per vertex: position, normal, uv.
const VertexStride = 8

// Mesh is an indexed triangle list with interleaved vertices.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

func (m *Mesh) vertex(p, n math.Vec3, u, v float32) uint32 {
	idx := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z, u, v)
	return idx
}

// quad appends two counter-clockwise triangles a-b-c, a-c-d.
func (m *Mesh) quad(a, b, c, d uint32) {
	m.Indices = append(m.Indices, a, b, c, a, c, d)
}

// Build generates the triangle mesh for a shape.
func Build(s Shape) Mesh {
	var m Mesh
	switch s.Kind {
	case KindBox:
		buildBox(&m, s)
	case KindCylinder:
		buildCylinder(&m, s)
	case KindPlane:
		buildPlane(&m, s)
	case KindCircle:
		buildCircle(&m, s)
	}
	return m
}

// face axes: normal, u direction, v direction.
var boxFaces = [6][3]math.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

func buildBox(m *Mesh, s Shape) {
	half := math.V3(s.Width/2, s.Height/2, s.Depth/2)
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		center := n.Mul(half)
		du := u.Mul(half)
		dv := v.Mul(half)
		a := m.vertex(center.Sub(du).Sub(dv), n, 0, 0)
		b := m.vertex(center.Add(du).Sub(dv), n, 1, 0)
		c := m.vertex(center.Add(du).Add(dv), n, 1, 1)
		d := m.vertex(center.Sub(du).Add(dv), n, 0, 1)
		m.quad(a, b, c, d)
	}
}

func buildPlane(m *Mesh, s Shape) {
	w, h := s.Width/2, s.Height/2
	n := math.V3(0, 0, 1)
	a := m.vertex(math.V3(-w, -h, 0), n, 0, 0)
	b := m.vertex(math.V3(w, -h, 0), n, 1, 0)
	c := m.vertex(math.V3(w, h, 0), n, 1, 1)
	d := m.vertex(math.V3(-w, h, 0), n, 0, 1)
	m.quad(a, b, c, d)
}

func buildCircle(m *Mesh, s Shape) {
	n := math.V3(0, 0, 1)
	center := m.vertex(math.Vec3{}, n, 0.5, 0.5)
	ring := make([]uint32, s.Segments+1)
	for i := range ring {
		sin, cos := angle(i, s.Segments)
		ring[i] = m.vertex(math.V3(cos*s.RadiusTop, sin*s.RadiusTop, 0), n, cos*0.5+0.5, sin*0.5+0.5)
	}
	for i := 0; i < s.Segments; i++ {
		m.Indices = append(m.Indices, center, ring[i], ring[i+1])
	}
}

func buildCylinder(m *Mesh, s Shape) {
	h := s.Height / 2
	slope := (s.RadiusBottom - s.RadiusTop) / max(s.Height, 1e-6)

	var top, bottom []uint32
	for i := 0; i <= s.Segments; i++ {
		sin, cos := angle(i, s.Segments)
		n := math.V3(sin, slope, cos).Normalize()
		u := float32(i) / float32(s.Segments)
		top = append(top, m.vertex(math.V3(sin*s.RadiusTop, h, cos*s.RadiusTop), n, u, 1))
		bottom = append(bottom, m.vertex(math.V3(sin*s.RadiusBottom, -h, cos*s.RadiusBottom), n, u, 0))
	}
	for i := 0; i < s.Segments; i++ {
		m.quad(bottom[i], bottom[i+1], top[i+1], top[i])
	}

	if s.RadiusTop > 0 {
		buildCap(m, s.RadiusTop, h, 1, s.Segments)
	}
	if s.RadiusBottom > 0 {
		buildCap(m, s.RadiusBottom, -h, -1, s.Segments)
	}
}

func buildCap(m *Mesh, r, y, sign float32, segments int) {
	n := math.V3(0, sign, 0)
	center := m.vertex(math.V3(0, y, 0), n, 0.5, 0.5)
	ring := make([]uint32, segments+1)
	for i := range ring {
		sin, cos := angle(i, segments)
		ring[i] = m.vertex(math.V3(sin*r, y, cos*r), n, sin*0.5+0.5, cos*0.5+0.5)
	}
	for i := 0; i < segments; i++ {
		if sign > 0 {
			m.Indices = append(m.Indices, center, ring[i], ring[i+1])
		} else {
			m.Indices = append(m.Indices, center, ring[i+1], ring[i])
		}
	}
}

func angle(i, segments int) (float32, float32) {
	sin, cos := gomath.Sincos(2 * gomath.Pi * float64(i) / float64(segments))
	return float32(sin), float32(cos)
}
