// Package shadow renders a depth map from the shadow-casting directional
// light and computes its light-space matrix.
package shadow

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/creaoverse/internal/engine/framebuffer"
)

// DefaultResolution is the edge length of the depth texture.
const DefaultResolution = 2048

// Map is a square depth-only framebuffer sampled with comparison in the lit
// pass.
type Map struct {
	fbo        uint32
	depth      uint32
	resolution int32
	prev       framebuffer.Binding
}

// NewMap creates a shadow map. It returns nil when the driver rejects the
// framebuffer.
func NewMap(resolution int32) *Map {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	m := &Map{resolution: resolution}

	prev := framebuffer.Save()
	defer prev.Restore()

	gl.GenTextures(1, &m.depth)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Samples outside the light frustum read as fully lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	// sampler2DShadow comparison.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &m.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, m.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		m.Destroy()
		return nil
	}
	return m
}

// Resolution returns the edge length of the depth texture.
func (m *Map) Resolution() int32 { return m.resolution }

// Begin starts the depth pass. Front faces are culled to keep acne off lit
// surfaces; End restores the previous target and back-face culling.
func (m *Map) Begin() {
	m.prev = framebuffer.Save()
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.Viewport(0, 0, m.resolution, m.resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// End finishes the depth pass.
func (m *Map) End() {
	m.prev.Restore()
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth texture to unit for the lit pass.
func (m *Map) BindTexture(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
}

// Destroy releases the GL objects.
func (m *Map) Destroy() {
	if m.fbo != 0 {
		gl.DeleteFramebuffers(1, &m.fbo)
	}
	if m.depth != 0 {
		gl.DeleteTextures(1, &m.depth)
	}
	m.fbo, m.depth = 0, 0
}
