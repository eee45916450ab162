// Package renderer draws a scene graph with forward Phong shading into an
// offscreen framebuffer.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/engine/camera"
	"github.com/Faultbox/creaoverse/internal/engine/framebuffer"
	"github.com/Faultbox/creaoverse/internal/engine/lighting"
	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/renderer/shaders"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/engine/shader"
	"github.com/Faultbox/creaoverse/internal/engine/shadow"
	"github.com/Faultbox/creaoverse/internal/logger"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// gpuMesh is an uploaded primitive.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	log      *zap.Logger
	program  *shader.Program
	depth    *shader.Program
	shadows  *shadow.Map
	target   *framebuffer.Framebuffer
	meshes   *cache[primitive.Shape, gpuMesh]
	textures *cache[uint64, uint32]
	white    uint32
	dropped  int
	stats    Stats
}

// Stats describes the last frame.
type Stats struct {
	Draws       int
	Transparent int
	Meshes      int
	Textures    int
	Shadowed    bool
}

// New initializes OpenGL and creates a renderer drawing into a
// width x height target.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logger.Named("renderer")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.New(shaders.PhongVertexShader, shaders.PhongFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling phong shader: %w", err)
	}

	depth, err := shader.New(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("compiling depth shader: %w", err)
	}

	target, err := framebuffer.New(int32(width), int32(height))
	if err != nil {
		program.Delete()
		depth.Delete()
		return nil, err
	}

	shadows := shadow.NewMap(shadow.DefaultResolution)
	if shadows == nil {
		log.Warn("shadow map unsupported, shadows disabled")
	} else {
		log.Debug("shadow map ready", zap.Int32("resolution", shadows.Resolution()))
	}

	r := &Renderer{
		log:      log,
		program:  program,
		depth:    depth,
		shadows:  shadows,
		target:   target,
		meshes:   newCache[primitive.Shape, gpuMesh](),
		textures: newCache[uint64, uint32](),
	}
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []byte{0xff, 0xff, 0xff, 0xff})
	r.white = uploadTexture(white)
	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.meshes.reset(deleteMesh)
	r.textures.reset(deleteTexture)
	deleteTexture(r.white)
	if r.shadows != nil {
		r.shadows.Destroy()
	}
	r.target.Destroy()
	r.program.Delete()
	r.depth.Delete()
}

// Resize changes the target size.
func (r *Renderer) Resize(width, height int) {
	r.target.Resize(int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the target size.
func (r *Renderer) Size() (int, int) {
	w, h := r.target.Size()
	return int(w), int(h)
}

// ColorTexture returns the texture holding the last frame, for display in
// the UI.
func (r *Renderer) ColorTexture() uint32 {
	return r.target.ColorTexture()
}

// Snapshot reads back the last frame.
func (r *Renderer) Snapshot() *image.RGBA {
	return r.target.Snapshot()
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats { return r.stats }

// Draw renders g from cam's point of view.
func (r *Renderer) Draw(g *scene.Graph, cam *camera.OrbitCamera, background scene.Color) {
	eye := cam.Position()
	plan := BuildPlan(g.Visible(), eye)
	lights := lighting.Collect(g)
	if lights.Dropped != r.dropped {
		r.dropped = lights.Dropped
		if lights.Dropped > 0 {
			r.log.Warn("lights over shader limit ignored", zap.Int("dropped", lights.Dropped))
		}
	}

	caster := lights.ShadowIndex()
	var lightSpace math.Mat4
	if caster >= 0 && r.shadows != nil && !plan.Bounds.Empty() {
		lightSpace = shadow.DirectionalLightMatrix(lights.Directional[caster].Direction, plan.Bounds)
		r.drawShadows(&plan, lightSpace)
	} else {
		caster = -1
	}

	bg := background.Array()
	defer r.target.Begin([4]float32{bg[0], bg[1], bg[2], 1}).Restore()

	p := r.program
	p.Use()
	p.SetMat4("uView", cam.ViewMatrix())
	p.SetMat4("uProjection", cam.ProjectionMatrix())
	p.SetVec3("uCameraPos", eye.Array())
	r.setLights(&lights)
	p.SetInt("uShadowIndex", int32(caster))
	p.SetMat4("uLightSpace", lightSpace)
	p.SetInt("uShadowMap", 1)
	if caster >= 0 {
		r.shadows.BindTexture(gl.TEXTURE1)
	}
	p.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.CullFace(gl.BACK)

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for i := range plan.Opaque {
		r.drawItem(&plan.Opaque[i])
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for i := range plan.Transparent {
		r.drawItem(&plan.Transparent[i])
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)

	// Replaced poster textures drop out here.
	r.textures.sweep(deleteTexture)

	r.stats = Stats{
		Draws:       plan.Len(),
		Transparent: len(plan.Transparent),
		Meshes:      r.meshes.len(),
		Textures:    r.textures.len(),
		Shadowed:    caster >= 0,
	}
}

// drawShadows renders opaque items into the shadow map from the light.
func (r *Renderer) drawShadows(plan *Plan, lightSpace math.Mat4) {
	r.shadows.Begin()
	defer r.shadows.End()

	r.depth.Use()
	r.depth.SetMat4("uLightSpace", lightSpace)
	for i := range plan.Opaque {
		it := &plan.Opaque[i]
		mesh := r.mesh(it.Entity.Mesh.Shape)
		if mesh.count == 0 {
			continue
		}
		// Flat shapes have no back faces to render.
		if flat(it.Entity.Mesh.Shape) || it.Material.DoubleSided {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
		}
		r.depth.SetMat4("uModel", it.Model)
		gl.BindVertexArray(mesh.vao)
		gl.DrawElements(gl.TRIANGLES, mesh.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func flat(s primitive.Shape) bool {
	return s.Kind == primitive.KindPlane || s.Kind == primitive.KindCircle
}

func (r *Renderer) mesh(s primitive.Shape) gpuMesh {
	return r.meshes.get(s, func() gpuMesh {
		return uploadMesh(primitive.Build(s))
	})
}

func (r *Renderer) setLights(s *lighting.Set) {
	p := r.program
	p.SetVec3("uAmbient", s.Ambient)

	dirs, dirColors := s.DirectionalArrays()
	p.SetInt("uDirCount", int32(len(s.Directional)))
	p.SetVec3Array("uDirDirection", dirs)
	p.SetVec3Array("uDirColor", dirColors)

	pos, colors, params := s.PointArrays()
	p.SetInt("uPointCount", int32(len(s.Points)))
	p.SetVec3Array("uPointPosition", pos)
	p.SetVec3Array("uPointColor", colors)
	p.SetVec2Array("uPointParams", params)

	spotPos, spotDirs, spotColors, spotParams := s.SpotArrays()
	p.SetInt("uSpotCount", int32(len(s.Spots)))
	p.SetVec3Array("uSpotPosition", spotPos)
	p.SetVec3Array("uSpotDirection", spotDirs)
	p.SetVec3Array("uSpotColor", spotColors)
	p.SetVec4Array("uSpotParams", spotParams)
}

func (r *Renderer) drawItem(it *Item) {
	m := it.Material
	mesh := r.mesh(it.Entity.Mesh.Shape)
	if mesh.count == 0 {
		return
	}

	p := r.program
	p.SetMat4("uModel", it.Model)
	p.SetVec3("uColor", m.Color.Array())
	p.SetVec3("uEmissive", m.Emissive.Array())
	p.SetFloat("uOpacity", m.Opacity)
	p.SetFloat("uShininess", max(m.Shininess, 1))
	p.SetBool("uUnlit", m.Unlit)

	if tex := m.Texture(); tex != nil && tex.Image != nil {
		id := r.textures.get(tex.Revision, func() uint32 {
			return uploadTexture(tex.Image)
		})
		gl.BindTexture(gl.TEXTURE_2D, id)
		p.SetBool("uHasTexture", true)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		p.SetBool("uHasTexture", false)
	}

	if m.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(gl.TRIANGLES, mesh.count, gl.UNSIGNED_INT, nil)
}

func uploadMesh(m primitive.Mesh) gpuMesh {
	var g gpuMesh
	if len(m.Indices) == 0 {
		return g
	}
	g.count = int32(len(m.Indices))

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(primitive.VertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return g
}

func deleteMesh(g gpuMesh) {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
}

func uploadTexture(img *image.RGBA) uint32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return id
}

func deleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}
