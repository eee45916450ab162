package scene

import (
	"image"
	"image/draw"
	"sync/atomic"
)

// Material describes how a renderable is shaded. Materials may be shared by
// several entities; changing a shared material changes all of them.
type Material struct {
	Color       Color
	Opacity     float32
	Transparent bool
	Shininess   float32
	Unlit       bool
	DoubleSided bool
	Emissive    Color

	texture *Texture
}

// NewMaterial returns an opaque lit material.
func NewMaterial(c Color) *Material {
	return &Material{Color: c, Opacity: 1, Shininess: 30}
}

// Clone returns an independent copy sharing the texture.
func (m *Material) Clone() *Material {
	cp := *m
	return &cp
}

// Texture returns the current texture map or nil.
func (m *Material) Texture() *Texture {
	return m.texture
}

// TextureMapped reports whether the material samples a texture.
func (m *Material) TextureMapped() bool {
	return m.texture != nil
}

// SetTexture replaces the texture map. A nil texture removes it.
func (m *Material) SetTexture(t *Texture) {
	m.texture = t
}

// SetOpacity clamps o into [0, 1] and marks the material transparent below 1.
func (m *Material) SetOpacity(o float32) {
	m.Opacity = min(max(o, 0), 1)
	m.Transparent = m.Opacity < 1
}

var lastTextureRevision atomic.Uint64

// Texture is decoded RGBA pixel data. Revision is unique per texture so the
// GPU cache can tell a replacement from the texture it already uploaded.
type Texture struct {
	Image    *image.RGBA
	Revision uint64
	Source   string
}

// NewTexture converts img to RGBA and assigns a fresh revision.
func NewTexture(img image.Image, source string) *Texture {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Texture{Image: rgba, Revision: lastTextureRevision.Add(1), Source: source}
}

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) {
	return t.Image.Rect.Dx(), t.Image.Rect.Dy()
}
