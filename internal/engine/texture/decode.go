// Package texture decodes user-supplied images into GPU-ready RGBA pixels.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"path"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxSize is the largest edge a decoded texture keeps. Larger images are
// scaled down preserving aspect ratio.
const MaxSize = 2048

// Extensions lists the file extensions Decode understands.
var Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp", "tga"}

// Decode decodes data into an RGBA image no larger than MaxSize on either
// edge. name selects the TGA decoder, which has no magic number; every
// other format is sniffed. The returned string names the format.
func Decode(data []byte, name string) (*image.RGBA, string, error) {
	var (
		img    image.Image
		format string
		err    error
	)
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
		format = "tga"
	} else {
		img, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return Fit(img, MaxSize), format, nil
}

// Fit converts img to RGBA with its origin at (0, 0), scaling it down when
// either edge exceeds limit.
func Fit(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > limit || h > limit {
		if w >= h {
			h = max(1, h*limit/w)
			w = limit
		} else {
			w = max(1, w*limit/h)
			h = limit
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
