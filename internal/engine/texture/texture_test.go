package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func tgaFile(kind byte, w, h, bpp int, descriptor byte, body []byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = kind
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = byte(bpp)
	hdr[17] = descriptor
	return append(hdr, body...)
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 1x2, first stored pixel is the bottom row: blue, then red on top.
	data := tgaFile(tgaTrueColor, 1, 2, 24, 0, []byte{
		255, 0, 0,
		0, 0, 255,
	})
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected blue bottom pixel, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red top pixel, got %v", got)
	}
}

func TestDecodeTGATopToBottomAlpha(t *testing.T) {
	data := tgaFile(tgaTrueColor, 2, 1, 32, 0x20, []byte{
		0, 255, 0, 128,
		10, 20, 30, 255,
	})
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{G: 255, A: 128}) {
		t.Errorf("expected half-transparent green, got %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 30, G: 20, B: 10, A: 255}) {
		t.Errorf("expected BGR swapped pixel, got %v", got)
	}
}

func TestDecodeTGARunLength(t *testing.T) {
	// Run of three white pixels, then a raw packet of one black pixel.
	data := tgaFile(tgaTrueColorRLE, 2, 2, 24, 0x20, []byte{
		0x82, 255, 255, 255,
		0x00, 0, 0, 0,
	})
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	white := color.RGBA{255, 255, 255, 255}
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}} {
		if got := img.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("expected white at %v, got %v", p, got)
		}
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{A: 255}) {
		t.Errorf("expected black at (1,1), got %v", got)
	}
}

func TestDecodeTGAGray(t *testing.T) {
	data := tgaFile(tgaGray, 1, 1, 8, 0, []byte{77})
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{77, 77, 77, 255}) {
		t.Errorf("expected gray 77, got %v", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { d := tgaFile(tgaTrueColor, 1, 1, 24, 0, []byte{1, 2, 3}); d[1] = 1; return d }()},
		{"unsupported type", tgaFile(1, 1, 1, 8, 0, []byte{0})},
		{"unsupported depth", tgaFile(tgaTrueColor, 1, 1, 16, 0, []byte{0, 0})},
		{"empty", tgaFile(tgaTrueColor, 0, 0, 24, 0, nil)},
		{"truncated raw", tgaFile(tgaTrueColor, 2, 2, 24, 0, []byte{1, 2, 3})},
		{"truncated rle", tgaFile(tgaTrueColorRLE, 2, 2, 24, 0, []byte{0x81, 1, 2, 3})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			if !errors.Is(err, ErrTGA) {
				t.Errorf("expected ErrTGA, got %v", err)
			}
		})
	}
}

func TestDecodeTGAConfig(t *testing.T) {
	cfg, err := DecodeTGAConfig(tgaFile(tgaTrueColor, 300, 2, 24, 0, nil))
	if err != nil {
		t.Fatalf("DecodeTGAConfig failed: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 2 {
		t.Errorf("expected 300x2, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDecodeSelectsByName(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, format, err := Decode(buf.Bytes(), "poster.png")
	if err != nil {
		t.Fatalf("Decode png failed: %v", err)
	}
	if format != "png" || img.Rect.Dx() != 3 || img.Rect.Dy() != 2 {
		t.Errorf("expected 3x2 png, got %s %v", format, img.Rect)
	}

	tga := tgaFile(tgaTrueColor, 1, 1, 24, 0, []byte{0, 0, 255})
	img, format, err = Decode(tga, "POSTER.TGA")
	if err != nil {
		t.Fatalf("Decode tga failed: %v", err)
	}
	if format != "tga" || img.RGBAAt(0, 0).R != 255 {
		t.Errorf("expected red tga, got %s %v", format, img.RGBAAt(0, 0))
	}

	if _, _, err := Decode([]byte("not an image"), "notes.txt"); err == nil {
		t.Error("expected error for unknown data")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		limit int
		wantW int
		wantH int
	}{
		{"within limit", 10, 5, 16, 10, 5},
		{"wide", 400, 100, 200, 200, 50},
		{"tall", 100, 400, 200, 50, 200},
		{"thin", 1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.limit)
			if got.Rect.Dx() != tt.wantW || got.Rect.Dy() != tt.wantH {
				t.Errorf("expected %dx%d, got %v", tt.wantW, tt.wantH, got.Rect)
			}
			if got.Rect.Min != (image.Point{}) {
				t.Errorf("expected origin at zero, got %v", got.Rect.Min)
			}
		})
	}
}

func TestFitKeepsRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if got := Fit(src, 8); got != src {
		t.Error("expected RGBA input within limit to be returned as is")
	}
	offset := image.NewRGBA(image.Rect(2, 2, 6, 6))
	offset.SetRGBA(2, 2, color.RGBA{G: 9, A: 255})
	got := Fit(offset, 8)
	if got == offset || got.RGBAAt(0, 0).G != 9 {
		t.Errorf("expected copy rebased to origin, got %v", got.RGBAAt(0, 0))
	}
}
