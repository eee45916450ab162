package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrTGA is wrapped by every TGA decoding failure.
var ErrTGA = errors.New("texture: invalid tga")

const tgaHeaderSize = 18

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

type tgaHeader struct {
	idLength    int
	colorMap    byte
	kind        byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func (h tgaHeader) gray() bool { return h.kind == tgaGray || h.kind == tgaGrayRLE }
func (h tgaHeader) rle() bool  { return h.kind == tgaTrueColorRLE || h.kind == tgaGrayRLE }

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("%w: header too short", ErrTGA)
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		kind:        data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	if h.colorMap != 0 {
		return h, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}
	switch h.kind {
	case tgaTrueColor, tgaTrueColorRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("%w: unsupported depth %d", ErrTGA, h.bpp)
		}
	case tgaGray, tgaGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("%w: unsupported gray depth %d", ErrTGA, h.bpp)
		}
	default:
		return h, fmt.Errorf("%w: unsupported type %d", ErrTGA, h.kind)
	}
	if h.width == 0 || h.height == 0 {
		return h, fmt.Errorf("%w: empty image", ErrTGA)
	}
	return h, nil
}

// DecodeTGAConfig reads the dimensions of a TGA image without decoding
// pixels.
func DecodeTGAConfig(data []byte) (image.Config, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodeTGA decodes true-color (24/32 bpp) and 8-bit grayscale TGA images,
// raw or run-length encoded.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: truncated id field", ErrTGA)
	}

	d := tgaDecoder{
		header: h,
		src:    data[offset:],
		img:    image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		stride: h.bpp / 8,
	}
	if h.rle() {
		err = d.runLength()
	} else {
		err = d.raw()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	header tgaHeader
	src    []byte
	pos    int
	img    *image.RGBA
	stride int
}

func (d *tgaDecoder) pixel() (color.RGBA, error) {
	if d.pos+d.stride > len(d.src) {
		return color.RGBA{}, fmt.Errorf("%w: truncated pixel data", ErrTGA)
	}
	p := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride
	if d.header.gray() {
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}, nil
	}
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put stores the n-th pixel in file order. Files are bottom-up unless the
// descriptor says otherwise.
func (d *tgaDecoder) put(n int, c color.RGBA) {
	w := d.header.width
	x, y := n%w, n/w
	if !d.header.topToBottom {
		y = d.header.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) raw() error {
	for n := range d.header.width * d.header.height {
		c, err := d.pixel()
		if err != nil {
			return err
		}
		d.put(n, c)
	}
	return nil
}

func (d *tgaDecoder) runLength() error {
	total := d.header.width * d.header.height
	n := 0
	for n < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: truncated packet stream", ErrTGA)
		}
		packet := d.src[d.pos]
		d.pos++
		count := min(int(packet&0x7f)+1, total-n)

		if packet&0x80 != 0 {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			for range count {
				d.put(n, c)
				n++
			}
			continue
		}
		for range count {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			d.put(n, c)
			n++
		}
	}
	return nil
}
