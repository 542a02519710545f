package dither

import (
	"errors"
	"fmt"
	"image"
	"math"

	"muse/palette"
)

var ErrDimensions = errors.New("invalid buffer dimensions")

// maxPixels keeps Width*Height*3 well inside int on every platform.
const maxPixels = 1 << 28

// Pixels is the working buffer: three float samples per pixel, row-major,
// top-to-bottom and left-to-right. Error diffusion mutates it in place.
type Pixels struct {
	Width  int
	Height int
	Pix    []float32
}

func NewPixels(width, height int) (*Pixels, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return &Pixels{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > maxPixels/height {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return nil
}

// PixelsFromImage copies the straight (non alpha-premultiplied) 8-bit RGB
// channels of img into a new working buffer.
func PixelsFromImage(img image.Image) (*Pixels, error) {
	b := img.Bounds()
	p, err := NewPixels(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := palette.FromColor(img.At(x, y))
			p.Pix[i] = float32(c.R)
			p.Pix[i+1] = float32(c.G)
			p.Pix[i+2] = float32(c.B)
			i += 3
		}
	}
	return p, nil
}

func (p *Pixels) validate() error {
	if err := checkSize(p.Width, p.Height); err != nil {
		return err
	}
	if len(p.Pix) != p.Width*p.Height*3 {
		return fmt.Errorf("%w: %dx%d image with %d samples", ErrDimensions, p.Width, p.Height, len(p.Pix))
	}
	return nil
}

// Offset returns the index of the red sample of pixel (x, y).
func (p *Pixels) Offset(x, y int) int {
	return (y*p.Width + x) * 3
}

// Clamp limits every sample to [0, 255].
func (p *Pixels) Clamp() {
	for i, v := range p.Pix {
		p.Pix[i] = min(max(v, 0), 255)
	}
}

// Clone returns an independent copy, for callers that need to dither the
// same source more than once.
func (p *Pixels) Clone() *Pixels {
	return &Pixels{
		Width:  p.Width,
		Height: p.Height,
		Pix:    append([]float32(nil), p.Pix...),
	}
}

// clamp8 limits v to [0, 255] and rounds half away from zero.
func clamp8(v float32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(math.Round(float64(v)))
}

func (p *Pixels) at(i int) palette.Color {
	return palette.Color{
		R: clamp8(p.Pix[i]),
		G: clamp8(p.Pix[i+1]),
		B: clamp8(p.Pix[i+2]),
	}
}

// Output is the dithered result: 8-bit RGB samples plus the palette index
// of every pixel.
type Output struct {
	Width  int
	Height int
	Pix    []uint8
	Index  []uint8
}

func newOutput(width, height int) *Output {
	return &Output{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
		Index:  make([]uint8, width*height),
	}
}

func (o *Output) set(i int, c palette.Color, idx uint8) {
	o.Pix[i] = c.R
	o.Pix[i+1] = c.G
	o.Pix[i+2] = c.B
	o.Index[i/3] = idx
}

// At returns the output color of pixel (x, y).
func (o *Output) At(x, y int) palette.Color {
	i := (y*o.Width + x) * 3
	return palette.Color{R: o.Pix[i], G: o.Pix[i+1], B: o.Pix[i+2]}
}

func (o *Output) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	for i, j := 0, 0; i < len(o.Pix); i, j = i+3, j+4 {
		img.Pix[j] = o.Pix[i]
		img.Pix[j+1] = o.Pix[i+1]
		img.Pix[j+2] = o.Pix[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// Paletted wraps the output indices into an image using p, which must be
// the palette the cache was built from.
func (o *Output) Paletted(p *palette.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, o.Width, o.Height), p.ColorPalette())
	copy(img.Pix, o.Index)
	return img
}
