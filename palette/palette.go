package palette

import (
	"errors"
	"fmt"
	"image/color"
	"iter"
)

// MaxColors is the largest number of entries a palette may hold.
const MaxColors = 256

var (
	ErrEmpty    = errors.New("palette has no colors")
	ErrTooLarge = fmt.Errorf("palette has more than %d colors", MaxColors)
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var _ color.Color = Color{}

func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := uint32(c.R), uint32(c.G), uint32(c.B)
	return r | r<<8, g | g<<8, b | b<<8, 0xFFFF
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColor drops alpha and keeps the top 8 bits of every channel.
func FromColor(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: nc.R, G: nc.G, B: nc.B}
}

// Palette is an ordered, immutable list of colors. Order matters: when two
// entries are equally close to a color, the one with the lower index wins.
type Palette struct {
	Name   string
	colors []Color
}

func New(name string, colors []Color) (*Palette, error) {
	switch {
	case len(colors) == 0:
		return nil, fmt.Errorf("palette %q: %w", name, ErrEmpty)
	case len(colors) > MaxColors:
		return nil, fmt.Errorf("palette %q with %d colors: %w", name, len(colors), ErrTooLarge)
	}

	return &Palette{
		Name:   name,
		colors: append([]Color(nil), colors...),
	}, nil
}

func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

func (p *Palette) At(i int) Color {
	return p.colors[i]
}

// All yields every entry with its index, in palette order.
func (p *Palette) All() iter.Seq2[int, Color] {
	return func(yield func(int, Color) bool) {
		if p == nil {
			return
		}
		for i, c := range p.colors {
			if !yield(i, c) {
				return
			}
		}
	}
}

func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		cp[i] = c
	}
	return cp
}
