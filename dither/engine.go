// Package dither restricts a working pixel buffer to the colors of a
// quantization cache, optionally simulating missing colors through ordered
// thresholds or error diffusion.
//
// Every method visits pixels once, in raster order. Error diffusion methods
// leave the source buffer polluted with propagated error; clone it first if
// it has to be dithered again.
package dither

import (
	"errors"
	"fmt"

	"muse/palette"
	"muse/quantize"
)

var ErrNilCache = errors.New("nil color cache")

type lookupFunc func(palette.Color) (palette.Color, uint8)

// Apply runs m over src and returns a new output buffer. The arguments are
// checked before any pixel is visited; on error no output is returned.
func Apply(m Method, src *Pixels, cache *quantize.Cache) (*Output, error) {
	switch {
	case m == nil:
		return nil, fmt.Errorf("%w: nil method", ErrUnknownMethod)
	case cache == nil:
		return nil, ErrNilCache
	case src == nil:
		return nil, fmt.Errorf("%w: nil pixel buffer", ErrDimensions)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := src.validate(); err != nil {
		return nil, err
	}

	lookup := func(c palette.Color) (palette.Color, uint8) {
		return cache.Lookup(c), cache.LookupIndex(c)
	}

	dst := newOutput(src.Width, src.Height)
	m.run(src, dst, lookup)
	return dst, nil
}

func (None) run(src *Pixels, dst *Output, lookup lookupFunc) {
	for i := 0; i < len(src.Pix); i += 3 {
		c, idx := lookup(src.at(i))
		dst.set(i, c, idx)
	}
}

func (m Ordered) run(src *Pixels, dst *Output, lookup lookupFunc) {
	for y := range src.Height {
		for x := range src.Width {
			i := src.Offset(x, y)
			old := src.at(i)
			b := bias(m.threshold(x, y))
			adjusted := palette.Color{
				R: clamp8(float32(old.R) + b),
				G: clamp8(float32(old.G) + b),
				B: clamp8(float32(old.B) + b),
			}
			c, idx := lookup(adjusted)
			dst.set(i, c, idx)
		}
	}
}

func (m Diffusion) run(src *Pixels, dst *Output, lookup lookupFunc) {
	w, h := src.Width, src.Height
	k := m.Kernel

	for y := range h {
		for x := range w {
			i := src.Offset(x, y)
			old := src.at(i)
			c, idx := lookup(old)
			dst.set(i, c, idx)

			errR := float32(int(old.R) - int(c.R))
			errG := float32(int(old.G) - int(c.G))
			errB := float32(int(old.B) - int(c.B))
			if errR == 0 && errG == 0 && errB == 0 {
				continue
			}

			for _, t := range k.Taps {
				nx, ny := x+t.DX, y+t.DY
				// out of bounds taps are dropped, not redistributed
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := src.Offset(nx, ny)
				src.Pix[j] += float32(errR*t.Weight) / k.Divisor
				src.Pix[j+1] += float32(errG*t.Weight) / k.Divisor
				src.Pix[j+2] += float32(errB*t.Weight) / k.Divisor
			}
		}
	}
}
