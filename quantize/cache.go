// Package quantize maps arbitrary colors to the nearest entry of a palette
// through a precomputed lookup table over a reduced 5-6-5 color space.
package quantize

import (
	"errors"

	"muse/palette"
)

const (
	redBits   = 5
	greenBits = 6
	blueBits  = 5

	redShift   = 8 - redBits
	greenShift = 8 - greenBits
	blueShift  = 8 - blueBits

	// Size is the number of buckets in a Cache.
	Size = 1 << (redBits + greenBits + blueBits)
)

var ErrEmptyPalette = errors.New("cannot build color cache from an empty palette")

// Distance is the luma weighted squared distance between two colors,
// truncated to an integer. It is evaluated in single precision.
func Distance(a, b palette.Color) int {
	dr := float32(int(a.R) - int(b.R))
	dg := float32(int(a.G) - int(b.G))
	db := float32(int(a.B) - int(b.B))

	// explicit conversions keep the products from being fused into the sum
	return int(float32(0.299*dr*dr) + float32(0.587*dg*dg) + float32(0.114*db*db))
}

// Key returns the bucket of c: red in the high bits, blue in the low bits.
func Key(c palette.Color) int {
	r := int(c.R) >> redShift
	g := int(c.G) >> greenShift
	b := int(c.B) >> blueShift
	return r<<(greenBits+blueBits) | g<<blueBits | b
}

// Representative is the full precision color every member of a bucket is
// matched as.
func Representative(key int) palette.Color {
	r := key >> (greenBits + blueBits) & (1<<redBits - 1)
	g := key >> blueBits & (1<<greenBits - 1)
	b := key & (1<<blueBits - 1)
	return palette.Color{
		R: uint8(r << redShift),
		G: uint8(g << greenShift),
		B: uint8(b << blueShift),
	}
}

// Cache answers nearest palette color queries in constant time. It is
// immutable once built and safe for concurrent use.
type Cache struct {
	name   string
	colors [Size]palette.Color
	index  [Size]uint8
}

// NewCache matches the representative of every bucket against p. Ties go
// to the lowest palette index.
func NewCache(p *palette.Palette) (*Cache, error) {
	if p.Len() == 0 {
		return nil, ErrEmptyPalette
	}

	c := &Cache{name: p.Name}
	for key := range Size {
		rep := Representative(key)

		best, bestDist := 0, Distance(rep, p.At(0))
		for i := 1; i < p.Len() && bestDist > 0; i++ {
			if dist := Distance(rep, p.At(i)); dist < bestDist {
				best, bestDist = i, dist
			}
		}

		c.colors[key] = p.At(best)
		c.index[key] = uint8(best)
	}

	return c, nil
}

// Lookup returns the palette color cached for the bucket of c.
func (c *Cache) Lookup(col palette.Color) palette.Color {
	return c.colors[Key(col)]
}

// LookupIndex returns the palette index cached for the bucket of c.
func (c *Cache) LookupIndex(col palette.Color) uint8 {
	return c.index[Key(col)]
}

// PaletteName is the name of the palette the cache was built from.
func (c *Cache) PaletteName() string {
	return c.name
}
