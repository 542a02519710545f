package palette

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/ericpauley/go-quantize/quantize"
)

// ExtractMethod selects how a palette is derived from an image.
type ExtractMethod string

const (
	ExtractHistogramMethod ExtractMethod = "histogram"
	ExtractMedianCutMethod ExtractMethod = "median"
)

func Extract(method ExtractMethod, img image.Image, name string, n int) (*Palette, error) {
	if n < 1 || n > MaxColors {
		return nil, fmt.Errorf("invalid number of colors to extract: %d", n)
	}

	var colors []Color
	switch method {
	case ExtractHistogramMethod:
		colors = ExtractHistogram(img, n)
	case ExtractMedianCutMethod:
		colors = ExtractMedianCut(img, n)
	default:
		return nil, fmt.Errorf("unknown extraction method: %s", method)
	}

	return New(name, colors)
}

type colorCount struct {
	c Color
	n int
}

func (cc colorCount) key() int {
	return int(cc.c.R)<<16 | int(cc.c.G)<<8 | int(cc.c.B)
}

// ExtractHistogram returns the n most frequent exact colors of img. Equal
// counts are ordered by ascending RGB value.
func ExtractHistogram(img image.Image, n int) []Color {
	counts := make(map[Color]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[FromColor(img.At(x, y))]++
		}
	}

	hist := make([]colorCount, 0, len(counts))
	for c, cnt := range counts {
		hist = append(hist, colorCount{c: c, n: cnt})
	}
	slices.SortFunc(hist, func(a, b colorCount) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.key(), b.key())
	})

	res := make([]Color, 0, min(n, len(hist)))
	for _, cc := range hist[:min(n, len(hist))] {
		res = append(res, cc.c)
	}
	return res
}

// ExtractMedianCut reduces img to at most n representative colors.
func ExtractMedianCut(img image.Image, n int) []Color {
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, n), img)

	res := make([]Color, len(cp))
	for i, c := range cp {
		res[i] = FromColor(c)
	}
	return res
}
