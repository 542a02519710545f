package dither

import (
	"fmt"

	ditherlib "github.com/makeworld-the-better-one/dither/v2"
)

// Tap sends Weight/Divisor of the quantization error to the pixel at
// (x+DX, y+DY).
type Tap struct {
	DX, DY int
	Weight float32
}

// Kernel is an error diffusion table. Taps only point at pixels that come
// later in raster order.
type Kernel struct {
	Divisor float32
	Taps    []Tap
}

// Total is the share of the error a pixel with all neighbors in bounds
// passes on.
func (k Kernel) Total() float32 {
	var sum float32
	for _, t := range k.Taps {
		sum += t.Weight
	}
	return sum / k.Divisor
}

func (k Kernel) validate() error {
	if !(k.Divisor > 0) {
		return fmt.Errorf("%w: divisor %v", ErrInvalidKernel, k.Divisor)
	}
	for _, t := range k.Taps {
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return fmt.Errorf("%w: tap %+v points at a visited pixel", ErrInvalidKernel, t)
		}
	}
	return nil
}

var (
	floydSteinberg = Kernel{
		Divisor: 16,
		Taps: []Tap{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
	}

	// two-row Jarvis-Judice-Ninke
	jarvisJudiceNinke = Kernel{
		Divisor: 48,
		Taps: []Tap{
			{1, 0, 7}, {2, 0, 5},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 7}, {2, 1, 5},
		},
	}

	// two-row Sierra
	sierra = Kernel{
		Divisor: 32,
		Taps: []Tap{
			{1, 0, 5}, {2, 0, 3},
			{-1, 1, 2}, {0, 1, 4}, {1, 1, 5}, {2, 1, 3},
		},
	}
)

// KernelFromMatrix converts a dither library matrix into a Kernel. The
// current pixel is the right-most zero of the top row before its first
// non-zero entry.
func KernelFromMatrix(m ditherlib.ErrorDiffusionMatrix) Kernel {
	k := Kernel{Divisor: 1}
	if len(m) == 0 {
		return k
	}

	cur := len(m[0]) / 2
	for i, v := range m[0] {
		if v != 0 {
			cur = i - 1
			break
		}
	}

	for y, row := range m {
		for x, w := range row {
			if w == 0 || (y == 0 && x <= cur) {
				continue
			}
			k.Taps = append(k.Taps, Tap{DX: x - cur, DY: y, Weight: w})
		}
	}
	return k
}

var libraryKernels = map[string]ditherlib.ErrorDiffusionMatrix{
	"jjn3":        ditherlib.JarvisJudiceNinke,
	"sierra3":     ditherlib.Sierra,
	"sierra-lite": ditherlib.SierraLite,
	"stucki":      ditherlib.Stucki,
	"burkes":      ditherlib.Burkes,
	"atkinson":    ditherlib.Atkinson,
}
