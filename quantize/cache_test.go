package quantize

import (
	"errors"
	"testing"

	"muse/palette"
)

func mustPalette(t *testing.T, colors ...palette.Color) *palette.Palette {
	t.Helper()
	p, err := palette.New(t.Name(), colors)
	if err != nil {
		t.Fatalf("palette.New: %v", err)
	}
	return p
}

// bruteForce scans the whole palette; the first minimum wins.
func bruteForce(p *palette.Palette, c palette.Color) int {
	best, bestDist := 0, Distance(c, p.At(0))
	for i := 1; i < p.Len(); i++ {
		if d := Distance(c, p.At(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func TestDistance(t *testing.T) {
	black := palette.Color{}
	tests := []struct {
		c    palette.Color
		want int
	}{
		{palette.Color{R: 10, G: 0, B: 0}, 29},
		{palette.Color{R: 0, G: 10, B: 0}, 58},
		{palette.Color{R: 0, G: 0, B: 10}, 11},
		{black, 0},
	}
	for _, tc := range tests {
		if got := Distance(black, tc.c); got != tc.want {
			t.Errorf("Distance(black, %v) = %d, want %d", tc.c, got, tc.want)
		}
		if got := Distance(tc.c, black); got != tc.want {
			t.Errorf("Distance(%v, black) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		c    palette.Color
		want int
	}{
		{palette.Color{R: 0, G: 0, B: 0}, 0},
		{palette.Color{R: 255, G: 255, B: 255}, Size - 1},
		{palette.Color{R: 8, G: 4, B: 8}, 1<<11 | 1<<5 | 1},
		{palette.Color{R: 7, G: 3, B: 7}, 0},
		{palette.Color{R: 255, G: 0, B: 0}, 31 << 11},
		{palette.Color{R: 0, G: 255, B: 0}, 63 << 5},
	}
	for _, tc := range tests {
		if got := Key(tc.c); got != tc.want {
			t.Errorf("Key(%v) = %d, want %d", tc.c, got, tc.want)
		}
	}

	c := palette.Color{R: 13, G: 7, B: 250}
	if got, want := Representative(Key(c)), (palette.Color{R: 8, G: 4, B: 248}); got != want {
		t.Errorf("Representative(Key(%v)) = %v, want %v", c, got, want)
	}
}

func TestNewCacheEmpty(t *testing.T) {
	if _, err := NewCache(nil); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("nil palette: got %v, want ErrEmptyPalette", err)
	}
	if _, err := NewCache(&palette.Palette{}); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("zero palette: got %v, want ErrEmptyPalette", err)
	}
}

func TestCacheMatchesBruteForce(t *testing.T) {
	palettes := map[string][]palette.Color{
		"bw":      {{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}},
		"gameboy": {{R: 0x0f, G: 0x38, B: 0x0f}, {R: 0x30, G: 0x62, B: 0x30}, {R: 0x8b, G: 0xac, B: 0x0f}, {R: 0x9b, G: 0xbc, B: 0x0f}},
		"primaries": {
			{R: 0, G: 0, B: 0}, {R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255},
			{R: 255, G: 255, B: 0}, {R: 0, G: 255, B: 255}, {R: 255, G: 0, B: 255}, {R: 255, G: 255, B: 255},
		},
		"duplicates": {{R: 128, G: 64, B: 32}, {R: 12, G: 200, B: 99}, {R: 128, G: 64, B: 32}, {R: 12, G: 200, B: 99}, {R: 250, G: 250, B: 250}},
		"single":     {{R: 10, G: 20, B: 30}},
	}

	for name, colors := range palettes {
		t.Run(name, func(t *testing.T) {
			p := mustPalette(t, colors...)
			cache, err := NewCache(p)
			if err != nil {
				t.Fatalf("NewCache: %v", err)
			}

			for key := range Size {
				rep := Representative(key)
				want := bruteForce(p, rep)
				if got := cache.LookupIndex(rep); int(got) != want {
					t.Fatalf("bucket %d (%v): index %d, want %d", key, rep, got, want)
				}
				if got := cache.Lookup(rep); got != p.At(want) {
					t.Fatalf("bucket %d (%v): color %v, want %v", key, rep, got, p.At(want))
				}
			}

			// every member of a bucket shares the representative's answer
			for v := 0; v < 1<<24; v += 997 {
				c := palette.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
				if got, want := cache.Lookup(c), p.At(bruteForce(p, Representative(Key(c)))); got != want {
					t.Fatalf("Lookup(%v) = %v, want %v", c, got, want)
				}
			}
		})
	}
}

func TestCacheTieKeepsFirst(t *testing.T) {
	// both entries are 11 away from the bucket representative {96, 100, 96}
	lo := palette.Color{R: 96, G: 100, B: 86}
	hi := palette.Color{R: 96, G: 100, B: 106}
	sample := palette.Color{R: 100, G: 100, B: 100}

	cache, err := NewCache(mustPalette(t, lo, hi))
	if err != nil {
		t.Fatal(err)
	}
	if got := cache.Lookup(sample); got != lo {
		t.Errorf("Lookup = %v, want first entry %v", got, lo)
	}

	cache, err = NewCache(mustPalette(t, hi, lo))
	if err != nil {
		t.Fatal(err)
	}
	if got := cache.Lookup(sample); got != hi {
		t.Errorf("Lookup = %v, want first entry %v", got, hi)
	}

	dup := palette.Color{R: 1, G: 2, B: 3}
	cache, err = NewCache(mustPalette(t, dup, dup))
	if err != nil {
		t.Fatal(err)
	}
	if got := cache.LookupIndex(dup); got != 0 {
		t.Errorf("duplicate entries: index %d, want 0", got)
	}
}

func TestCachePaletteName(t *testing.T) {
	p, _ := palette.Builtin("gameboy")
	cache, err := NewCache(p)
	if err != nil {
		t.Fatal(err)
	}
	if cache.PaletteName() != "gameboy" {
		t.Errorf("PaletteName() = %q", cache.PaletteName())
	}
}
