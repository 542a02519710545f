package palette

import (
	"image/color"
	stdpalette "image/color/palette"
	"slices"
)

var builtins = map[string]func() []Color{
	"bw": func() []Color {
		return []Color{{0, 0, 0}, {255, 255, 255}}
	},
	"gray4":  func() []Color { return grayRamp(4) },
	"gray16": func() []Color { return grayRamp(16) },
	"cga16": func() []Color {
		return []Color{
			{0x00, 0x00, 0x00}, {0x00, 0x00, 0xAA}, {0x00, 0xAA, 0x00}, {0x00, 0xAA, 0xAA},
			{0xAA, 0x00, 0x00}, {0xAA, 0x00, 0xAA}, {0xAA, 0x55, 0x00}, {0xAA, 0xAA, 0xAA},
			{0x55, 0x55, 0x55}, {0x55, 0x55, 0xFF}, {0x55, 0xFF, 0x55}, {0x55, 0xFF, 0xFF},
			{0xFF, 0x55, 0x55}, {0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0x55}, {0xFF, 0xFF, 0xFF},
		}
	},
	"gameboy": func() []Color {
		return []Color{{0x0f, 0x38, 0x0f}, {0x30, 0x62, 0x30}, {0x8b, 0xac, 0x0f}, {0x9b, 0xbc, 0x0f}}
	},
	"pico8": func() []Color {
		return []Color{
			{0x00, 0x00, 0x00}, {0x1d, 0x2b, 0x53}, {0x7e, 0x25, 0x53}, {0x00, 0x87, 0x51},
			{0xab, 0x52, 0x36}, {0x5f, 0x57, 0x4f}, {0xc2, 0xc3, 0xc7}, {0xff, 0xf1, 0xe8},
			{0xff, 0x00, 0x4d}, {0xff, 0xa3, 0x00}, {0xff, 0xec, 0x27}, {0x00, 0xe4, 0x36},
			{0x29, 0xad, 0xff}, {0x83, 0x76, 0x9c}, {0xff, 0x77, 0xa8}, {0xff, 0xcc, 0xaa},
		}
	},
	// e-paper panels with six pigments
	"spectra6": func() []Color {
		return []Color{{0, 0, 0}, {255, 255, 255}, {255, 255, 0}, {255, 0, 0}, {0, 0, 255}, {0, 255, 0}}
	},
	"websafe": func() []Color { return fromStd(stdpalette.WebSafe) },
	"plan9":   func() []Color { return fromStd(stdpalette.Plan9) },
}

func grayRamp(levels int) []Color {
	res := make([]Color, levels)
	for i := range levels {
		v := uint8(i * 255 / (levels - 1))
		res[i] = Color{v, v, v}
	}
	return res
}

func fromStd(cp color.Palette) []Color {
	res := make([]Color, len(cp))
	for i, c := range cp {
		res[i] = FromColor(c)
	}
	return res
}

// Builtin returns the named built-in palette.
func Builtin(name string) (*Palette, bool) {
	gen, ok := builtins[name]
	if !ok {
		return nil, false
	}
	p, err := New(name, gen())
	if err != nil {
		panic("invalid built-in palette " + name + ": " + err.Error())
	}
	return p, true
}

// BuiltinNames lists the built-in palettes in lexical order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
