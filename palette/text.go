package palette

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

const maxNameLen = 63

// NameFromPath derives a palette name from a file path: the base name
// without its extension, cut to 63 bytes.
func NameFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// ReadText reads the line based hex palette format:
//
//	; comment
//	FF1a1c2c
//	5d275d
//
// Every line holds one RRGGBB color, optionally preceded by an FF alpha
// byte. Lines that do not parse are skipped.
func ReadText(r io.Reader, name string) (*Palette, error) {
	var colors []Color

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c, ok := parseTextLine(sc.Text())
		if !ok {
			continue
		}
		colors = append(colors, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read palette %q: %w", name, err)
	}

	return New(name, colors)
}

func parseTextLine(line string) (Color, bool) {
	if strings.HasPrefix(line, ";") {
		return Color{}, false
	}

	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if line == "" {
		return Color{}, false
	}

	// AARRGGBB with an opaque alpha byte
	if len(line) >= 8 && isHex(line[:8]) && strings.HasPrefix(line, "FF") {
		line = line[2:]
	}

	if len(line) < 6 || !isHex(line[:6]) {
		return Color{}, false
	}

	c, err := colorful.Hex("#" + line[:6])
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

func WriteText(w io.Writer, p *Palette) (int64, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "; %s\n", p.Name); err != nil {
		return 0, fmt.Errorf("could not write palette header: %w", err)
	}

	var n int64
	for i, c := range p.All() {
		if _, err := fmt.Fprintf(bw, "%02X%02X%02X\n", c.R, c.G, c.B); err != nil {
			return n, fmt.Errorf("could not write color %d/%d: %w", i, p.Len(), err)
		}
		n++
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("could not flush palette: %w", err)
	}
	return n, nil
}
