package palette

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type yamlPalette struct {
	Name   string   `yaml:"name,omitempty"`
	Colors []string `yaml:"colors"`
}

// ReadYAML reads a palette document of the form
//
//	name: gameboy
//	colors: ["#0f380f", "#306230", "#8bac0f", "#9bbc0f"]
//
// The name in the document, when present, overrides name.
func ReadYAML(r io.Reader, name string) (*Palette, error) {
	var doc yamlPalette
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode YAML palette %q: %w", name, err)
	}
	if doc.Name != "" {
		name = doc.Name
	}

	colors := make([]Color, 0, len(doc.Colors))
	for i, hex := range doc.Colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid color %d %q in palette %q: %w", i, hex, name, err)
		}
		r, g, b := c.RGB255()
		colors = append(colors, Color{R: r, G: g, B: b})
	}

	return New(name, colors)
}

func WriteYAML(w io.Writer, p *Palette) (int64, error) {
	doc := yamlPalette{
		Name:   p.Name,
		Colors: make([]string, 0, p.Len()),
	}
	for _, c := range p.All() {
		doc.Colors = append(doc.Colors, c.String())
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("could not encode YAML palette %q: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("could not flush YAML palette %q: %w", p.Name, err)
	}
	return int64(p.Len()), nil
}
