package palette

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultDir is searched after the directories given to Load.
const DefaultDir = "/usr/local/share/muse/palettes"

// Load resolves a palette by built-in name, then as a file path, then
// relative to each of dirs and DefaultDir.
func Load(name string, dirs ...string) (*Palette, error) {
	if p, ok := Builtin(name); ok {
		return p, nil
	}

	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range slices.Concat(dirs, []string{DefaultDir}) {
			if dir != "" {
				candidates = append(candidates, filepath.Join(dir, name))
			}
		}
	}

	for _, path := range candidates {
		p, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return p, err
	}

	return nil, fmt.Errorf("could not find palette %q in %s: %w", name, strings.Join(candidates, ", "), fs.ErrNotExist)
}

// SearchDirs is the list of folders palette names are resolved against.
type SearchDirs []string

func (d SearchDirs) Load(name string) (*Palette, error) {
	return Load(name, d...)
}

// LoadFile reads a palette file, picking the format from its extension:
// .pal is RIFF, .yaml/.yml is YAML and anything else is the hex text format.
func LoadFile(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err != nil {
		return nil, fmt.Errorf("cannot stat palette file %q: %w", path, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("palette path %q is a directory", path)
	}

	p, err := Read(f, path)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", path, err)
	}
	return p, nil
}

// Read decodes a palette in the format implied by path's extension.
func Read(r io.Reader, path string) (*Palette, error) {
	name := NameFromPath(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pal":
		return ReadRIFF(r, name)
	case ".yaml", ".yml":
		return ReadYAML(r, name)
	default:
		return ReadText(r, name)
	}
}

// Write encodes p in the format implied by path's extension.
func Write(w io.Writer, p *Palette, path string) (int64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pal":
		return WriteRIFF(w, p)
	case ".yaml", ".yml":
		return WriteYAML(w, p)
	default:
		return WriteText(w, p)
	}
}
