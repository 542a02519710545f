package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"muse/dither"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "MUSE_"

// File holds the defaults read from the YAML config file. Command line
// flags and MUSE_* environment variables override them.
type File struct {
	Palette     string   `yaml:"palette"`
	Dither      string   `yaml:"dither"`
	Format      string   `yaml:"format"`
	Workers     int      `yaml:"workers"`
	LogLevel    string   `yaml:"log_level"`
	PaletteDirs []string `yaml:"palette_dirs"`
}

func Defaults() File {
	return File{
		Palette:  "bw",
		Dither:   dither.DefaultMethod,
		Format:   "png",
		LogLevel: "info",
	}
}

// DefaultPath is the config file used when none is given on the command
// line: MUSE_CONFIG, then the user config directory.
func DefaultPath() string {
	if p := Get(EnvPrefix+"CONFIG", ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "muse", "config.yaml")
}

// PathFromArgs finds a --config flag before kong parses the command line,
// since the file provides kong's defaults.
func PathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// Load reads the config file at path over Defaults. A missing file is not
// an error.
func Load(path string) (File, error) {
	conf := Defaults()
	if path == "" {
		return conf, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return conf, nil
	} else if err != nil {
		return conf, fmt.Errorf("could not read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return Defaults(), fmt.Errorf("invalid config %q: %w", path, err)
	}
	if conf.Workers < 0 {
		return Defaults(), fmt.Errorf("invalid config %q: negative worker count %d", path, conf.Workers)
	}
	return conf, nil
}

// Vars exposes the file values as kong interpolation variables.
func (f File) Vars() kong.Vars {
	return kong.Vars{
		"palette":     f.Palette,
		"dither":      f.Dither,
		"format":      f.Format,
		"workers":     strconv.Itoa(f.Workers),
		"log_level":   f.LogLevel,
		"dither_enum": strings.Join(dither.MethodNames(), ","),
	}
}
