package mangle

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"muse/dither"
	"muse/filter"
	"muse/logging"
	"muse/palette"
	"muse/parallel"
	"muse/quantize"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Inputs    []string       `arg:"" name:"input" help:"Image files or folders to convert. Folders are not scanned recursively."`
	Output    string         `short:"o" help:"Output file. Only valid with a single input file." type:"path"`
	Dest      string         `help:"Destination folder for converted pictures. Relative to the input folder if not absolute." default:"dithered"`
	Palette   string         `short:"p" help:"Built-in palette name or palette file (.txt, .hex, .pal, .yaml)" default:"${palette}" group:"palette"`
	Dither    string         `short:"d" help:"Dither method: ${dither_enum}" default:"${dither}" group:"palette"`
	Resize    bool           `help:"Resize image" default:"false" group:"resize"`
	Width     int            `help:"Max width" group:"resize"`
	Height    int            `help:"Max height" group:"resize"`
	Crop      bool           `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill      string         `help:"If given and not cropping, will fill background with this color to maintain destination aspect ratio" group:"resize"`
	Filter    filter.Options `embed:""`
	Format    string         `help:"Output format. 'same' keeps the input format where it can be encoded." enum:"same,png,gif,bmp,tiff,jpeg" default:"${format}"`
	Method    dither.Method  `kong:"-"`
	FillColor color.Color    `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	for i, input := range c.Inputs {
		abs, err := filepath.Abs(input)
		if err == nil {
			_, err = os.Stat(abs)
		}
		if err != nil {
			return fmt.Errorf("invalid input %q: %w", input, err)
		}
		c.Inputs[i] = abs
	}

	if c.Output != "" {
		if len(c.Inputs) != 1 {
			return fmt.Errorf("--output needs exactly one input, got %d", len(c.Inputs))
		}
		if info, err := os.Stat(c.Inputs[0]); err == nil && info.IsDir() {
			return fmt.Errorf("--output cannot be used with input folder %q", c.Inputs[0])
		}
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	var err error
	if (!c.Crop) && (c.Fill != "") {
		if c.FillColor, err = parseHexToColor(c.Fill); err != nil {
			return err
		}
	}

	if c.Method, err = dither.ParseMethod(c.Dither); err != nil {
		return err
	}

	f := c.Filter
	switch {
	case f.Blur < 0:
		return fmt.Errorf("invalid blur radius: %d", f.Blur)
	case f.Grain < 0 || f.Grain > 255:
		return fmt.Errorf("invalid grain amplitude: %v", f.Grain)
	case f.Vignette < 0 || f.Vignette > 1:
		return fmt.Errorf("invalid vignette strength: %v", f.Vignette)
	}

	return nil
}

// job is one source file and where its result goes. A non-empty destName
// overrides the name derived from src.
type job struct {
	src      string
	destDir  string
	destName string
}

func (c *CLICmd) jobs() ([]job, error) {
	var res []job
	for _, input := range c.Inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", input, err)
		}

		if !info.IsDir() {
			j := job{src: input, destDir: c.destDir(filepath.Dir(input))}
			if c.Output != "" {
				j.destDir, j.destName = filepath.Split(c.Output)
				j.destDir = filepath.Clean(j.destDir)
			}
			res = append(res, j)
			continue
		}

		files, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("unable to read folder %q: %w", input, err)
		}
		destDir := c.destDir(input)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			res = append(res, job{src: filepath.Join(input, file.Name()), destDir: destDir})
		}
	}
	return res, nil
}

func (c *CLICmd) destDir(base string) string {
	if filepath.IsAbs(c.Dest) {
		return c.Dest
	}
	return filepath.Join(base, c.Dest)
}

func (c *CLICmd) Run(ctx context.Context, pool *parallel.Pool, dirs palette.SearchDirs) error {
	logger := logging.WithComponent(logging.ComponentConvert)

	pal, err := dirs.Load(c.Palette)
	if err != nil {
		return err
	}
	cache, err := quantize.NewCache(pal)
	if err != nil {
		return fmt.Errorf("could not build color cache for palette %q: %w", pal.Name, err)
	}
	logger.Info("palette ready", "palette", pal.Name, "colors", pal.Len(), "dither", c.Method.Name())

	jobs, err := c.jobs()
	if err != nil {
		return err
	}

	var processedCount, errCount atomic.Uint64
	skipped := parallel.Each(ctx, pool, jobs, func(j job) {
		fileLog := logger.With("file", j.src)
		if err := c.convert(fileLog, j, pal, cache); err != nil {
			errCount.Add(1)
			fileLog.Error("could not convert image", "error", err)
			return
		}
		processedCount.Add(1)
	})

	processed := processedCount.Load()
	errors := errCount.Load()
	logger.Info("stats", "processed", processed, "errors", errors, "skipped", skipped,
		"total", len(jobs))

	if skipped > 0 {
		return fmt.Errorf("interrupted, %d files not processed: %w", skipped, ctx.Err())
	}
	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, j job, pal *palette.Palette, cache *quantize.Cache) error {
	imgFile, err := os.Open(j.src)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, imgType, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Warn("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	if c.Resize {
		img, err = resize(logger, img, c.Width, c.Height, c.Crop, c.FillColor)
		if err != nil {
			return fmt.Errorf("could not resize image: %w", err)
		}
	}

	out, err := repalette(logger.With("palette", pal.Name), img, pal, cache, c.Method, c.Filter)
	if err != nil {
		return err
	}

	outType := outputFormat(c.Format, imgType)
	destName := j.destName
	if destName == "" {
		destName = outputName(filepath.Base(j.src), outType)
	} else if t := formatFromName(destName); t != "" {
		outType = t
	}

	if err := os.MkdirAll(j.destDir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", j.destDir, err)
	}
	if err := save(out, outType, j.destDir, destName); err != nil {
		return err
	}
	logger.Debug("saved", "to", filepath.Join(j.destDir, destName))
	return nil
}

func parseHexToColor(s string) (color.Color, error) {
	var c color.RGBA
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}

		c.A = 0xFF
	case 9:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return nil, fmt.Errorf("insufficient fill color fields: %d", n)
		}
	default:
		return nil, fmt.Errorf("invalid fill color, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA")
	}

	// the parsed components are not premultiplied
	return color.NRGBA(c), nil
}
