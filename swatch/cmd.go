package swatch

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"muse/dither"
	"muse/logging"
	"muse/palette"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Show    ShowCmd    `cmd:"" help:"Preview a palette in the terminal"`
	List    ListCmd    `cmd:"" help:"List built-in palettes and dither methods"`
	Extract ExtractCmd `cmd:"" help:"Derive a palette from the colors of an image"`
	Export  ExportCmd  `cmd:"" help:"Write a palette to a file"`
}

type ShowCmd struct {
	Palette string `arg:"" help:"Built-in palette name or palette file" default:"${palette}"`
}

func (c *ShowCmd) Run(dirs palette.SearchDirs) error {
	pal, err := dirs.Load(c.Palette)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("could not open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("could not initialize terminal: %w", err)
	}
	defer screen.Fini()

	show(screen, pal)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(kctx *kong.Context) error {
	return list(kctx.Stdout)
}

func list(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PALETTE\tCOLORS")
	for _, name := range palette.BuiltinNames() {
		p, _ := palette.Builtin(name)
		fmt.Fprintf(tw, "%s\t%d\n", name, p.Len())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "DITHER METHODS")
	for _, name := range dither.MethodNames() {
		fmt.Fprintln(tw, name)
	}
	return tw.Flush()
}

type ExtractCmd struct {
	Image  string `arg:"" help:"Source image" type:"existingfile"`
	Colors int    `short:"n" help:"Maximum number of colors" default:"16"`
	Method string `short:"m" help:"Extraction method" enum:"histogram,median" default:"histogram"`
	Name   string `help:"Palette name, defaults to the image name"`
	Output string `short:"o" help:"Palette file to write; format follows the extension. Hex text on stdout if empty." type:"path"`
}

func (c *ExtractCmd) Validate(kctx *kong.Context) error {
	if c.Colors < 1 || c.Colors > palette.MaxColors {
		return fmt.Errorf("invalid number of colors %d, must be 1 to %d", c.Colors, palette.MaxColors)
	}
	return nil
}

func (c *ExtractCmd) Run(kctx *kong.Context) error {
	return c.extract(kctx.Stdout)
}

func (c *ExtractCmd) extract(stdout io.Writer) error {
	f, err := os.Open(c.Image)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	logger := logging.WithComponent(logging.ComponentPalette)
	img, _, err := image.Decode(f)
	if closeErr := f.Close(); closeErr != nil {
		logger.Warn("could not close image", "image", c.Image, "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Image, err)
	}

	name := c.Name
	if name == "" {
		name = palette.NameFromPath(c.Image)
	}
	p, err := palette.Extract(palette.ExtractMethod(c.Method), img, name, c.Colors)
	if err != nil {
		return err
	}

	logger.Info("extracted palette",
		"image", c.Image, "method", c.Method, "colors", p.Len())
	return output(stdout, p, c.Output)
}

type ExportCmd struct {
	Palette string `arg:"" help:"Built-in palette name or palette file"`
	Output  string `short:"o" help:"Palette file to write; format follows the extension. Hex text on stdout if empty." type:"path"`
}

func (c *ExportCmd) Run(kctx *kong.Context, dirs palette.SearchDirs) error {
	p, err := dirs.Load(c.Palette)
	if err != nil {
		return err
	}
	return output(kctx.Stdout, p, c.Output)
}

// output writes p to path, or as hex text to stdout when path is empty.
func output(stdout io.Writer, p *palette.Palette, path string) (err error) {
	if path == "" {
		_, err = palette.WriteText(stdout, p)
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", path, closeErr)
		}
		if err == nil {
			err = os.Rename(f.Name(), path)
		}
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = palette.Write(f, p, path); err != nil {
		return fmt.Errorf("could not write palette file %q: %w", path, err)
	}
	return nil
}
