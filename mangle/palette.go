package mangle

import (
	"fmt"
	"image"
	"log/slog"

	"muse/dither"
	"muse/filter"
	"muse/palette"
	"muse/quantize"
)

// repalette runs the filters and the dither method over img and returns
// a paletted image using pal. cache must have been built from pal.
func repalette(logger *slog.Logger, img image.Image, pal *palette.Palette, cache *quantize.Cache, method dither.Method, opts filter.Options) (*image.Paletted, error) {
	if !opts.Empty() {
		logger.Debug("applying filters", "options", opts)
	}
	img = opts.Image(img)

	pix, err := dither.PixelsFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("could not read pixels: %w", err)
	}
	opts.Pixels(pix)

	logger.Info("applying palette", "colors", pal.Len(), "dither", method.Name(),
		"width", pix.Width, "height", pix.Height)
	out, err := dither.Apply(method, pix, cache)
	if err != nil {
		return nil, fmt.Errorf("could not dither image: %w", err)
	}
	return out.Paletted(pal), nil
}
