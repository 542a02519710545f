package mangle

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// geometry describes one resize: srcBounds of the source are scaled into
// destBounds of a canvas of size destSize.
type geometry struct {
	srcBounds  image.Rectangle
	destSize   image.Rectangle
	destBounds image.Rectangle
	fill       bool
}

// fit computes the resize geometry. A zero width or height keeps the source
// value. Without crop the picture keeps its aspect ratio; the canvas then
// shrinks to it, or is padded when fill is set.
func fit(src image.Rectangle, width, height int, crop, fill bool) geometry {
	srcWidth := float64(src.Dx())
	srcHeight := float64(src.Dy())

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}
	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	g := geometry{
		srcBounds:  src,
		destSize:   image.Rect(0, 0, int(destWidth), int(destHeight)),
		destBounds: image.Rect(0, 0, int(destWidth), int(destHeight)),
	}

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	switch {
	case crop && srcAR < destAR:
		dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
		g.srcBounds.Min.Y += dh
		g.srcBounds.Max.Y -= dh
	case crop && srcAR > destAR:
		dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
		g.srcBounds.Min.X += dw
		g.srcBounds.Max.X -= dw
	case !crop && srcAR < destAR:
		dw := destHeight * srcAR
		if !fill {
			g.destSize.Max.X = max(1, int(math.Round(dw)))
			g.destBounds.Max.X = g.destSize.Max.X
		} else if g.fill = destWidth > dw; g.fill {
			idw := int(math.Round((destWidth - dw) / 2))
			g.destBounds.Min.X += idw
			g.destBounds.Max.X -= idw
		}
	case !crop && srcAR > destAR:
		dh := destWidth / srcAR
		if !fill {
			g.destSize.Max.Y = max(1, int(math.Round(dh)))
			g.destBounds.Max.Y = g.destSize.Max.Y
		} else if g.fill = destHeight > dh; g.fill {
			idh := int(math.Round((destHeight - dh) / 2))
			g.destBounds.Min.Y += idh
			g.destBounds.Max.Y -= idh
		}
	}
	return g
}

func resize(logger *slog.Logger, img image.Image, width, height int, crop bool, fillColor color.Color) (image.Image, error) {
	src := img.Bounds()
	if src.Empty() {
		return nil, fmt.Errorf("empty source image")
	}

	g := fit(src, width, height, crop, fillColor != nil)
	if g.destSize.Dx() == src.Dx() && g.destSize.Dy() == src.Dy() && g.srcBounds == src && !g.fill {
		return img, nil
	}

	logger.Info("resizing", "width", g.destBounds.Dx(), "height", g.destBounds.Dy())
	dest := image.NewNRGBA(g.destSize)
	if g.fill {
		draw.Draw(dest, g.destSize, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(dest, g.destBounds, img, g.srcBounds, draw.Over, nil)

	return dest, nil
}
