package mangle

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type encodeFunc func(w io.Writer, img image.Image) error

// encoders holds every output format, keyed by the name image.Decode
// reports for it.
var encoders = map[string]encodeFunc{
	"png": pngEncoder.Encode,
	"gif": func(w io.Writer, img image.Image) error {
		// paletted input keeps its own color table
		return gif.Encode(w, img, nil)
	},
	"jpeg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	},
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

type pngBuffers struct{ sync.Pool }

// Get returns nil on an empty pool, which makes the encoder allocate.
func (p *pngBuffers) Get() *png.EncoderBuffer {
	buf, _ := p.Pool.Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBuffers) Put(buf *png.EncoderBuffer) { p.Pool.Put(buf) }

var pngEncoder = &png.Encoder{
	CompressionLevel: png.BestCompression,
	BufferPool:       &pngBuffers{},
}

// outputFormat resolves "same" to the decoded format, falling back to png
// for formats without an encoder.
func outputFormat(format, imgType string) string {
	if format != "same" {
		return format
	}
	if _, ok := encoders[imgType]; ok {
		return imgType
	}
	return "png"
}

// formatFromName maps a file extension to an output format, or "" when
// it is not one we can encode.
func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return ""
}

func outputName(srcName, format string) string {
	ext := filepath.Ext(srcName)
	return fmt.Sprintf("%s.%s", srcName[:len(srcName)-len(ext)], format)
}

// save encodes img into a temporary file in destDir and renames it over
// destName once everything reached the disk. The temporary file is removed
// on any failure.
func save(img image.Image, outType, destDir, destName string) (err error) {
	encode, ok := encoders[outType]
	if !ok {
		return fmt.Errorf("unsupported output format: %s", outType)
	}

	tmp, err := os.CreateTemp(destDir, "."+destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := encode(tmp, img); err != nil {
		return fmt.Errorf("could not encode %s destination %q: %w", strings.ToUpper(outType), destName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination %q: %w", destName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary destination %q: %w", destName, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(destDir, destName)); err != nil {
		return fmt.Errorf("could not rename destination file %q: %w", destName, err)
	}
	return nil
}
