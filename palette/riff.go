package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 3

// ReadRIFF reads a Microsoft RIFF palette. Colors of every data chunk are
// concatenated in file order.
func ReadRIFF(r io.Reader, name string) (*Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	colors, err := readChunks(rd, string(formType[:]))
	if err != nil {
		return nil, err
	}
	return New(name, colors)
}

func readChunks(r *riff.Reader, ident string) ([]Color, error) {
	var res []Color

	for chunk := 0; ; chunk++ {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("could not read chunk %q#%d: %w", ident, chunk, err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return nil, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, chunk, lerr)
			} else if listType != palType {
				return nil, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, chunk, string(listType[:]))
			}

			colors, lerr := readChunks(list, fmt.Sprintf("%s%d.%s", ident, chunk, listType[:]))
			if lerr != nil {
				return nil, lerr
			}
			res = append(res, colors...)
		case dataType:
			colors, derr := readData(data, fmt.Sprintf("%s%d", ident, chunk))
			if derr != nil {
				return nil, derr
			}
			res = append(res, colors...)
		default:
			return nil, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, chunk, id)
		}

		if len(res) > MaxColors {
			return nil, fmt.Errorf("chunk %q#%d: %w", ident, chunk, ErrTooLarge)
		}
	}

	return res, nil
}

func readData(r io.Reader, ident string) ([]Color, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.BigEndian.Uint16(hdr[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %d", ident, ver)
	}

	count := int(binary.LittleEndian.Uint16(hdr[2:]))
	if count > MaxColors {
		return nil, fmt.Errorf("chunk %s declares %d colors: %w", ident, count, ErrTooLarge)
	}

	res := make([]Color, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return nil, fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = Color{R: entry[0], G: entry[1], B: entry[2]}
	}

	return res, nil
}

// WriteRIFF writes p as a single data chunk RIFF palette and returns the
// number of colors written.
func WriteRIFF(w io.Writer, p *Palette) (int64, error) {
	n := p.Len()
	chunkSize := 4 + n*4             // palVersion + palNumEntries + 4 bytes/color
	docSize := 4 + 4 + 4 + chunkSize // form type + chunk id + chunk size + chunk

	buf := make([]byte, 0, 8+docSize)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(docSize))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = append(buf, 0, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n))
	for _, c := range p.All() {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	if err := writeBytes(w, buf); err != nil {
		return 0, fmt.Errorf("could not save palette %q: %w", p.Name, err)
	}
	return int64(n), nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}
