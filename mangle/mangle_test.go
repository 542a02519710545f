package mangle

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"muse/dither"
	"muse/filter"
	"muse/palette"
	"muse/parallel"
	"muse/quantize"
)

func TestParseHexToColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#fff", want: color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{in: "#1234", want: color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{in: "#0a0b0c", want: color.NRGBA{0x0a, 0x0b, 0x0c, 0xff}},
		{in: "#0a0b0c80", want: color.NRGBA{0x0a, 0x0b, 0x0c, 0x80}},
		{in: "fff", wantErr: true},
		{in: "#ggg", wantErr: true},
		{in: "#12345", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseHexToColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOutputNaming(t *testing.T) {
	if got := outputName("holiday.photo.jpg", "png"); got != "holiday.photo.png" {
		t.Errorf("outputName = %q", got)
	}
	if got := outputName("noext", "gif"); got != "noext.gif" {
		t.Errorf("outputName = %q", got)
	}

	formats := []struct{ format, imgType, want string }{
		{"png", "jpeg", "png"},
		{"same", "gif", "gif"},
		{"same", "webp", "png"},
	}
	for _, tc := range formats {
		if got := outputFormat(tc.format, tc.imgType); got != tc.want {
			t.Errorf("outputFormat(%q, %q) = %q, want %q", tc.format, tc.imgType, got, tc.want)
		}
	}

	for name, want := range map[string]string{"a.JPG": "jpeg", "b.tif": "tiff", "c.webp": "", "d": ""} {
		if got := formatFromName(name); got != want {
			t.Errorf("formatFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFit(t *testing.T) {
	src := image.Rect(0, 0, 200, 100)
	tests := []struct {
		name          string
		width, height int
		crop, fill    bool
		want          geometry
	}{
		{
			name: "crop", width: 100, height: 100, crop: true,
			want: geometry{
				srcBounds:  image.Rect(50, 0, 150, 100),
				destSize:   image.Rect(0, 0, 100, 100),
				destBounds: image.Rect(0, 0, 100, 100),
			},
		},
		{
			name: "shrink canvas", width: 100, height: 100,
			want: geometry{
				srcBounds:  src,
				destSize:   image.Rect(0, 0, 100, 50),
				destBounds: image.Rect(0, 0, 100, 50),
			},
		},
		{
			name: "fill", width: 100, height: 100, fill: true,
			want: geometry{
				srcBounds:  src,
				destSize:   image.Rect(0, 0, 100, 100),
				destBounds: image.Rect(0, 25, 100, 75),
				fill:       true,
			},
		},
		{
			name: "width only", width: 50,
			want: geometry{
				srcBounds:  src,
				destSize:   image.Rect(0, 0, 50, 25),
				destBounds: image.Rect(0, 0, 50, 25),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fit(src, tc.width, tc.height, tc.crop, tc.fill); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))

	for _, format := range []string{"png", "gif", "jpeg", "bmp", "tiff"} {
		name := outputName("pic.webp", format)
		if err := save(img, format, dir, name); err != nil {
			t.Fatalf("save %s: %v", format, err)
		}
	}
	if err := save(img, "webp", dir, "pic.webp"); err == nil {
		t.Error("expected error for unsupported format")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("destination holds %v, want the 5 encoded files only", names)
	}
}

func TestRepalette(t *testing.T) {
	pal, _ := palette.Builtin("bw")
	cache, err := quantize.NewCache(pal)
	if err != nil {
		t.Fatal(err)
	}

	src := image.NewGray(image.Rect(10, 10, 14, 12))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	out, err := repalette(slog.Default(), src, pal, cache, dither.FloydSteinberg, filter.Options{Brightness: 10})
	if err != nil {
		t.Fatalf("repalette: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("bounds = %v", out.Bounds())
	}
	if len(out.Palette) != 2 {
		t.Errorf("palette has %d colors", len(out.Palette))
	}
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := range 6 {
		for x := range 8 {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestConvertFolder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.NRGBA{120, 130, 140, 255})
	writePNG(t, filepath.Join(dir, "b.png"), color.NRGBA{250, 10, 10, 255})
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{
		Inputs:  []string{dir},
		Dest:    "out",
		Palette: "gray4",
		Dither:  "sierra",
		Format:  "gif",
		Resize:  true,
		Width:   4,
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	pool := parallel.Start(2)
	defer pool.Wait()
	if err := cmd.Run(context.Background(), pool, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{"a.gif", "b.gif"} {
		f, err := os.Open(filepath.Join(dir, "out", name))
		if err != nil {
			t.Fatalf("missing output: %v", err)
		}
		cfg, format, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if format != "gif" || cfg.Width != 4 || cfg.Height != 3 {
			t.Errorf("%s: %s %dx%d", name, format, cfg.Width, cfg.Height)
		}
	}
}

func TestConvertSingleFileOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, color.NRGBA{10, 10, 10, 255})

	cmd := &CLICmd{
		Inputs:  []string{src},
		Output:  filepath.Join(dir, "result", "dark.bmp"),
		Palette: "bw",
		Dither:  "none",
		Format:  "png",
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	pool := parallel.Start(1)
	defer pool.Wait()
	if err := cmd.Run(context.Background(), pool, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(cmd.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if format != "bmp" {
		t.Errorf("format = %s, want bmp from the output extension", format)
	}
	if r, g, b, _ := img.At(3, 3).RGBA(); r|g|b != 0 {
		t.Errorf("pixel is not black: %d %d %d", r, g, b)
	}
}

func TestConvertCountsFailures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "ok.png"), color.White)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{Inputs: []string{dir}, Dest: "out", Palette: "bw", Dither: "floyd", Format: "png"}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}

	pool := parallel.Start(2)
	defer pool.Wait()
	if err := cmd.Run(context.Background(), pool, nil); err == nil {
		t.Fatal("expected an error for the undecodable file")
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "ok.png")); err != nil {
		t.Errorf("valid file not converted: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, color.Black)

	tests := []struct {
		name string
		cmd  CLICmd
	}{
		{"missing input", CLICmd{Inputs: []string{filepath.Join(dir, "nope.png")}}},
		{"output with folder", CLICmd{Inputs: []string{dir}, Output: "x.png"}},
		{"output with many", CLICmd{Inputs: []string{src, src}, Output: "x.png"}},
		{"resize without size", CLICmd{Inputs: []string{src}, Resize: true}},
		{"bad fill", CLICmd{Inputs: []string{src}, Fill: "red"}},
		{"bad method", CLICmd{Inputs: []string{src}, Dither: "spiral"}},
		{"bad vignette", CLICmd{Inputs: []string{src}, Filter: filter.Options{Vignette: 2}}},
		{"negative blur", CLICmd{Inputs: []string{src}, Filter: filter.Options{Blur: -1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cmd.Validate(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
