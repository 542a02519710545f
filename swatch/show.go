package swatch

import (
	"fmt"
	"image"

	"muse/palette"
	"muse/quantize"

	"github.com/gdamore/tcell/v2"
)

const (
	minCellWidth = 9
	headerRows   = 1
)

// layout splits a width x height screen below the header row into one
// cell per color, filled row by row. Cells past the bottom edge are still
// returned and get clipped by the screen.
func layout(n, width, height int) []image.Rectangle {
	if n <= 0 || width <= 0 {
		return nil
	}

	cols := min(n, max(1, width/minCellWidth))
	rows := (n + cols - 1) / cols
	cellW := width / cols
	cellH := max(1, (height-headerRows)/rows)

	cells := make([]image.Rectangle, n)
	for i := range cells {
		x := (i % cols) * cellW
		y := headerRows + (i/cols)*cellH
		cells[i] = image.Rect(x, y, x+cellW, y+cellH)
	}
	return cells
}

// labelColor picks black or white text, whichever is further from c.
func labelColor(c palette.Color) tcell.Color {
	if quantize.Distance(c, palette.Color{}) > quantize.Distance(c, palette.Color{R: 255, G: 255, B: 255}) {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}

func rgb(c palette.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func render(screen tcell.Screen, pal *palette.Palette) {
	screen.Clear()
	width, height := screen.Size()

	header := fmt.Sprintf(" %s: %d colors   q or Esc to quit", pal.Name, pal.Len())
	putString(screen, 0, 0, header, tcell.StyleDefault.Bold(true))

	cells := layout(pal.Len(), width, height)
	if cells == nil {
		screen.Show()
		return
	}
	for i, c := range pal.All() {
		cell := cells[i]
		style := tcell.StyleDefault.Background(rgb(c)).Foreground(labelColor(c))
		for y := cell.Min.Y; y < cell.Max.Y; y++ {
			for x := cell.Min.X; x < cell.Max.X; x++ {
				screen.SetContent(x, y, ' ', nil, style)
			}
		}

		label := c.String()
		if cell.Dx() > len(label) {
			x := cell.Min.X + (cell.Dx()-len(label))/2
			y := cell.Min.Y + cell.Dy()/2
			putString(screen, x, y, label, style)
		}
	}
	screen.Show()
}

// show draws the palette and redraws it on resize until the user quits or
// the screen is interrupted.
func show(screen tcell.Screen, pal *palette.Palette) {
	render(screen, pal)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			return
		case *tcell.EventResize:
			screen.Sync()
			render(screen, pal)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return
			}
		}
	}
}
