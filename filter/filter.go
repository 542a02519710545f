package filter

import (
	"image"
	"math"
	"math/rand/v2"

	"muse/dither"

	"github.com/disintegration/gift"
)

// Options selects the cosmetic adjustments applied before dithering.
// Zero values leave the image untouched.
type Options struct {
	Blur       int     `help:"Box blur radius in pixels" default:"0" group:"filter"`
	Brightness float32 `help:"Brightness adjustment, -100 to 100" default:"0" group:"filter"`
	Contrast   float32 `help:"Contrast adjustment, -100 to 100" default:"0" group:"filter"`
	Saturation float32 `help:"Saturation adjustment, -100 to 500" default:"0" group:"filter"`
	Grain      float32 `help:"Film grain amplitude, 0 to 255" default:"0" group:"filter"`
	Seed       uint64  `help:"Grain seed" default:"1" group:"filter"`
	Vignette   float32 `help:"Vignette strength, 0 to 1" default:"0" group:"filter"`
}

func (o Options) filters() []gift.Filter {
	var res []gift.Filter
	if o.Blur > 0 {
		res = append(res, gift.Mean(2*o.Blur+1, false))
	}
	if o.Brightness != 0 {
		res = append(res, gift.Brightness(o.Brightness))
	}
	if o.Contrast != 0 {
		res = append(res, gift.Contrast(o.Contrast))
	}
	if o.Saturation != 0 {
		res = append(res, gift.Saturation(o.Saturation))
	}
	return res
}

// Empty reports whether o changes nothing.
func (o Options) Empty() bool {
	return len(o.filters()) == 0 && o.Grain == 0 && o.Vignette == 0
}

// Image runs the blur and color adjustments on img. The image is returned
// as is when none are selected.
func (o Options) Image(img image.Image) image.Image {
	filters := o.filters()
	if len(filters) == 0 {
		return img
	}

	g := gift.New(filters...)
	dest := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dest, img)
	return dest
}

// Pixels adds grain and vignette to the working buffer and clamps it.
func (o Options) Pixels(p *dither.Pixels) {
	if o.Grain > 0 {
		Grain(p, o.Grain, o.Seed)
	}
	if o.Vignette > 0 {
		Vignette(p, o.Vignette)
	}
	p.Clamp()
}

// Grain adds uniform noise in [-amount, amount] to every pixel, the same
// offset on all three channels. The same seed always gives the same noise.
func Grain(p *dither.Pixels, amount float32, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := 0; i < len(p.Pix); i += 3 {
		n := (rng.Float32()*2 - 1) * amount
		p.Pix[i] += n
		p.Pix[i+1] += n
		p.Pix[i+2] += n
	}
}

// Vignette darkens pixels towards the corners. At strength 1 the corners
// go black; the center is never changed.
func Vignette(p *dither.Pixels, strength float32) {
	cx := float64(p.Width-1) / 2
	cy := float64(p.Height-1) / 2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return
	}

	for y := range p.Height {
		for x := range p.Width {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			f := 1 - strength*float32(d*d)
			i := p.Offset(x, y)
			p.Pix[i] *= f
			p.Pix[i+1] *= f
			p.Pix[i+2] *= f
		}
	}
}
