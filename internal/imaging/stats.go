package imaging

import (
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// SideStats summarises the pixels on one side of the cut.
type SideStats struct {
	Pixels  int      `json:"pixels"`
	Percent float64  `json:"percent"`
	MeanHex string   `json:"mean_hex,omitempty"`
	MeanHSL HSLColor `json:"mean_hsl"`

	// MeanIntensity is the average luminance, 0-255.
	MeanIntensity float64 `json:"mean_intensity"`
}

// MaskStats describes a segmentation measured against its source image.
type MaskStats struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Foreground SideStats `json:"foreground"`
	Background SideStats `json:"background"`

	// Bounds is the smallest region containing every foreground pixel, nil
	// when the foreground is empty.
	Bounds *Region `json:"bounds,omitempty"`
}

type accumulator struct {
	n          int
	r, g, b, y float64
}

func (a *accumulator) add(r, g, b uint8) {
	a.n++
	a.r += float64(r)
	a.g += float64(g)
	a.b += float64(b)
	// Rec. 601 luma, the weighting image/color uses for Gray.
	a.y += 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

func (a *accumulator) stats(total int) SideStats {
	s := SideStats{Pixels: a.n}
	if total > 0 {
		s.Percent = math.Round(float64(a.n)/float64(total)*10000) / 100
	}
	if a.n == 0 {
		return s
	}
	n := float64(a.n)
	mean := colorful.Color{R: a.r / n / 255, G: a.g / n / 255, B: a.b / n / 255}.Clamped()
	h, sat, l := mean.Hsl()
	s.MeanHex = strings.ToUpper(mean.Hex())
	s.MeanHSL = HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(sat * 100)),
		L: int(math.Round(l * 100)),
	}
	s.MeanIntensity = math.Round(a.y/n*100) / 100
	return s
}

// ComputeMaskStats measures mask against img. mask must match the image
// dimensions in row-major order.
func ComputeMaskStats(img image.Image, mask []bool) (*MaskStats, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if err := checkMask(mask, width, height); err != nil {
		return nil, err
	}

	var fg, bg accumulator
	minX, minY, maxX, maxY := width, height, -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if !mask[y*width+x] {
				bg.add(r8, g8, b8)
				continue
			}
			fg.add(r8, g8, b8)
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}

	total := width * height
	stats := &MaskStats{
		Width:      width,
		Height:     height,
		Foreground: fg.stats(total),
		Background: bg.stats(total),
	}
	if fg.n > 0 {
		stats.Bounds = &Region{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1}
	}
	return stats, nil
}
