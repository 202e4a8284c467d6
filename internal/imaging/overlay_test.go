package imaging

import (
	"image/color"
	"testing"
)

func TestOverlay_SolidTint(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{0, 0, 0, 255})
	mask := topRowsMask(4, 4, 2)

	out, err := Overlay(img, mask, OverlayOptions{Color: "#00FF00", Opacity: 1})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := out.NRGBAAt(x, y)
			want := color.NRGBA{0, 0, 0, 255}
			if y < 2 {
				want = color.NRGBA{0, 255, 0, 255}
			}
			if c != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, c, want)
			}
		}
	}
}

func TestOverlay_HalfOpacity(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{0, 0, 0, 255})
	mask := []bool{true, true, true, true}

	out, err := Overlay(img, mask, OverlayOptions{Color: "#FF0000", Opacity: 0.5})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	c := out.NRGBAAt(1, 1)
	if c.R != 128 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("blended pixel: got %v, want {128 0 0 255}", c)
	}
}

func TestOverlay_ZeroOpacityLeavesImage(t *testing.T) {
	img := createPatternImage(6, 6)
	mask := topRowsMask(6, 6, 3)

	out, err := Overlay(img, mask, OverlayOptions{Color: "#0000FF", Opacity: 0})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2, _ := out.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Errorf("pixel (%d,%d) changed with zero opacity", x, y)
			}
		}
	}
}

func TestOverlay_Outline(t *testing.T) {
	img := createInMemoryImage(5, 5, color.RGBA{0, 0, 0, 255})
	mask := make([]bool, 25)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			mask[y*5+x] = true
		}
	}

	out, err := Overlay(img, mask, OverlayOptions{Color: "#FF0000", Opacity: 0.5, Outline: true})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	if c := out.NRGBAAt(1, 1); c.R != 255 {
		t.Errorf("boundary pixel: got %v, want full tint", c)
	}
	if c := out.NRGBAAt(2, 2); c.R != 128 {
		t.Errorf("interior pixel: got %v, want half tint", c)
	}
	if c := out.NRGBAAt(0, 0); c.R != 0 {
		t.Errorf("background pixel: got %v, want untouched", c)
	}
}

func TestOverlay_InvalidOptions(t *testing.T) {
	img := createInMemoryImage(2, 2, color.White)
	mask := make([]bool, 4)

	tests := []struct {
		name string
		opts OverlayOptions
		mask []bool
	}{
		{"bad color", OverlayOptions{Color: "red", Opacity: 0.5}, mask},
		{"negative opacity", OverlayOptions{Color: "#FF0000", Opacity: -0.1}, mask},
		{"opacity above one", OverlayOptions{Color: "#FF0000", Opacity: 1.1}, mask},
		{"mask size", OverlayOptions{Color: "#FF0000", Opacity: 0.5}, make([]bool, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Overlay(img, tt.mask, tt.opts); err == nil {
				t.Error("Overlay should fail")
			}
		})
	}
}

func TestDefaultOverlayOptions(t *testing.T) {
	opts := DefaultOverlayOptions()
	if opts.Color != "#FF0000" || opts.Opacity != 0.5 || !opts.Outline {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}
