package oksvgraster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ByLCY/mondrian/art"
	"github.com/ByLCY/mondrian/markup"
	"github.com/ByLCY/mondrian/raster"
)

const circleSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
<circle cx="50" cy="50" r="40" fill="#dd0100"/>
</svg>`

func TestDecodeCircleAtResolution(t *testing.T) {
	img, err := NewDecoder().Decode(context.Background(), []byte(circleSVG), 50, 50)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("expected 50x50, got %v", b)
	}
	r, g, b, a := img.At(25, 25).RGBA()
	if r>>8 != 0xdd || g>>8 > 2 || b>>8 != 0 || a>>8 != 0xff {
		t.Fatalf("center should be the circle fill, got %v", img.At(25, 25))
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Fatalf("corner should stay transparent")
	}
}

func TestDecodeStretchesToTarget(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100">
<rect x="0" y="0" width="100" height="100" fill="#225095"/>
</svg>`
	img, err := NewDecoder().Decode(context.Background(), []byte(src), 40, 40)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, _, _, a := img.At(10, 37).RGBA(); a>>8 != 0xff {
		t.Fatalf("left half should be stretched to full height")
	}
	if _, _, _, a := img.At(30, 20).RGBA(); a != 0 {
		t.Fatalf("right half should be transparent")
	}
}

func TestDecodeRequiresViewBox(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`
	if _, err := NewDecoder().Decode(context.Background(), []byte(src), 10, 10); err == nil {
		t.Fatalf("expected error for missing viewBox")
	}
}

func TestDecodeArgErrors(t *testing.T) {
	if _, err := NewDecoder().Decode(context.Background(), []byte(circleSVG), -1, 10); !errors.Is(err, raster.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

// TestDecodeLargeCompositionInTime 默认构图（数百个格子）在最大预设分辨率下也应远快于默认超时。
func TestDecodeLargeCompositionInTime(t *testing.T) {
	if testing.Short() {
		t.Skip("rasterizes a 2048px composition")
	}
	settings := art.DefaultSettings()
	settings.Seed = 7
	comp, err := art.NewGenerator(7).Generate(settings)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	svgText, err := markup.Write(comp)
	if err != nil {
		t.Fatalf("markup: %v", err)
	}

	size := art.Resolutions[len(art.Resolutions)-1]
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	img, err := NewDecoder().Decode(ctx, []byte(svgText), size, size)
	if err != nil {
		t.Fatalf("decode %d cells at %dpx: %v", len(comp.Cells), size, err)
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		t.Fatalf("expected %dx%d, got %v", size, size, b)
	}

	// 取第一个足够大的格子，检查其中心颜色。
	scale := float64(size) / float64(comp.Width)
	for _, cell := range comp.Cells {
		if cell.Width < 20 || cell.Height < 20 {
			continue
		}
		x := int((float64(cell.X) + float64(cell.Width)/2) * scale)
		y := int((float64(cell.Y) + float64(cell.Height)/2) * scale)
		r, g, b, a := img.At(x, y).RGBA()
		if uint8(r>>8) != cell.Fill.R || uint8(g>>8) != cell.Fill.G || uint8(b>>8) != cell.Fill.B || a>>8 != 0xff {
			t.Fatalf("cell %+v center (%d,%d) = %v", cell, x, y, img.At(x, y))
		}
		return
	}
	t.Fatalf("no cell large enough to sample")
}
