package oksvgraster

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/srwiley/scanx"

	"github.com/ByLCY/mondrian/raster"
)

// Name is the registry name of this backend.
const Name = "oksvg"

// Decoder rasterizes SVG via github.com/srwiley/oksvg, rasterx and the scanx span scanner.
type Decoder struct {
	// Strict rejects SVG elements oksvg does not understand instead of skipping them.
	Strict bool
}

var _ raster.Decoder = (*Decoder)(nil)

// NewDecoder creates a lenient oksvg decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode stretches the icon's viewBox onto a width×height surface.
func (d *Decoder) Decode(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	if err := raster.CheckArgs(ctx, svg, width, height); err != nil {
		return nil, err
	}

	mode := oksvg.IgnoreErrorMode
	if d.Strict {
		mode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), mode)
	if err != nil {
		return nil, fmt.Errorf("oksvg: 解析 SVG 失败: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("oksvg: SVG 缺少有效的 viewBox")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	// scanx 只扫描路径覆盖的区域。
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	spanner := scanx.NewImgSpanner(img)
	scanner := scanx.NewScanner(spanner, width, height)
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

func init() {
	raster.Register(Name, func() raster.Decoder { return NewDecoder() })
}
