package canvasraster

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/mondrian/raster"
)

// Name is the registry name of this backend.
const Name = "canvas"

// Decoder rasterizes SVG via github.com/tdewolff/canvas.
type Decoder struct {
	// ColorSpace used for blending; zero value means canvas.DefaultColorSpace.
	ColorSpace canvas.ColorSpace
}

var _ raster.Decoder = (*Decoder)(nil)

// NewDecoder creates a canvas-based decoder with the default color space.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode parses svg and draws it onto a fresh width×height RGBA surface.
// The surface is treated as width×height millimetres at 1 dot per millimetre,
// so a scaling view maps the parsed canvas onto it exactly.
func (d *Decoder) Decode(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	if err := raster.CheckArgs(ctx, svg, width, height); err != nil {
		return nil, err
	}

	c, err := canvas.ParseSVG(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("canvas: 解析 SVG 失败: %w", err)
	}
	if c.W <= 0 || c.H <= 0 {
		return nil, fmt.Errorf("canvas: SVG 尺寸无效 %gx%g", c.W, c.H)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	colorSpace := d.ColorSpace
	if colorSpace == nil {
		colorSpace = canvas.DefaultColorSpace
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ras := rasterizer.FromImage(img, canvas.DPMM(1.0), colorSpace)
	view := canvas.Identity.Scale(float64(width)/c.W, float64(height)/c.H)
	c.RenderViewTo(ras, view)
	ras.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

func init() {
	raster.Register(Name, func() raster.Decoder { return NewDecoder() })
}
