package render

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ByLCY/mondrian/dataurl"
)

// rasterize loads the SVG data URL into a decoded image and paints it onto a
// fresh surface of size×size. Nothing here is reused between calls.
func (r *Renderer) rasterize(ctx context.Context, svgURL string, size int) (*image.RGBA, error) {
	handle, err := dataurl.Parse(svgURL)
	if err != nil {
		return nil, fmt.Errorf("render: load artwork: %w", err)
	}
	surface := image.NewRGBA(image.Rect(0, 0, size, size))

	decoded, err := r.decoder.Decode(ctx, handle.Data, size, size)
	if err != nil {
		return nil, fmt.Errorf("render: decode artwork: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := decoded.Bounds()
	if src.Dx() == size && src.Dy() == size {
		draw.Draw(surface, surface.Bounds(), decoded, src.Min, draw.Over)
	} else {
		// 解码结果尺寸不符时拉伸到整个画布。
		draw.CatmullRom.Scale(surface, surface.Bounds(), decoded, src, draw.Over, nil)
	}
	return surface, nil
}
