// Package markup serializes compositions into SVG markup, the vector form the
// raster renderer consumes.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ByLCY/mondrian/art"
)

// ArtClass is the class attribute carried by the root <svg> element.
const ArtClass = "art"

// ErrNoComposition is returned when an Artwork has nothing to serialize.
var ErrNoComposition = errors.New("markup: composition is nil")

// Artwork serializes a composition on demand.
type Artwork struct {
	Composition *art.Composition
}

// Markup renders the composition as a standalone SVG document.
func (a *Artwork) Markup() (string, error) {
	if a == nil || a.Composition == nil {
		return "", ErrNoComposition
	}
	return Write(a.Composition)
}

// Write renders c as SVG: a background rect for the whole canvas followed by
// one rect per cell, each outlined with the border color.
func Write(c *art.Composition) (string, error) {
	if c == nil {
		return "", ErrNoComposition
	}
	if c.Width <= 0 || c.Height <= 0 {
		return "", fmt.Errorf("markup: invalid canvas %dx%d", c.Width, c.Height)
	}

	var buf bytes.Buffer
	doc := svg.New(&buf)
	// Startview 不接受额外属性，根元素的 class 只能经由 Start 写入。
	doc.Start(c.Width, c.Height,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, c.Width, c.Height),
		fmt.Sprintf(`class="%s"`, ArtClass),
	)
	doc.Rect(0, 0, c.Width, c.Height, cellStyle(c.Canvas, c))
	for _, cell := range c.Cells {
		doc.Rect(cell.X, cell.Y, cell.Width, cell.Height, cellStyle(cell.Fill, c))
	}
	doc.End()
	// 去掉 XML 声明与注释，标记会被内联进 HTML。
	out := buf.String()
	if i := strings.Index(out, "<svg"); i > 0 {
		out = out[i:]
	}
	return out, nil
}

func cellStyle(fill art.Color, c *art.Composition) string {
	return fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%g"`, fill, c.Border, c.BorderWidth)
}

// Static is a Source backed by literal markup.
type Static string

// Markup returns the literal markup.
func (s Static) Markup() (string, error) { return string(s), nil }
