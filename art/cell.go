package art

// NewCell 创建一个白色格子。
func NewCell(x, y, width, height int) Cell {
	return Cell{X: x, Y: y, Width: width, Height: height, Fill: White}
}

// SplitHorizontally 在绝对纵坐标 y 处把格子切成上下两块。
// y 落在格子之外时返回 ok=false。
func (c Cell) SplitHorizontally(y int) (top, bottom Cell, ok bool) {
	if y < c.Y || y > c.Y+c.Height {
		return Cell{}, Cell{}, false
	}
	top = NewCell(c.X, c.Y, c.Width, y-c.Y)
	bottom = NewCell(c.X, y, c.Width, c.Height-top.Height)
	return top, bottom, true
}

// SplitVertically 在绝对横坐标 x 处把格子切成左右两块。
func (c Cell) SplitVertically(x int) (left, right Cell, ok bool) {
	if x < c.X || x > c.X+c.Width {
		return Cell{}, Cell{}, false
	}
	left = NewCell(c.X, c.Y, x-c.X, c.Height)
	right = NewCell(x, c.Y, c.Width-left.Width, c.Height)
	return left, right, true
}

// SplitFourWays 同时在 (x, y) 处切分，返回左上、右上、左下、右下四块。
func (c Cell) SplitFourWays(x, y int) (parts [4]Cell, ok bool) {
	top, bottom, ok := c.SplitHorizontally(y)
	if !ok {
		return parts, false
	}
	tl, tr, ok := top.SplitVertically(x)
	if !ok {
		return parts, false
	}
	bl, br, ok := bottom.SplitVertically(x)
	if !ok {
		return parts, false
	}
	return [4]Cell{tl, tr, bl, br}, true
}
