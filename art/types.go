package art

// 该文件定义构图参数与生成结果，供生成器、SVG 序列化与调试 JSON 共用。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Cell 是画布上的一个矩形格子，坐标与尺寸单位均为像素。
type Cell struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Fill   Color `json:"fill"`
}

// Settings 描述一次构图所需的全部参数。
type Settings struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	RatioX         int     `json:"ratioX"`         // 格子宽度超过该值时继续纵向切分
	RatioY         int     `json:"ratioY"`         // 格子高度超过该值时继续横向切分
	FillChance     int     `json:"fillChance"`     // 叶子格子被涂色的概率（0-100）
	NumberOfColors int     `json:"numberOfColors"` // 随机配色时生成的颜色数量
	RandomColors   bool    `json:"randomColors"`
	KeepColors     bool    `json:"keepColors"` // 随机配色时沿用上一次的配色
	Canvas         Color   `json:"canvas"`
	Border         Color   `json:"border"`
	BorderWidth    float64 `json:"borderWidth"`
	Palette        []Color `json:"palette"`
	Resolution     int     `json:"resolution"`
	Seed           uint64  `json:"seed"` // 0 表示使用时间种子
	Title          string  `json:"title,omitempty"`
}

// Composition 保存生成后的构图，Cells 恰好铺满整张画布。
type Composition struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Canvas      Color   `json:"canvas"`
	Border      Color   `json:"border"`
	BorderWidth float64 `json:"borderWidth"`
	Palette     []Color `json:"palette"`
	Cells       []Cell  `json:"cells"`
	Seed        uint64  `json:"seed"`
	Title       string  `json:"title,omitempty"`
}

// Area 返回格子面积。
func (c Cell) Area() int { return c.Width * c.Height }
