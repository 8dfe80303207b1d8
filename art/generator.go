package art

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Resolutions 是预设的正方形输出边长（像素）。
var Resolutions = []int{720, 900, 1080, 1280, 1440, 1600, 1920, 2048}

const (
	// MaxCanvas 是画布单边的上限。
	MaxCanvas = 4096
	// MaxGrid 限制 (Width/RatioX)×(Height/RatioY)，间接约束叶子格子数量。
	MaxGrid = 10000
)

// DefaultSettings 返回与网页版一致的默认参数。
func DefaultSettings() Settings {
	return Settings{
		Width:          800,
		Height:         800,
		RatioX:         50,
		RatioY:         50,
		FillChance:     30,
		NumberOfColors: 3,
		Canvas:         White,
		Border:         Black,
		BorderWidth:    3,
		Palette:        DefaultPalette(),
		Resolution:     Resolutions[0],
	}
}

// Validate 检查参数范围，避免切分递归无法终止。
func (s Settings) Validate() error {
	if s.Width < 4 || s.Height < 4 {
		return fmt.Errorf("画布尺寸 %dx%d 过小（至少 4x4）", s.Width, s.Height)
	}
	if s.Width > MaxCanvas || s.Height > MaxCanvas {
		return fmt.Errorf("画布尺寸 %dx%d 过大（至多 %dx%d）", s.Width, s.Height, MaxCanvas, MaxCanvas)
	}
	if s.RatioX < 2 || s.RatioY < 2 {
		return fmt.Errorf("切分阈值 %dx%d 过小（至少 2）", s.RatioX, s.RatioY)
	}
	if grid := (s.Width / s.RatioX) * (s.Height / s.RatioY); grid > MaxGrid {
		return fmt.Errorf("切分阈值 %dx%d 相对画布 %dx%d 过小，格子过多", s.RatioX, s.RatioY, s.Width, s.Height)
	}
	if s.FillChance < 0 || s.FillChance > 100 {
		return fmt.Errorf("涂色概率 %d 超出范围 0-100", s.FillChance)
	}
	if s.NumberOfColors < 0 || s.NumberOfColors > 100 {
		return fmt.Errorf("颜色数量 %d 超出范围 0-100", s.NumberOfColors)
	}
	if s.BorderWidth < 0 {
		return fmt.Errorf("边框宽度 %g 不能为负", s.BorderWidth)
	}
	if s.Resolution <= 0 {
		return fmt.Errorf("输出分辨率 %d 必须为正数", s.Resolution)
	}
	return nil
}

// Generator 生成蒙德里安风格的构图。
// 它会记住上一次使用的配色，以支持 KeepColors。
type Generator struct {
	mu      sync.Mutex
	seeds   *rand.Rand
	palette []Color
}

// NewGenerator 创建生成器；seed 为 0 时使用当前时间作为种子来源。
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{seeds: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Palette 返回上一次生成所用配色的副本。
func (g *Generator) Palette() []Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Color(nil), g.palette...)
}

// Generate 按参数生成一幅构图。Settings.Seed 非 0 时结果可复现。
func (g *Generator) Generate(s Settings) (*Composition, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	seed := s.Seed
	for seed == 0 {
		seed = g.seeds.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	palette := g.choosePalette(rng, s)
	g.palette = palette

	b := &builder{
		rng:     rng,
		s:       s,
		palette: palette,
		halfW:   s.Width / 2,
		halfH:   s.Height / 2,
	}
	b.split(NewCell(0, 0, s.Width, s.Height))

	return &Composition{
		Width:       s.Width,
		Height:      s.Height,
		Canvas:      s.Canvas,
		Border:      s.Border,
		BorderWidth: s.BorderWidth,
		Palette:     append([]Color(nil), palette...),
		Cells:       b.cells,
		Seed:        seed,
		Title:       s.Title,
	}, nil
}

func (g *Generator) choosePalette(rng *rand.Rand, s Settings) []Color {
	switch {
	case s.RandomColors && s.KeepColors && len(g.palette) > 0:
		return append([]Color(nil), g.palette...)
	case s.RandomColors:
		out := make([]Color, s.NumberOfColors)
		for i := range out {
			out[i] = Color{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256))}
		}
		return out
	case len(s.Palette) > 0:
		return append([]Color(nil), s.Palette...)
	default:
		return DefaultPalette()
	}
}

type builder struct {
	rng     *rand.Rand
	s       Settings
	palette []Color
	halfW   int
	halfH   int
	cells   []Cell
}

func (b *builder) split(c Cell) {
	wide := c.Width > b.halfW
	tall := c.Height > b.halfH
	switch {
	case wide && tall:
		b.splitFour(c)
	case wide:
		b.splitVertical(c)
	case tall:
		b.splitHorizontal(c)
	case c.Height > b.s.RatioY && c.Width > b.s.RatioX:
		b.splitFour(c)
	case c.Height > b.s.RatioY:
		b.splitHorizontal(c)
	case c.Width > b.s.RatioX:
		b.splitVertical(c)
	default:
		b.fill(c)
	}
}

func (b *builder) splitHorizontal(c Cell) {
	top, bottom, _ := c.SplitHorizontally(c.Y + b.offset(c.Height))
	b.split(top)
	b.split(bottom)
}

func (b *builder) splitVertical(c Cell) {
	left, right, _ := c.SplitVertically(c.X + b.offset(c.Width))
	b.split(left)
	b.split(right)
}

func (b *builder) splitFour(c Cell) {
	x := c.X + b.offset(c.Width)
	y := c.Y + b.offset(c.Height)
	parts, _ := c.SplitFourWays(x, y)
	for _, p := range parts {
		b.split(p)
	}
}

// offset 在 [n/4, n-n/4) 中随机取切分位置，且两侧至少保留 1 像素。
func (b *builder) offset(n int) int {
	lo := max(n/4, 1)
	hi := n - lo
	if hi <= lo {
		return lo
	}
	return lo + b.rng.IntN(hi-lo)
}

func (b *builder) fill(c Cell) {
	c.Fill = b.s.Canvas
	if len(b.palette) > 0 {
		n := b.rng.Float64() * 100
		increment := float64(b.s.FillChance) / float64(len(b.palette))
		for i, col := range b.palette {
			if n < float64(i+1)*increment {
				c.Fill = col
				break
			}
		}
	}
	b.cells = append(b.cells, c)
}
