package art

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/mondrian/dsl"
)

func TestColorHex(t *testing.T) {
	if got := (Color{R: 8, G: 18, B: 12}).Hex(); got != "08120c" {
		t.Fatalf("expected 08120c, got %s", got)
	}
	if got := Blue.String(); got != "#225095" {
		t.Fatalf("expected #225095, got %s", got)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#225095", Blue},
		{"dd0100", Red},
		{"#fff", White},
		{"#FAC901ff", Yellow},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestCellSplits(t *testing.T) {
	c := NewCell(10, 20, 100, 50)

	top, bottom, ok := c.SplitHorizontally(30)
	if !ok {
		t.Fatalf("split inside cell should succeed")
	}
	if top.Height != 10 || bottom.Y != 30 || bottom.Height != 40 {
		t.Fatalf("unexpected horizontal split: %+v %+v", top, bottom)
	}

	left, right, ok := c.SplitVertically(35)
	if !ok {
		t.Fatalf("split inside cell should succeed")
	}
	if left.Width != 25 || right.X != 35 || right.Width != 75 {
		t.Fatalf("unexpected vertical split: %+v %+v", left, right)
	}

	if _, _, ok := c.SplitHorizontally(5); ok {
		t.Fatalf("split above the cell must fail")
	}
	if _, _, ok := c.SplitVertically(111); ok {
		t.Fatalf("split right of the cell must fail")
	}

	parts, ok := c.SplitFourWays(60, 45)
	if !ok {
		t.Fatalf("four-way split should succeed")
	}
	total := 0
	for _, p := range parts {
		total += p.Area()
	}
	if total != c.Area() {
		t.Fatalf("four-way split lost area: %d != %d", total, c.Area())
	}
	if _, ok := c.SplitFourWays(60, 500); ok {
		t.Fatalf("four-way split outside the cell must fail")
	}
}

// TestGenerateTilesCanvas 断言：叶子格子恰好铺满画布，没有重叠也没有空隙。
func TestGenerateTilesCanvas(t *testing.T) {
	s := DefaultSettings()
	s.Width, s.Height = 200, 120
	s.RatioX, s.RatioY = 20, 16
	s.Seed = 7

	comp, err := NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(comp.Cells) < 4 {
		t.Fatalf("expected several cells, got %d", len(comp.Cells))
	}

	covered := make([]int, s.Width*s.Height)
	for _, c := range comp.Cells {
		if c.Width <= 0 || c.Height <= 0 {
			t.Fatalf("degenerate cell %+v", c)
		}
		if c.Width > s.RatioX || c.Height > s.RatioY {
			t.Fatalf("leaf %+v larger than ratio %dx%d", c, s.RatioX, s.RatioY)
		}
		for y := c.Y; y < c.Y+c.Height; y++ {
			for x := c.X; x < c.X+c.Width; x++ {
				covered[y*s.Width+x]++
			}
		}
	}
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("pixel (%d,%d) covered %d times", i%s.Width, i/s.Width, n)
		}
	}
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	s := DefaultSettings()
	s.Seed = 42

	a, err := NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	b, err := NewGenerator(99).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different compositions")
	}
	if a.Seed != 42 {
		t.Fatalf("expected seed 42 recorded, got %d", a.Seed)
	}
}

func TestGenerateRecordsDrawnSeed(t *testing.T) {
	g := NewGenerator(5)
	s := DefaultSettings()
	first, err := g.Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if first.Seed == 0 {
		t.Fatalf("drawn seed must be non-zero")
	}
	s.Seed = first.Seed
	again, err := NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !reflect.DeepEqual(first.Cells, again.Cells) {
		t.Fatalf("replaying the recorded seed should reproduce the cells")
	}
}

func TestGenerateFillChance(t *testing.T) {
	s := DefaultSettings()
	s.Seed = 3
	s.FillChance = 0
	comp, err := NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, c := range comp.Cells {
		if c.Fill != s.Canvas {
			t.Fatalf("fill chance 0 must leave every cell canvas colored, got %+v", c.Fill)
		}
	}

	s.FillChance = 100
	s.Palette = []Color{Red}
	comp, err = NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, c := range comp.Cells {
		if c.Fill != Red {
			t.Fatalf("fill chance 100 with one color must paint every cell, got %+v", c.Fill)
		}
	}
}

func TestGenerateRandomAndKeptColors(t *testing.T) {
	g := NewGenerator(11)
	s := DefaultSettings()
	s.RandomColors = true
	s.NumberOfColors = 5

	first, err := g.Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(first.Palette) != 5 {
		t.Fatalf("expected 5 random colors, got %d", len(first.Palette))
	}

	s.KeepColors = true
	s.NumberOfColors = 2
	second, err := g.Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !reflect.DeepEqual(first.Palette, second.Palette) {
		t.Fatalf("keep colors should reuse the previous palette")
	}
	if !reflect.DeepEqual(g.Palette(), first.Palette) {
		t.Fatalf("generator should expose the last palette")
	}

	s.RandomColors = false
	third, err := g.Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !reflect.DeepEqual(third.Palette, DefaultPalette()) {
		t.Fatalf("non-random mode should use the configured palette, got %+v", third.Palette)
	}
}

func TestSettingsValidate(t *testing.T) {
	cases := map[string]func(*Settings){
		"tiny canvas":      func(s *Settings) { s.Width = 2 },
		"tiny ratio":       func(s *Settings) { s.RatioY = 1 },
		"fill over 100":    func(s *Settings) { s.FillChance = 101 },
		"negative colors":  func(s *Settings) { s.NumberOfColors = -1 },
		"zero resolution":  func(s *Settings) { s.Resolution = 0 },
		"negative borders": func(s *Settings) { s.BorderWidth = -1 },
		"huge canvas":      func(s *Settings) { s.Width, s.Height = 1000000, 1000000 },
		"wide canvas":      func(s *Settings) { s.Width = MaxCanvas + 1 },
		"dense grid": func(s *Settings) {
			s.Width, s.Height = 4000, 4000
			s.RatioX, s.RatioY = 2, 2
		},
	}
	for name, mutate := range cases {
		s := DefaultSettings()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if _, err := NewGenerator(1).Generate(s); err == nil {
			t.Fatalf("%s: generate should reject invalid settings", name)
		}
	}
}

// TestSettingsValidateAcceptsSliderRange 原网页滑块范围（20-200）在默认画布上必须合法。
func TestSettingsValidateAcceptsSliderRange(t *testing.T) {
	for _, ratio := range []int{20, 50, 200} {
		s := DefaultSettings()
		s.RatioX, s.RatioY = ratio, ratio
		if err := s.Validate(); err != nil {
			t.Fatalf("ratio %d: %v", ratio, err)
		}
	}
	s := DefaultSettings()
	s.Width, s.Height = MaxCanvas, MaxCanvas
	s.RatioX, s.RatioY = 50, 50
	if err := s.Validate(); err != nil {
		t.Fatalf("max canvas: %v", err)
	}
}

func TestFromDocument(t *testing.T) {
	doc, err := dsl.ParseString(`art Sample v1 {
  canvas 640 480
  ratio 30 40
  fill: 55%
  colors: 4
  random: true
  background: #eeeeee
  border: #111
  border-width: 2.5
  resolution: 1080
  seed: 9
  title: "No. ${seed}"
  palette {
    color #225095
    color #dd0100
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s, err := FromDocument(doc, DefaultSettings())
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if s.Width != 640 || s.Height != 480 || s.RatioX != 30 || s.RatioY != 40 {
		t.Fatalf("unexpected geometry: %+v", s)
	}
	if s.FillChance != 55 || s.NumberOfColors != 4 || !s.RandomColors {
		t.Fatalf("unexpected color settings: %+v", s)
	}
	if s.Canvas != (Color{R: 0xee, G: 0xee, B: 0xee}) || s.Border != (Color{R: 0x11, G: 0x11, B: 0x11}) {
		t.Fatalf("unexpected colors: %+v %+v", s.Canvas, s.Border)
	}
	if s.BorderWidth != 2.5 || s.Resolution != 1080 || s.Seed != 9 || s.Title != "No. ${seed}" {
		t.Fatalf("unexpected misc settings: %+v", s)
	}
	if !reflect.DeepEqual(s.Palette, []Color{Blue, Red}) {
		t.Fatalf("unexpected palette: %+v", s.Palette)
	}
}

func TestFromDocumentRejectsUnknownField(t *testing.T) {
	doc, err := dsl.ParseString("art Bad {\n  glitter: 3\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = FromDocument(doc, DefaultSettings())
	if err == nil || !strings.Contains(err.Error(), "glitter") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	s := DefaultSettings()
	s.Seed = 1
	comp, err := NewGenerator(1).Generate(s)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(comp, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `"cells"`) {
		t.Fatalf("debug JSON missing cells: %s", data)
	}
}
