package art

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/mondrian/dsl"
)

// FromDocument 将 DSL 构图文件映射到参数上，未出现的字段沿用 base。
func FromDocument(doc *dsl.Document, base Settings) (Settings, error) {
	if doc == nil {
		return base, fmt.Errorf("文档为空")
	}
	s := base
	if doc.Body == nil {
		return s, s.Validate()
	}
	for _, stmt := range doc.Body.Statements {
		var err error
		switch {
		case stmt.Assignment != nil:
			err = applyAssignment(&s, stmt.Assignment)
		case stmt.Command != nil:
			err = applyCommand(&s, stmt.Command)
		}
		if err != nil {
			return base, err
		}
	}
	return s, s.Validate()
}

func applyAssignment(s *Settings, a *dsl.Assignment) error {
	key := strings.ToLower(a.Key)
	raw := a.Value.Raw()
	var err error
	switch key {
	case "width":
		s.Width, err = parseInt(raw)
	case "height":
		s.Height, err = parseInt(raw)
	case "ratio-x":
		s.RatioX, err = parseInt(raw)
	case "ratio-y":
		s.RatioY, err = parseInt(raw)
	case "fill", "fill-chance":
		s.FillChance, err = parseInt(raw)
	case "colors", "number-of-colors":
		s.NumberOfColors, err = parseInt(raw)
	case "random", "random-colors":
		s.RandomColors, err = strconv.ParseBool(raw)
	case "keep", "keep-colors":
		s.KeepColors, err = strconv.ParseBool(raw)
	case "background", "canvas-color":
		s.Canvas, err = ParseColor(raw)
	case "border":
		s.Border, err = ParseColor(raw)
	case "border-width":
		s.BorderWidth, err = strconv.ParseFloat(trimUnit(raw), 64)
	case "resolution":
		s.Resolution, err = parseInt(raw)
	case "seed":
		s.Seed, err = strconv.ParseUint(raw, 10, 64)
	case "title":
		s.Title = raw
	case "palette":
		s.Palette, err = parsePalette(a.Value)
	default:
		return fmt.Errorf("%s: 未知的字段 %s", a.Pos, a.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: 字段 %s 的值 %q 无效: %w", a.Pos, a.Key, raw, err)
	}
	return nil
}

func applyCommand(s *Settings, cmd *dsl.Command) error {
	switch strings.ToLower(cmd.Name) {
	case "canvas", "size":
		w, h, err := parsePair(cmd)
		if err != nil {
			return err
		}
		s.Width, s.Height = w, h
	case "ratio":
		x, y, err := parsePair(cmd)
		if err != nil {
			return err
		}
		s.RatioX, s.RatioY = x, y
	case "palette":
		if cmd.Block == nil {
			return fmt.Errorf("%s: palette 命令缺少颜色列表", cmd.Pos)
		}
		var palette []Color
		for _, st := range cmd.Block.Statements {
			if st.Command == nil || st.Command.Name != "color" || len(st.Command.Args) == 0 {
				return fmt.Errorf("%s: palette 中只允许 color 命令", cmd.Pos)
			}
			c, err := ParseColor(st.Command.Args[0].Value)
			if err != nil {
				return fmt.Errorf("%s: %w", st.Command.Pos, err)
			}
			palette = append(palette, c)
		}
		s.Palette = palette
	default:
		return fmt.Errorf("%s: 未知的命令 %s", cmd.Pos, cmd.Name)
	}
	return nil
}

func parsePair(cmd *dsl.Command) (int, int, error) {
	if len(cmd.Args) != 2 {
		return 0, 0, fmt.Errorf("%s: %s 需要两个数值参数", cmd.Pos, cmd.Name)
	}
	a, err := parseInt(cmd.Args[0].Value)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %s 参数无效: %w", cmd.Pos, cmd.Name, err)
	}
	b, err := parseInt(cmd.Args[1].Value)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %s 参数无效: %w", cmd.Pos, cmd.Name, err)
	}
	return a, b, nil
}

func parsePalette(v *dsl.Value) ([]Color, error) {
	if v.Array == nil {
		c, err := ParseColor(v.Raw())
		if err != nil {
			return nil, err
		}
		return []Color{c}, nil
	}
	out := make([]Color, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		c, err := ParseColor(item.Raw())
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseInt(value string) (int, error) {
	return strconv.Atoi(trimUnit(value))
}

func trimUnit(value string) string {
	for _, suffix := range []string{"px", "%"} {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}
