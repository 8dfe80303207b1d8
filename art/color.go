package art

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	Blue   = Color{R: 34, G: 80, B: 149}
	Red    = Color{R: 221, G: 1, B: 0}
	Yellow = Color{R: 250, G: 201, B: 1}
	White  = Color{R: 255, G: 255, B: 255}
	Black  = Color{R: 0, G: 0, B: 0}
)

// DefaultPalette 是经典的蓝、红、黄三色。
func DefaultPalette() []Color {
	return []Color{Blue, Red, Yellow}
}

// Hex 返回不带 # 的小写十六进制表示，例如 "08120c"。
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// String 返回带 # 前缀的十六进制表示。
func (c Color) String() string { return "#" + c.Hex() }

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa（忽略 alpha），# 前缀可省略。
func ParseColor(value string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(raw) {
	case 3:
		raw = strings.Repeat(raw[0:1], 2) + strings.Repeat(raw[1:2], 2) + strings.Repeat(raw[2:3], 2)
	case 6:
	case 8:
		raw = raw[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}
