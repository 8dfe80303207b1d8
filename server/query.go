package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ByLCY/mondrian/art"
)

// settingsFromQuery applies the page's query parameters over base.
func settingsFromQuery(c *fiber.Ctx, base art.Settings) (art.Settings, error) {
	s := base
	s.Palette = append([]art.Color(nil), base.Palette...)

	ints := []struct {
		key string
		dst *int
	}{
		{"resolution", &s.Resolution},
		{"ratio-x", &s.RatioX},
		{"ratio-y", &s.RatioY},
		{"fill", &s.FillChance},
		{"colors", &s.NumberOfColors},
		{"width", &s.Width},
		{"height", &s.Height},
	}
	for _, f := range ints {
		raw := strings.TrimSuffix(c.Query(f.key), "%")
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return s, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("参数 %s 不是整数: %q", f.key, raw))
		}
		*f.dst = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"random", &s.RandomColors},
		{"keep", &s.KeepColors},
	}
	for _, f := range bools {
		raw := c.Query(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return s, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("参数 %s 不是布尔值: %q", f.key, raw))
		}
		*f.dst = v
	}

	colors := []struct {
		key string
		dst *art.Color
	}{
		{"background", &s.Canvas},
		{"border", &s.Border},
	}
	for _, f := range colors {
		raw := c.Query(f.key)
		if raw == "" {
			continue
		}
		v, err := art.ParseColor(raw)
		if err != nil {
			return s, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("参数 %s: %v", f.key, err))
		}
		*f.dst = v
	}

	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return s, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("参数 seed 无效: %q", raw))
		}
		s.Seed = v
	}

	if err := s.Validate(); err != nil {
		return s, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return s, nil
}
