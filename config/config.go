// Package config loads mondrian.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/mondrian/raster"
	"github.com/ByLCY/mondrian/render"
)

// DefaultPath is looked up when --config is not given.
const DefaultPath = "mondrian.toml"

type Server struct {
	Addr string `toml:"addr"`
}

type Render struct {
	Decoder      string        `toml:"decoder"`
	Policy       string        `toml:"policy"`
	Timeout      time.Duration `toml:"timeout"`
	CacheMaxCost int64         `toml:"cache_max_cost"`
	Resolution   int           `toml:"resolution"`
}

type Art struct {
	// File is an optional composition DSL file.
	File string `toml:"file"`
}

// Config mirrors the file layout: [server], [render], [art].
type Config struct {
	Server Server `toml:"server"`
	Render Render `toml:"render"`
	Art    Art    `toml:"art"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Render: Render{
			Decoder:      "canvas",
			Policy:       render.LatestWins.String(),
			Timeout:      30 * time.Second,
			CacheMaxCost: 64 << 20,
			Resolution:   720,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr 不能为空"))
	}
	if _, err := raster.Open(c.Render.Decoder); err != nil {
		errs = append(errs, fmt.Errorf("render.decoder: %w", err))
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, fmt.Errorf("render.policy: %w", err))
	}
	if c.Render.Timeout < 0 {
		errs = append(errs, errors.New("render.timeout 不能为负数"))
	}
	if c.Render.CacheMaxCost < 0 {
		errs = append(errs, errors.New("render.cache_max_cost 不能为负数"))
	}
	if !render.ValidResolution(c.Render.Resolution) {
		errs = append(errs, fmt.Errorf("render.resolution: %w: %d", render.ErrInvalidResolution, c.Render.Resolution))
	}
	return errors.Join(errs...)
}

// Policy parses render.policy.
func (c *Config) Policy() (render.Policy, error) {
	return render.ParsePolicy(c.Render.Policy)
}
