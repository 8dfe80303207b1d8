package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ByLCY/mondrian/art"
	"github.com/ByLCY/mondrian/binding"
	"github.com/ByLCY/mondrian/cache"
	"github.com/ByLCY/mondrian/config"
	"github.com/ByLCY/mondrian/dataurl"
	"github.com/ByLCY/mondrian/dsl"
	"github.com/ByLCY/mondrian/markup"
	"github.com/ByLCY/mondrian/page"
	"github.com/ByLCY/mondrian/raster"
	"github.com/ByLCY/mondrian/render"
)

// runOptions 汇总一次 render 命令的输入。
type runOptions struct {
	Input      string
	Output     string
	SVGPath    string
	DebugPath  string
	Resolution int
	All        bool
	Decoder    string
	Seed       uint64
	PrintURL   bool
	Progress   io.Writer
	Stdout     io.Writer
}

func newRenderCommand(cfg *config.Config) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "生成构图并栅格化为 PNG",
		Long: `Generate a composition (from --in or the defaults), write its SVG markup
and rasterize it into square PNG files.

--out is a path template; ${seed}, ${resolution} and ${title} are filled in.`,
		RunE: func(c *cobra.Command, args []string) error {
			if opts.Input == "" {
				opts.Input = cfg.Art.File
			}
			if !c.Flags().Changed("decoder") {
				opts.Decoder = cfg.Render.Decoder
			}
			if !c.Flags().Changed("resolution") {
				opts.Resolution = 0
			}
			opts.Progress = c.ErrOrStderr()
			opts.Stdout = c.OutOrStdout()
			return run(c.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "in", "", "构图 DSL 文件路径")
	cmd.Flags().StringVar(&opts.Output, "out", "output/mondrian-${seed}-${resolution}.png", "PNG 输出路径模板")
	cmd.Flags().StringVar(&opts.SVGPath, "svg", "", "SVG 标记输出路径")
	cmd.Flags().StringVar(&opts.DebugPath, "debug", "", "构图调试 JSON 输出路径")
	cmd.Flags().IntVar(&opts.Resolution, "resolution", 720, "输出边长（像素）")
	cmd.Flags().BoolVar(&opts.All, "all", false, "按全部预设分辨率各输出一张")
	cmd.Flags().StringVar(&opts.Decoder, "decoder", "canvas", "栅格化后端")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "随机种子，0 表示随机")
	cmd.Flags().BoolVar(&opts.PrintURL, "data-url", false, "将 PNG data URL 打印到标准输出")
	return cmd
}

// run 串联解析、构图、序列化与栅格化。
func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	settings, err := loadSettings(opts.Input)
	if err != nil {
		return err
	}
	if opts.Resolution > 0 {
		settings.Resolution = opts.Resolution
	} else if settings.Resolution == art.DefaultSettings().Resolution && cfg.Render.Resolution > 0 {
		settings.Resolution = cfg.Render.Resolution
	}
	if opts.Seed != 0 {
		settings.Seed = opts.Seed
	}

	comp, err := art.NewGenerator(settings.Seed).Generate(settings)
	if err != nil {
		return fmt.Errorf("生成构图失败: %w", err)
	}
	slog.Debug("composition generated", "seed", comp.Seed, "cells", len(comp.Cells))

	if opts.DebugPath != "" {
		if err := writeDebug(comp, opts.DebugPath); err != nil {
			return err
		}
	}

	artwork := &markup.Artwork{Composition: comp}
	if opts.SVGPath != "" {
		svgText, err := artwork.Markup()
		if err != nil {
			return fmt.Errorf("序列化 SVG 失败: %w", err)
		}
		if err := writeFile(opts.SVGPath, []byte(svgText)); err != nil {
			return err
		}
	}

	renderOpts, closeCache, err := renderOptions(cfg, opts.Decoder)
	if err != nil {
		return err
	}
	defer closeCache()

	doc := page.NewDocument(page.NewArtElement(artwork), page.NewImageSlot())
	r, err := render.ForDocument(doc, renderOpts)
	if err != nil {
		return err
	}

	resolutions := []int{settings.Resolution}
	if opts.All {
		resolutions = art.Resolutions
	}

	var bar *progressbar.ProgressBar
	if opts.All && opts.Progress != nil {
		bar = progressbar.NewOptions(
			len(resolutions),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("render"),
			progressbar.OptionThrottle(80*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(opts.Progress)
			}),
		)
	}

	for _, resolution := range resolutions {
		job, err := r.Render(ctx, resolution)
		if err != nil {
			return fmt.Errorf("启动渲染失败: %w", err)
		}
		res, err := job.Wait(ctx)
		if err != nil {
			return fmt.Errorf("渲染 %dpx 失败: %w", resolution, err)
		}

		outPath, err := binding.Strict(opts.Output, map[string]any{
			"seed":       comp.Seed,
			"resolution": resolution,
			"title":      titleOf(comp),
			"width":      res.Width,
			"height":     res.Height,
		})
		if err != nil {
			return fmt.Errorf("输出路径模板无效: %w", err)
		}
		u, err := dataurl.Parse(res.DataURL)
		if err != nil {
			return err
		}
		if err := writeFile(outPath, u.Data); err != nil {
			return err
		}
		if opts.PrintURL && opts.Stdout != nil {
			fmt.Fprintln(opts.Stdout, res.DataURL)
		}
		slog.Info("png written", "path", outPath, "resolution", resolution, "cached", res.Cached)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

func loadSettings(path string) (art.Settings, error) {
	settings := art.DefaultSettings()
	if path == "" {
		return settings, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return settings, fmt.Errorf("无法打开 DSL 文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return settings, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	settings, err = art.FromDocument(doc, settings)
	if err != nil {
		return settings, fmt.Errorf("DSL 参数无效: %w", err)
	}
	return settings, nil
}

func renderOptions(cfg *config.Config, decoderName string) (render.Options, func(), error) {
	dec, err := raster.Open(decoderName)
	if err != nil {
		return render.Options{}, nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return render.Options{}, nil, err
	}
	opts := render.Options{
		Decoder: dec,
		Policy:  policy,
		Timeout: cfg.Render.Timeout,
		Logger:  slog.Default(),
	}
	closeCache := func() {}
	if cfg.Render.CacheMaxCost > 0 {
		c, err := cache.New(cfg.Render.CacheMaxCost)
		if err != nil {
			return render.Options{}, nil, err
		}
		opts.Cache = c
		closeCache = c.Close
	}
	return opts, closeCache, nil
}

func titleOf(c *art.Composition) string {
	if c.Title != "" {
		return c.Title
	}
	return "mondrian"
}

func writeDebug(c *art.Composition, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := art.WriteDebugJSON(c, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}
