package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/mondrian/config"
	_ "github.com/ByLCY/mondrian/raster/prelude"
)

func main() {
	var (
		verbose    bool
		configPath string
	)
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           "mondrian",
		Short:         "mondrian - Mondrian 风格构图生成与 SVG 栅格化",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			slog.Debug("config loaded", "path", configPath, "decoder", cfg.Render.Decoder, "policy", cfg.Render.Policy)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "配置文件路径 (TOML)")

	cmd.AddCommand(newRenderCommand(cfg), newServeCommand(cfg))

	if err := cmd.Execute(); err != nil {
		slog.Error("error", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
