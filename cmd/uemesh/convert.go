package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uemesh-converter/internal/batch"
	"uemesh-converter/internal/config"
	"uemesh-converter/internal/raster"
)

var convertFlags config.Flags

var convertCmd = &cobra.Command{
	Use:   "convert <sidecar|dir>...",
	Short: "Convert exports to glTF/GLB",
	Long:  "Convert every export sidecar given (directories are scanned for *.yaml) and write manifest.json to the output directory.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(convertFlags)
		if err != nil {
			return err
		}
		paths, err := collectSidecars(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			logger.Info("no exports to convert")
			return nil
		}

		render := raster.DefaultOptions()
		render.Size = cfg.PreviewSize
		render.Supersample = cfg.Supersample
		if cfg.Preview {
			render.Textures = textureResolver(cfg.TextureDir)
		}

		logger.Info("converting",
			zap.Int("exports", len(paths)),
			zap.Int("workers", cfg.Workers),
			zap.String("format", cfg.Format),
			zap.String("output", cfg.OutputDir))
		start := time.Now()

		results := batch.Run(batch.Config{
			OutputDir:    cfg.OutputDir,
			Format:       cfg.Format,
			LOD:          cfg.LOD,
			PreferSource: cfg.PreferSource,
			Preview:      cfg.Preview,
			Render:       render,
			Workers:      cfg.Workers,
			Log:          logger,
		}, paths)

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return err
		}
		manifest := filepath.Join(cfg.OutputDir, "manifest.json")
		if err := batch.WriteManifest(manifest, results); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}

		logger.Info("done",
			zap.Int("converted", len(results)-failed),
			zap.Int("failed", failed),
			zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
			zap.String("manifest", manifest))
		if failed > 0 {
			return fmt.Errorf("%d of %d exports failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.OutputDir, "output", "o", "", "output directory (default ./converted)")
	f.StringVar(&convertFlags.Format, "format", "", "output format: glb|gltf (default glb)")
	f.IntVar(&convertFlags.LOD, "lod", 0, "LOD to export")
	f.BoolVar(&convertFlags.PreferSource, "prefer-source", false, "use static mesh source models even when cooked data exists")
	f.BoolVar(&convertFlags.Preview, "preview", false, "also render a WebP preview per export")
	f.IntVar(&convertFlags.PreviewSize, "size", 0, "preview size in pixels (default 256)")
	f.StringVar(&convertFlags.TextureDir, "textures", "", "directory searched for material textures")
	f.IntVarP(&convertFlags.Workers, "workers", "j", 0, "worker goroutines (default NumCPU)")
}
