package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uemesh-converter/internal/asset"
	"uemesh-converter/internal/batch"
	"uemesh-converter/internal/config"
	"uemesh-converter/internal/raster"
)

var (
	previewFlags config.Flags
	previewOut   string
	previewYaw   float32
	previewPitch float32
)

var previewCmd = &cobra.Command{
	Use:   "preview <sidecar>",
	Short: "Render a WebP preview of one export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(previewFlags)
		if err != nil {
			return err
		}
		m, err := asset.Convert(args[0], asset.Options{PreferSource: cfg.PreferSource, Log: logger})
		if err != nil {
			return err
		}

		opts := raster.DefaultOptions()
		opts.Size = cfg.PreviewSize
		opts.Supersample = cfg.Supersample
		opts.Yaw = previewYaw
		opts.Pitch = previewPitch
		opts.Textures = textureResolver(cfg.TextureDir)

		out := previewOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, m.Name+".webp")
		}
		if err := batch.WritePreview(m, cfg.LOD, out, opts); err != nil {
			return err
		}
		logger.Info("preview written", zap.String("path", out), zap.Int("lod", cfg.LOD))
		return nil
	},
}

func init() {
	def := raster.DefaultOptions()
	f := previewCmd.Flags()
	f.StringVarP(&previewOut, "output", "o", "", "output file (default <output dir>/<name>.webp)")
	f.IntVar(&previewFlags.LOD, "lod", 0, "LOD to render")
	f.IntVar(&previewFlags.PreviewSize, "size", 0, "image size in pixels (default 256)")
	f.BoolVar(&previewFlags.PreferSource, "prefer-source", false, "use static mesh source models even when cooked data exists")
	f.StringVar(&previewFlags.TextureDir, "textures", "", "directory searched for material textures")
	f.Float32Var(&previewYaw, "yaw", def.Yaw, "camera yaw in degrees")
	f.Float32Var(&previewPitch, "pitch", def.Pitch, "camera pitch in degrees")
}
