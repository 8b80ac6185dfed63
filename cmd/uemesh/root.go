package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uemesh-converter/internal/config"
	"uemesh-converter/internal/logging"
	"uemesh-converter/internal/texture"
)

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
}

var (
	globalFlags GlobalFlags
	fileConfig  config.Config
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "uemesh",
	Short: "Convert exported engine meshes to glTF",
	Long: `uemesh decodes skeletal and static mesh exports (a YAML sidecar next to the
raw export body) into a canonical mesh, writes it as glTF or GLB and can render
a WebP preview.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(globalFlags.Verbose)
		if globalFlags.ConfigFile == "" {
			return nil
		}
		var err error
		fileConfig, err = config.Load(globalFlags.ConfigFile)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(previewCmd)
}

// resolveConfig applies flag overrides to the loaded config file.
func resolveConfig(flags config.Flags) (config.Config, error) {
	cfg := fileConfig
	if err := cfg.Resolve(flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// textureResolver indexes dir, or returns nil when no texture dir is set.
func textureResolver(dir string) texture.Resolver {
	if dir == "" {
		return nil
	}
	idx := texture.BuildIndex(dir)
	logger.Info("textures indexed", zap.String("dir", dir), zap.Int("count", idx.Len()))
	return texture.NewCache(idx, logger)
}

// collectSidecars expands directories to the sidecars they contain.
func collectSidecars(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				out = append(out, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
