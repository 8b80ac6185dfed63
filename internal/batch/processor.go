// Package batch converts many exports concurrently.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"uemesh-converter/internal/asset"
	"uemesh-converter/internal/gltfexport"
	"uemesh-converter/internal/raster"
)

// Config holds the shared settings for a batch run. Workers share nothing but
// the texture resolver inside Render, which must be safe for concurrent use.
type Config struct {
	OutputDir    string
	Format       string // "glb" or "gltf"
	LOD          int
	PreferSource bool
	Preview      bool
	Render       raster.Options
	Workers      int
	Log          *zap.Logger
}

// Result holds the outcome of converting one export.
type Result struct {
	Source   string
	Name     string
	Kind     string
	Model    string
	Preview  string
	LODs     int
	Bones    int
	Warnings []string
	Success  bool
	Error    string
}

// Run converts every sidecar in paths using a worker pool. Results keep the
// order of paths.
func Run(cfg Config, paths []string) []Result {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := max(cfg.Workers, 1)

	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", zap.Int64("done", p), zap.Int("total", total), zap.Float64("per_sec", rate))
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processItem(cfg, log, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func processItem(cfg Config, log *zap.Logger, path string) Result {
	res := Result{Source: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		log.Error("conversion failed", zap.String("source", path), zap.Error(err))
		return res
	}

	exp, err := asset.Load(path)
	if err != nil {
		return fail(err)
	}
	res.Name = exp.Name

	m, err := exp.Convert(asset.Options{PreferSource: cfg.PreferSource, Log: log})
	if err != nil {
		return fail(err)
	}
	res.Kind = string(m.Kind)
	res.LODs = len(m.Lods)
	res.Bones = len(m.Bones)
	for _, w := range m.Warnings {
		res.Warnings = append(res.Warnings, w.String())
	}
	if cfg.LOD >= len(m.Lods) {
		return fail(fmt.Errorf("batch: %s: lod %d not present, mesh has %d", exp.Name, cfg.LOD, len(m.Lods)))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fail(err)
	}
	res.Model = m.Name + "." + cfg.Format
	if err := gltfexport.Write(m, filepath.Join(cfg.OutputDir, res.Model), gltfexport.Options{LOD: cfg.LOD}); err != nil {
		return fail(err)
	}

	if cfg.Preview {
		res.Preview = m.Name + ".webp"
		if err := WritePreview(m, cfg.LOD, filepath.Join(cfg.OutputDir, res.Preview), cfg.Render); err != nil {
			return fail(err)
		}
	}

	res.Success = true
	return res
}
