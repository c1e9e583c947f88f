// Package main is the entry point for the turnbake dataset exporter.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/turnbake/internal/batch"
	"github.com/Faultbox/turnbake/internal/config"
	"github.com/Faultbox/turnbake/internal/logger"
	"github.com/Faultbox/turnbake/internal/mesh"
	"github.com/Faultbox/turnbake/internal/scene"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Turnbake Dataset Exporter ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	meshes, err := mesh.LoadDir(cfg.Input.MeshDir, cfg.Input.Pattern)
	if err != nil {
		logger.Error("failed to load meshes", zap.Error(err))
		os.Exit(1)
	}
	if len(meshes) == 0 {
		logger.Error("no meshes matched",
			zap.String("dir", cfg.Input.MeshDir),
			zap.String("pattern", cfg.Input.Pattern))
		os.Exit(1)
	}
	logger.Info("meshes loaded",
		zap.Int("count", len(meshes)),
		zap.String("dir", cfg.Input.MeshDir))

	sess, err := scene.NewSoftSession(meshes)
	if err != nil {
		logger.Error("failed to open session", zap.Error(err))
		os.Exit(1)
	}
	defer sess.Close()

	checkpoint := cfg.Batch.Checkpoint
	if checkpoint != "" && !filepath.IsAbs(checkpoint) {
		checkpoint = filepath.Join(cfg.Output.Path, checkpoint)
	}

	stats, err := batch.Process(sess, batch.Options{
		OutputDir:        cfg.Output.Path,
		Modes:            cfg.Modes(),
		Bake:             cfg.BakeSettings(),
		Camera:           cfg.FramerConfig(),
		RenderResolution: cfg.Render.Resolution,
		ContactSheet:     cfg.Render.ContactSheet,
		BatchSize:        cfg.Batch.Size,
		CheckpointPath:   checkpoint,
		Resume:           cfg.Batch.Resume,
		ManifestName:     cfg.Output.Manifest,
	})
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}

	if len(stats.Failed) > 0 {
		logger.Warn("export finished with failures",
			zap.Int("processed", stats.Processed()),
			zap.Strings("failed", stats.Failed))
		os.Exit(1)
	}
	logger.Info("export finished",
		zap.Int("processed", stats.Processed()),
		zap.Int("views", stats.TotalViews()))
}
