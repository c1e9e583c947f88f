// Package batch drives the dataset export: bake every enabled mode for
// each mesh, back the maps up, then render the turnaround views per
// mode. One mesh failing is logged and skipped; the run never aborts.
package batch

import (
	"fmt"
	"image"
	gomath "math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/framer"
	"github.com/Faultbox/turnbake/internal/logger"
	"github.com/Faultbox/turnbake/internal/render"
	"github.com/Faultbox/turnbake/internal/scene"
)

// Options configures one dataset run.
type Options struct {
	OutputDir string
	Modes     []bake.Mode
	Bake      bake.Settings
	Camera    framer.Config

	RenderResolution int
	ContactSheet     bool

	// BatchSize groups meshes between checkpoint writes; zero or
	// negative processes everything as one batch.
	BatchSize      int
	CheckpointPath string
	Resume         bool

	// ManifestName is the manifest filename inside OutputDir.
	ManifestName string
}

const (
	defaultManifestName = "dataset_manifest.yaml"
	backupDirName       = "textures_backup"
	sheetDirName        = "contact_sheets"
)

// Process runs the full pipeline over every mesh in the session.
func Process(sess scene.Session, opts Options) (*Stats, error) {
	if len(opts.Modes) == 0 {
		return nil, fmt.Errorf("no bake modes enabled")
	}
	if opts.RenderResolution < 1 {
		return nil, fmt.Errorf("render resolution must be positive, got %d", opts.RenderResolution)
	}
	if opts.ManifestName == "" {
		opts.ManifestName = defaultManifestName
	}

	jobs := bake.Plan(opts.Modes, opts.Bake)
	if err := setupOutputDirs(opts); err != nil {
		return nil, err
	}

	cp := &Checkpoint{RunID: uuid.NewString()}
	if opts.Resume && opts.CheckpointPath != "" {
		loaded, err := LoadCheckpoint(opts.CheckpointPath)
		if err != nil {
			return nil, err
		}
		if loaded.RunID != "" {
			cp = loaded
		}
	}

	names := sess.Meshes()
	pending := names[:0:0]
	for _, name := range names {
		if cp.Done(name) {
			logger.Debug("skipping completed mesh", zap.String("mesh", name))
			continue
		}
		pending = append(pending, name)
	}

	logger.Info("starting dataset export",
		zap.String("run", cp.RunID),
		zap.Int("meshes", len(pending)),
		zap.Int("resumed", len(names)-len(pending)),
		zap.Int("views", opts.Camera.Count),
		zap.Int("modes", len(jobs)))

	manifest := &Manifest{
		RunID:     cp.RunID,
		CreatedAt: time.Now(),
		Camera: ManifestCamera{
			Count:            opts.Camera.Count,
			FocalLength:      opts.Camera.FocalLength,
			SensorSize:       opts.Camera.SensorSize,
			Padding:          opts.Camera.Padding,
			RenderResolution: opts.RenderResolution,
		},
	}
	for _, mode := range opts.Modes {
		manifest.Modes = append(manifest.Modes, string(mode))
	}

	stats := &Stats{}
	runStart := time.Now()

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = len(pending)
	}
	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batchStart := time.Now()

		for i, name := range pending[start:end] {
			entry, ms, err := processMesh(sess, name, jobs, opts)
			if err != nil {
				logger.Error("mesh failed, skipping",
					zap.String("mesh", name), zap.Error(err))
				stats.Failed = append(stats.Failed, name)
				continue
			}
			logger.Info("mesh completed",
				zap.String("mesh", name),
				zap.Int("index", start+i+1),
				zap.Int("total", len(pending)),
				zap.Int("views", ms.ViewCount),
				zap.Duration("took", ms.TotalTime))
			stats.Meshes = append(stats.Meshes, ms)
			manifest.Meshes = append(manifest.Meshes, entry)
			cp.Mark(name)
		}

		if opts.CheckpointPath != "" {
			if err := cp.Save(opts.CheckpointPath); err != nil {
				return nil, fmt.Errorf("saving checkpoint: %w", err)
			}
		}
		logger.Debug("batch completed",
			zap.Int("first", start+1), zap.Int("last", end),
			zap.Duration("took", time.Since(batchStart)))
	}

	stats.TotalTime = time.Since(runStart)
	if err := manifest.Save(filepath.Join(opts.OutputDir, opts.ManifestName)); err != nil {
		return nil, err
	}
	logSummary(stats, len(pending))
	return stats, nil
}

func setupOutputDirs(opts Options) error {
	dirs := []string{backupDirName}
	for _, mode := range opts.Modes {
		dirs = append(dirs, mode.DirName())
	}
	if opts.ContactSheet {
		dirs = append(dirs, sheetDirName)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(opts.OutputDir, d), 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", d, err)
		}
	}
	return nil
}

func processMesh(sess scene.Session, name string, jobs []bake.Job, opts Options) (ManifestMesh, MeshStats, error) {
	meshStart := time.Now()
	id := uuid.NewString()
	base := sanitizeFilename(name) + "_" + id

	bakeStart := time.Now()
	baked, err := bake.All(sess, name, jobs)
	if err != nil {
		return ManifestMesh{}, MeshStats{}, fmt.Errorf("baking: %w", err)
	}
	bakeTime := time.Since(bakeStart)
	for _, mode := range baked.Skipped {
		logger.Warn("bake mode unsupported by session, skipped",
			zap.String("mesh", name), zap.String("mode", string(mode)))
	}
	if len(baked.Images) == 0 {
		return ManifestMesh{}, MeshStats{}, fmt.Errorf("no bake mode produced an image")
	}

	saveStart := time.Now()
	textures := make(map[string]string, len(baked.Images))
	for mode, img := range baked.Images {
		path := filepath.Join(opts.OutputDir, backupDirName,
			fmt.Sprintf("%s_%s.png", base, mode))
		if err := render.SavePNG(img, path); err != nil {
			return ManifestMesh{}, MeshStats{}, fmt.Errorf("saving texture backup: %w", err)
		}
		textures[string(mode)] = path
	}
	saveTime := time.Since(saveStart)

	box, err := sess.Bounds(name)
	if err != nil {
		return ManifestMesh{}, MeshStats{}, fmt.Errorf("bounds: %w", err)
	}
	poses, err := framer.Frame(box, opts.Camera)
	if err != nil {
		return ManifestMesh{}, MeshStats{}, fmt.Errorf("framing: %w", err)
	}

	renderStart := time.Now()
	renderOpts := render.Options{
		Resolution: opts.RenderResolution,
		FOV:        opts.Camera.FOV(),
	}
	views := make(map[string][]string)
	viewCount := 0
	for mode, tex := range baked.Images {
		var sheetViews []image.Image
		for idx, pose := range poses {
			img, err := sess.Render(name, tex, pose, renderOpts)
			if err != nil {
				return ManifestMesh{}, MeshStats{}, fmt.Errorf("rendering %s view %d: %w", mode, idx, err)
			}
			path := filepath.Join(opts.OutputDir, mode.DirName(),
				fmt.Sprintf("%s_view%02d.png", base, idx))
			if err := render.SavePNG(img, path); err != nil {
				return ManifestMesh{}, MeshStats{}, fmt.Errorf("saving view: %w", err)
			}
			views[string(mode)] = append(views[string(mode)], path)
			viewCount++
			if opts.ContactSheet {
				sheetViews = append(sheetViews, img)
			}
		}
		if opts.ContactSheet {
			cols := int(gomath.Ceil(gomath.Sqrt(float64(len(sheetViews)))))
			sheet := render.ContactSheet(sheetViews, cols, 256)
			path := filepath.Join(opts.OutputDir, sheetDirName,
				fmt.Sprintf("%s_%s.png", base, mode))
			if err := render.SavePNG(sheet, path); err != nil {
				return ManifestMesh{}, MeshStats{}, fmt.Errorf("saving contact sheet: %w", err)
			}
		}
	}
	renderTime := time.Since(renderStart)

	entry := ManifestMesh{
		Name:     name,
		ID:       id,
		Bounds:   manifestBounds(box),
		Distance: poses[0].Distance,
		Poses:    manifestPoses(poses),
		Textures: textures,
		Views:    views,
	}
	ms := MeshStats{
		Name:       name,
		ID:         id,
		BakeCount:  len(baked.Images),
		ViewCount:  viewCount,
		BakeTime:   bakeTime,
		SaveTime:   saveTime,
		RenderTime: renderTime,
		TotalTime:  time.Since(meshStart),
	}
	return entry, ms, nil
}

func logSummary(stats *Stats, requested int) {
	logger.Info("dataset export complete",
		zap.Int("processed", stats.Processed()),
		zap.Int("failed", len(stats.Failed)),
		zap.Int("views", stats.TotalViews()),
		zap.Duration("total", stats.TotalTime),
		zap.Duration("perMesh", stats.AverageMeshTime()))

	// Projection only makes sense for small sample runs.
	if stats.Processed() > 0 && requested < 1000 {
		logger.Info("projected dataset times",
			zap.Duration("for1k", stats.Estimate(1000)),
			zap.Duration("for1M", stats.Estimate(1000000)))
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// sanitizeFilename collapses anything outside [a-zA-Z0-9_] so mesh
// names are safe as file name stems.
func sanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "mesh"
	}
	return s
}
