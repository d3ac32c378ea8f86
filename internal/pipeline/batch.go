package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
	"github.com/capsresources/resource-organizer/internal/manifest"
)

// BatchConfig selects the files a run picks up and where its manifest goes.
type BatchConfig struct {
	InputRoot     string
	OrganizedRoot string
	ManifestPath  string
	Extensions    []string // empty -> constants.DefaultExtensions
	Exclude       []string // doublestar globs matched against the slash path relative to InputRoot
	SkipHidden    bool
	DryRun        bool
}

// Failure is one file that could not be organized.
type Failure struct {
	Path string
	Err  error
}

// RunStats summarizes one batch run.
type RunStats struct {
	RunID     string
	Scanned   int // every file and directory visited
	Matched   int // files with a supported extension
	Organized int
	Skipped   int
	Failed    int
	Bytes     int64                              // total size of organized sources
	Breakdown map[constants.Grade]map[string]int // grade -> subject -> organized count
	Skips     []string
	Failures  []Failure
	Started   time.Time
	Finished  time.Time
}

// Processed is the number of files that reached a terminal outcome.
func (s RunStats) Processed() int {
	return s.Organized + s.Skipped + s.Failed
}

// RunResult is what Run hands back: the manifest records in discovery order
// plus statistics.
type RunResult struct {
	Records      []entity.OrganizedRecord
	Stats        RunStats
	ManifestPath string // empty when no manifest was written
}

// Batch walks the input tree sequentially and feeds each file to a Processor.
type Batch struct {
	cfg       BatchConfig
	processor *Processor
	exts      map[string]struct{}
	logger    *slog.Logger
}

func NewBatch(cfg BatchConfig, processor *Processor, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	processor.SetDryRun(cfg.DryRun)
	return &Batch{
		cfg:       cfg,
		processor: processor,
		exts:      constants.ExtensionSet(cfg.Extensions),
		logger:    logger,
	}
}

// Run organizes every matching file under the input root and, unless this
// is a dry run, writes the manifest once at the end. A missing input root
// is the only run-fatal condition; per-file problems are counted.
func (b *Batch) Run(ctx context.Context) (*RunResult, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = common.NewRunID()
		ctx = common.WithRunID(ctx, runID)
	}
	logger := common.LoggerFromContext(ctx, b.logger)

	root := b.cfg.InputRoot
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logger.Error("pipeline.run.input_missing", "input_root", root, "error", err)
		return nil, common.NewAppError("INPUT_ROOT_MISSING", root, common.ErrInputRootMissing)
	}

	result := &RunResult{
		Records: []entity.OrganizedRecord{},
		Stats: RunStats{
			RunID:     runID,
			Breakdown: make(map[constants.Grade]map[string]int),
			Started:   time.Now(),
		},
	}
	stats := &result.Stats
	skipDir := b.outputDir()

	logger.Info("pipeline.run.start",
		"input_root", root,
		"organized_root", b.cfg.OrganizedRoot,
		"dry_run", b.cfg.DryRun,
	)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warn("pipeline.walk.error", "path", path, "error", walkErr)
			stats.Failed++
			stats.Failures = append(stats.Failures, Failure{Path: path, Err: walkErr})
			return nil
		}
		if path != root && b.cfg.SkipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDir != "" && samePath(path, skipDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := b.exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		if b.excluded(path) {
			logger.Debug("pipeline.walk.excluded", "path", path)
			return nil
		}
		stats.Matched++

		outcome, rec, err := b.processor.ProcessFile(ctx, path)
		switch outcome {
		case constants.OutcomeOrganized:
			result.Records = append(result.Records, *rec)
			stats.Organized++
			if info, err := d.Info(); err == nil {
				stats.Bytes += info.Size()
			}
			bySubject, ok := stats.Breakdown[constants.Grade(rec.Grade)]
			if !ok {
				bySubject = make(map[string]int)
				stats.Breakdown[constants.Grade(rec.Grade)] = bySubject
			}
			bySubject[rec.Subject]++
		case constants.OutcomeSkipped:
			stats.Skipped++
			stats.Skips = append(stats.Skips, path)
		default:
			logger.Error("pipeline.file.failed", "path", path, "error", err)
			stats.Failed++
			stats.Failures = append(stats.Failures, Failure{Path: path, Err: err})
		}
		return nil
	})
	stats.Finished = time.Now()
	if err != nil {
		logger.Error("pipeline.run.aborted", "error", err, "processed", stats.Processed())
		return result, fmt.Errorf("walk: %w", err)
	}

	if !b.cfg.DryRun && b.cfg.ManifestPath != "" {
		if err := manifest.Write(b.cfg.ManifestPath, result.Records); err != nil {
			return result, fmt.Errorf("write manifest: %w", err)
		}
		result.ManifestPath = b.cfg.ManifestPath
	}

	logger.Info("pipeline.run.done",
		"matched", stats.Matched,
		"organized", stats.Organized,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration_ms", stats.Finished.Sub(stats.Started).Milliseconds(),
		"manifest", result.ManifestPath,
	)
	return result, nil
}

func (b *Batch) excluded(path string) bool {
	if len(b.cfg.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(b.cfg.InputRoot, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range b.cfg.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// outputDir is the organized root when it sits inside the input root, so
// copies made during the run are not walked again.
func (b *Batch) outputDir() string {
	if b.cfg.OrganizedRoot == "" {
		return ""
	}
	out, err := filepath.Abs(b.cfg.OrganizedRoot)
	if err != nil {
		return ""
	}
	in, err := filepath.Abs(b.cfg.InputRoot)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(in, out)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return out
}

func samePath(path, abs string) bool {
	p, err := filepath.Abs(path)
	return err == nil && p == abs
}

// isHidden checks if a file or directory is hidden (starts with '.').
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// IsInputRootMissing reports whether Run failed before processing anything.
func IsInputRootMissing(err error) bool {
	return errors.Is(err, common.ErrInputRootMissing)
}
