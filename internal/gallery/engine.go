package gallery

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
	"waifud/internal/models"
	"waifud/internal/providers"
	"waifud/internal/structures"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const baseFileName = "common_bw_gallery.png"

type CatalogInterface interface {
	List() ([]string, error)
	Path(key string) string
}

type LedgerInterface interface {
	Load(groupID string) (models.GroupConfig, error)
}

// Engine orchestrates gallery builds around one shared grayscale base canvas:
// the full catalog rendered desaturated, built lazily when its file is absent
// and reused by every group afterwards. Per-group renders clone the base and
// overlay full-color tiles for the group's unlocked items; the base file
// itself is never written by a per-group render.
//
// The base implicitly snapshots the catalog at first build. Items added later
// do not appear until the base file is removed (InvalidateBase); this
// staleness is accepted, not auto-detected.
type Engine struct {
	catalog    CatalogInterface
	ledger     LedgerInterface
	norm       *Normalizer
	comp       *Compositor
	basePath   string
	outDir     string
	maxAgeDays int
	sem        *semaphore.Weighted
	baseGroup  singleflight.Group
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewEngine(conf *structures.Config, cat CatalogInterface, led LedgerInterface, norm *Normalizer, comp *Compositor, logger providers.Logger, metrics providers.MetricsProviderInterface) *Engine {
	workers := conf.Gallery.Workers
	if workers < 2 {
		workers = 2
	}
	return &Engine{
		catalog:    cat,
		ledger:     led,
		norm:       norm,
		comp:       comp,
		basePath:   filepath.Join(conf.Store.BaseDir, baseFileName),
		outDir:     conf.Store.GalleryDir,
		maxAgeDays: conf.Gallery.MaxAgeDays,
		sem:        semaphore.NewWeighted(int64(workers)),
		logger:     logger,
		metrics:    metrics,
	}
}

// GroupGallery renders the group's gallery file and returns its path.
func (e *Engine) GroupGallery(ctx context.Context, groupID string) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)
	start := time.Now()

	items, err := e.catalog.List()
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: no items to compose", models.ErrStoreUnavailable)
	}

	if err := e.ensureBase(items); err != nil {
		return "", err
	}
	base, err := imaging.Open(e.basePath)
	if err != nil {
		return "", fmt.Errorf("open base gallery: %w", err)
	}
	canvas := imaging.Clone(base)

	cfg, err := e.ledger.Load(groupID)
	if err != nil {
		// A corrupt group file means no unlocks, not a failed render.
		if !errors.Is(err, models.ErrConfigCorrupt) {
			return "", err
		}
		cfg = models.GroupConfig{}
	}
	union := cfg.UnlockedUnion()

	unlocked := 0
	for i, key := range items {
		if _, ok := union[key]; !ok {
			continue
		}
		unlocked++
		canvas = e.comp.PasteTile(canvas, e.norm.NormalizeFile(e.catalog.Path(key)), i)
	}

	title := fmt.Sprintf("Group %s - unlocked %d/%d", groupID, unlocked, len(items))
	canvas = e.comp.AddTitleBar(canvas, title)

	out := filepath.Join(e.outDir, "gallery_"+groupID+".png")
	if err := savePNGAtomic(out, canvas); err != nil {
		return "", err
	}

	e.metrics.IncGalleryBuilds("group")
	e.metrics.ObserveGalleryBuildDuration("group", time.Since(start))
	e.logger.Infof(providers.TypeApp, "Composed gallery for group %s (%d/%d unlocked)", groupID, unlocked, len(items))
	return out, nil
}

// PersonalGallery renders a full-color grid of exactly the user's unlocked
// items, in unlock order, without touching the shared base.
func (e *Engine) PersonalGallery(ctx context.Context, groupID, userID string) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)
	start := time.Now()

	cfg, err := e.ledger.Load(groupID)
	if err != nil {
		return "", err
	}
	rec := cfg[userID]
	if rec == nil || len(rec.Unlocked) == 0 {
		return "", models.ErrNoRecord
	}

	tiles := make([]*image.NRGBA, 0, len(rec.Unlocked))
	for _, entry := range rec.Unlocked {
		tiles = append(tiles, e.norm.NormalizeFile(e.catalog.Path(entry.ItemKey)))
	}
	canvas := e.comp.Compose(tiles)

	owner := rec.Nickname
	if owner == "" {
		owner = userID
	}
	title := fmt.Sprintf("%s - collection %d/%d", owner, len(tiles), len(tiles))
	canvas = e.comp.AddTitleBar(canvas, title)

	out := filepath.Join(e.outDir, "personal_gallery_"+userID+".png")
	if err := savePNGAtomic(out, canvas); err != nil {
		return "", err
	}

	e.metrics.IncGalleryBuilds("personal")
	e.metrics.ObserveGalleryBuildDuration("personal", time.Since(start))
	return out, nil
}

// ensureBase builds the shared base iff its file is absent. Racing builders
// are collapsed; two that slip through write the same deterministic content,
// so last writer wins without corruption.
func (e *Engine) ensureBase(items []string) error {
	if _, err := os.Stat(e.basePath); err == nil {
		return nil
	}
	_, err, _ := e.baseGroup.Do("base", func() (any, error) {
		return nil, e.buildBase(items)
	})
	return err
}

func (e *Engine) buildBase(items []string) error {
	start := time.Now()
	tiles := make([]*image.NRGBA, 0, len(items))
	for _, key := range items {
		tiles = append(tiles, e.norm.Desaturate(e.norm.NormalizeFile(e.catalog.Path(key))))
	}
	canvas := e.comp.Compose(tiles)

	if err := os.MkdirAll(filepath.Dir(e.basePath), 0o755); err != nil {
		return err
	}
	if err := savePNGAtomic(e.basePath, canvas); err != nil {
		return err
	}

	e.metrics.IncGalleryBuilds("base")
	e.metrics.ObserveGalleryBuildDuration("base", time.Since(start))
	e.logger.Infof(providers.TypeApp, "Built shared base gallery with %d items", len(items))
	return nil
}

// InvalidateBase removes the shared base so the next render snapshots the
// catalog afresh. The only supported invalidation.
func (e *Engine) InvalidateBase() error {
	err := os.Remove(e.basePath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CleanupOutputs deletes output images older than maxAgeDays by modification
// time. Individual failures are logged and skipped, never abort the sweep.
func (e *Engine) CleanupOutputs() (int, error) {
	entries, err := os.ReadDir(e.outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-time.Duration(e.maxAgeDays) * 24 * time.Hour)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			e.logger.Warnf(providers.TypeApp, "Cleanup stat %s: %s", entry.Name(), err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(e.outDir, entry.Name())); err != nil {
			e.logger.Warnf(providers.TypeApp, "Cleanup remove %s: %s", entry.Name(), err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		e.metrics.AddCleanupDeleted(deleted)
		e.logger.Infof(providers.TypeApp, "Cleanup removed %d gallery outputs", deleted)
	}
	return deleted, nil
}

func savePNGAtomic(fileName string, img *image.NRGBA) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}
	if err := imaging.Encode(file, img, imaging.PNG); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, fileName)
}
