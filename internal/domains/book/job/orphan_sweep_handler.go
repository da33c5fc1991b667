package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/internal/shared"
)

const defaultOrphanMinAge = 24 * time.Hour

// MediaReferences lists the paths still referenced by live books.
type MediaReferences interface {
	ListMediaPaths(ctx context.Context) ([]string, error)
}

// OrphanSweepHandler removes stored covers and previews that no live book
// references, e.g. files left behind when a compensating delete failed
// and its retries were exhausted.
type OrphanSweepHandler struct {
	media *storage.MediaStore
	refs  MediaReferences
	now   func() time.Time
}

func NewOrphanSweepHandler(media *storage.MediaStore, refs MediaReferences) *OrphanSweepHandler {
	return &OrphanSweepHandler{media: media, refs: refs, now: time.Now}
}

// SweepResult summarises one sweep run.
type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}

func (h *OrphanSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SweepOrphanMediaPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal SweepOrphanMedia payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	minAge := defaultOrphanMinAge
	if payload.MinAgeHours > 0 {
		minAge = time.Duration(payload.MinAgeHours) * time.Hour
	}

	res, err := h.Sweep(ctx, minAge)
	if err != nil {
		log.Error().Err(err).Msg("Orphan media sweep failed")
		return err
	}

	log.Info().
		Int("scanned", res.Scanned).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Msg("Orphan media sweep finished")

	return nil
}

// Sweep deletes unreferenced objects older than minAge from both media buckets.
// Individual delete failures are counted and left for the next run.
func (h *OrphanSweepHandler) Sweep(ctx context.Context, minAge time.Duration) (SweepResult, error) {
	var res SweepResult

	paths, err := h.refs.ListMediaPaths(ctx)
	if err != nil {
		return res, fmt.Errorf("list referenced media: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	cutoff := h.now().Add(-minAge)

	for _, bucket := range []string{storage.BucketCovers, storage.BucketPreviews} {
		objects, err := h.media.List(ctx, bucket)
		if err != nil {
			return res, fmt.Errorf("list %s: %w", bucket, err)
		}

		for _, obj := range objects {
			res.Scanned++
			if _, ok := referenced[obj.Key]; ok {
				continue
			}
			if obj.LastModified.After(cutoff) {
				continue
			}

			if err := h.media.Delete(ctx, obj.Key); err != nil {
				res.Failed++
				log.Warn().Err(err).Str("path", obj.Key).Msg("Failed to delete orphan media")
				continue
			}
			res.Deleted++
		}
	}

	return res, nil
}
