// Package cleanup runs a scheduled job that removes uploaded photo files
// no menu item references anymore.
package cleanup

import (
	"context"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"cardapio-go/internal/imaging"
	"cardapio-go/internal/storage"
	"cardapio-go/internal/store"
)

// Janitor schedules and runs orphaned upload cleanup.
type Janitor struct {
	items     *store.ItemStore
	bucket    *storage.Bucket
	processor *imaging.Processor
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a Janitor. Call Start to schedule it.
func New(items *store.ItemStore, bucket *storage.Bucket, processor *imaging.Processor, logger *slog.Logger) *Janitor {
	return &Janitor{
		items:     items,
		bucket:    bucket,
		processor: processor,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start schedules the cleanup job with the given cron expression.
func (j *Janitor) Start(schedule string) error {
	_, err := j.cron.AddFunc(schedule, func() {
		if err := j.Run(context.Background()); err != nil {
			j.logger.Error("upload cleanup failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("upload cleanup scheduled", "schedule", schedule)
	return nil
}

// Stop gracefully stops the scheduler.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("upload cleanup stopped")
}

// Run deletes every stored upload whose id is not referenced by any
// item's image URL. Deletion failures are logged per object and do not
// stop the sweep.
func (j *Janitor) Run(ctx context.Context) error {
	ids, err := j.bucket.ObjectIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	urls, err := j.items.ImageURLs(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, id := range ids {
		if referenced(urls, id) {
			continue
		}
		if err := j.processor.DeleteImageFiles(id); err != nil {
			j.logger.Warn("failed to delete orphaned upload", "id", id, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("removed orphaned uploads", "count", removed)
	}
	return nil
}

// referenced reports whether any image URL contains the upload id.
// URLs embed the id as a path segment, so substring matching on the
// UUID is unambiguous.
func referenced(urls []string, id string) bool {
	for _, u := range urls {
		if strings.Contains(u, id) {
			return true
		}
	}
	return false
}
