package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
)

// StoreLister lists the stores whose owner can receive bot messages.
type StoreLister interface {
	ListWithOwnerChat(ctx context.Context) ([]models.Store, error)
}

// Reporter sends the owner reports and alerts.
type Reporter interface {
	DailyReport(ctx context.Context, store *models.Store) (*models.DailySummary, error)
	LowStockAlert(ctx context.Context, store *models.Store) (int, error)
	CreditReminder(ctx context.Context, store *models.Store) (bool, error)
}

// storeJob runs one job for one store.
type storeJob func(ctx context.Context, store *models.Store) error

// forEachStore runs job for every store with an owner chat. A failing store
// is logged and the rest still run.
func forEachStore(ctx context.Context, stores StoreLister, name string, job storeJob) {
	start := time.Now()
	list, err := stores.ListWithOwnerChat(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", name).Msg("Failed to list stores")
		return
	}

	failed := 0
	for i := range list {
		if ctx.Err() != nil {
			return
		}
		if err := job(ctx, &list[i]); err != nil {
			failed++
			log.Error().Err(err).Str("job", name).Str("store_id", list[i].ID).Msg("Store job failed")
		}
	}

	log.Info().
		Str("job", name).
		Int("stores", len(list)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Store job completed")
}
