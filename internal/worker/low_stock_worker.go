package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
)

// LowStockAlertWorker periodically alerts owners about low-stock items.
type LowStockAlertWorker struct {
	stores   StoreLister
	reporter Reporter
	interval time.Duration
}

// NewLowStockAlertWorker constructs a LowStockAlertWorker.
func NewLowStockAlertWorker(stores StoreLister, reporter Reporter, interval time.Duration) *LowStockAlertWorker {
	return &LowStockAlertWorker{
		stores:   stores,
		reporter: reporter,
		interval: interval,
	}
}

// Start begins the alert loop and listens for context cancellation.
func (w *LowStockAlertWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Low stock alert worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting low stock alert worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Low stock alert worker stopped")
			return
		}
	}
}

func (w *LowStockAlertWorker) run(ctx context.Context) {
	forEachStore(ctx, w.stores, "low_stock_alert", func(ctx context.Context, store *models.Store) error {
		sent, err := w.reporter.LowStockAlert(ctx, store)
		if sent > 0 {
			log.Info().Str("store_id", store.ID).Int("alerts", sent).Msg("Low stock alerts sent")
		}
		return err
	})
}
