package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// authorizeStore rejects requests for a store other than the session's.
func authorizeStore(sess models.Session, storeID string) error {
	if storeID == "" || sess.StoreID != storeID {
		return utils.ErrForbiddenStore
	}
	return nil
}

// invalidateStats drops cached dashboard stats after a write. A failure only
// leaves stale stats for the cache TTL.
func invalidateStats(ctx context.Context, cache StatsCache, storeID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, storeID); err != nil {
		log.Warn().Err(err).Str("store_id", storeID).Msg("failed to invalidate dashboard stats")
	}
}
