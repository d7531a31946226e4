package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// DashboardService is what DashboardHandler needs.
type DashboardService interface {
	Stats(ctx context.Context, sess models.Session, storeID string) (*service.DashboardStats, error)
}

// CreditService is what CreditHandler needs.
type CreditService interface {
	Summary(ctx context.Context, sess models.Session, storeID string) (*service.CreditSummary, error)
}

// DashboardHandler serves the dashboard and credit pages.
type DashboardHandler struct {
	dashboard DashboardService
	credit    CreditService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard DashboardService, credit CreditService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, credit: credit}
}

// Stats handles GET /api/owner/dashboard/:store_id.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Dashboard stats retrieved", stats)
}

// Credit handles GET /api/owner/credit/:store_id.
func (h *DashboardHandler) Credit(c *gin.Context) {
	summary, err := h.credit.Summary(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Credit summary retrieved", summary)
}
