package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// TemplateService is what SettingsHandler needs from the template service.
type TemplateService interface {
	Get(ctx context.Context, sess models.Session, storeID string) (*service.TemplateView, error)
	Save(ctx context.Context, sess models.Session, storeID, text string) (*service.TemplateView, error)
	Preview(ctx context.Context, sess models.Session, storeID, text string) (string, error)
}

// SettingsHandler serves the message template settings.
type SettingsHandler struct {
	templates TemplateService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(templates TemplateService) *SettingsHandler {
	return &SettingsHandler{templates: templates}
}

type templateRequest struct {
	TemplateText string `json:"templateText"`
}

// GetTemplate handles GET /api/owner/settings/:store_id/template.
func (h *SettingsHandler) GetTemplate(c *gin.Context) {
	view, err := h.templates.Get(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Template retrieved", view)
}

// SaveTemplate handles PUT /api/owner/settings/:store_id/template.
func (h *SettingsHandler) SaveTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	view, err := h.templates.Save(c.Request.Context(), currentSession(c), c.Param("store_id"), req.TemplateText)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Template saved", view)
}

// PreviewTemplate handles POST /api/owner/settings/:store_id/template/preview.
// An empty body previews the stored template.
func (h *SettingsHandler) PreviewTemplate(c *gin.Context) {
	var req templateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}

	text, err := h.templates.Preview(c.Request.Context(), currentSession(c), c.Param("store_id"), req.TemplateText)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Template preview", gin.H{"preview": text})
}
