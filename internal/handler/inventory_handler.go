package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// InventoryService is what InventoryHandler needs from the inventory service.
type InventoryService interface {
	List(ctx context.Context, sess models.Session, storeID string) (*service.InventoryList, error)
	ListCategories(ctx context.Context, sess models.Session, storeID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, sess models.Session, storeID, name string) (*models.Category, error)
	CreateProduct(ctx context.Context, sess models.Session, storeID string, req service.CreateProductRequest) (*service.InventoryRow, error)
	UpdateQuantity(ctx context.Context, sess models.Session, storeID, inventoryID string, quantity float64) (*service.InventoryRow, error)
}

// InventoryHandler serves inventory, products and categories.
type InventoryHandler struct {
	inventory InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /api/owner/inventory/:store_id.
func (h *InventoryHandler) List(c *gin.Context) {
	res, err := h.inventory.List(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Inventory retrieved", res)
}

// CreateProduct handles POST /api/owner/inventory/:store_id/products.
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	row, err := h.inventory.CreateProduct(c.Request.Context(), currentSession(c), c.Param("store_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Product created", row)
}

// UpdateQuantity handles PUT /api/owner/inventory/:store_id/items/:id/quantity.
// The quantity may arrive as a number or a numeric string.
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, utils.ErrNotFound)
		return
	}
	var req struct {
		Quantity any `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.ErrInvalidQuantity)
		return
	}

	quantity, err := service.ParseQuantity(req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	row, err := h.inventory.UpdateQuantity(c.Request.Context(), currentSession(c), c.Param("store_id"), id, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Quantity updated", row)
}

// ListCategories handles GET /api/owner/categories/:store_id.
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.inventory.ListCategories(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Categories retrieved", categories)
}

// CreateCategory handles POST /api/owner/categories/:store_id.
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Category name is required")
		return
	}

	category, err := h.inventory.CreateCategory(c.Request.Context(), currentSession(c), c.Param("store_id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Category created", category)
}
