package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/sse"
	"github.com/GTDGit/warung_api/internal/utils"
)

// Product defaults applied when the form leaves them empty.
const (
	DefaultReorderThreshold = 10
	DefaultReorderQuantity  = 20
	DefaultUnit             = "kg"
)

// InventoryRow is an inventory item with its derived low-stock flag.
type InventoryRow struct {
	models.InventoryItem
	IsLowStock bool `json:"isLowStock"`
}

// InventoryList is the inventory page payload.
type InventoryList struct {
	Items         []InventoryRow `json:"items"`
	Count         int            `json:"count"`
	LowStockCount int            `json:"lowStockCount"`
}

// CreateProductRequest is the add-product form.
type CreateProductRequest struct {
	CategoryID       string   `json:"categoryId" binding:"required"`
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Unit             string   `json:"unit"`
	CostPrice        float64  `json:"costPrice" binding:"gte=0"`
	UnitPrice        float64  `json:"unitPrice" binding:"gte=0"`
	Quantity         float64  `json:"quantity" binding:"gte=0"`
	ReorderThreshold *float64 `json:"reorderThreshold" binding:"omitempty,gte=0"`
	ReorderQuantity  *float64 `json:"reorderQuantity" binding:"omitempty,gte=0"`
	SupplierName     string   `json:"supplierName"`
	SupplierPhone    string   `json:"supplierPhone"`
	SupplierWhatsApp string   `json:"supplierWhatsapp"`
}

// InventoryService manages products, categories and stock levels.
type InventoryService struct {
	inventory  InventoryStore
	categories CategoryStore
	products   ProductStore
	events     sse.StoreNotifier
	stats      StatsCache
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(inventory InventoryStore, categories CategoryStore, products ProductStore, events sse.StoreNotifier, stats StatsCache) *InventoryService {
	if events == nil {
		events = &sse.NopNotifier{}
	}
	return &InventoryService{inventory: inventory, categories: categories, products: products, events: events, stats: stats}
}

// List returns the store's inventory with low-stock flags.
func (s *InventoryService) List(ctx context.Context, sess models.Session, storeID string) (*InventoryList, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	items, err := s.inventory.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	out := &InventoryList{Items: make([]InventoryRow, 0, len(items)), Count: len(items)}
	for _, it := range items {
		low := IsLowStock(it.Quantity, it.ReorderThreshold)
		if low {
			out.LowStockCount++
		}
		out.Items = append(out.Items, InventoryRow{InventoryItem: it, IsLowStock: low})
	}
	return out, nil
}

// ListCategories returns the store's categories.
func (s *InventoryService) ListCategories(ctx context.Context, sess models.Session, storeID string) ([]models.Category, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	cats, err := s.categories.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// CreateCategory adds a category. Names are unique per store.
func (s *InventoryService) CreateCategory(ctx context.Context, sess models.Session, storeID, name string) (*models.Category, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrInvalidInput
	}
	c := &models.Category{StoreID: storeID, Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateProduct adds a product and its inventory row.
func (s *InventoryService) CreateProduct(ctx context.Context, sess models.Session, storeID string, req CreateProductRequest) (*InventoryRow, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.ErrInvalidInput
	}
	if negative(req.Quantity, req.UnitPrice, req.CostPrice) {
		return nil, utils.ErrInvalidQuantity
	}
	cat, err := s.categories.GetByID(ctx, storeID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	threshold := float64(DefaultReorderThreshold)
	if req.ReorderThreshold != nil {
		threshold = *req.ReorderThreshold
	}
	reorderQty := float64(DefaultReorderQuantity)
	if req.ReorderQuantity != nil {
		reorderQty = *req.ReorderQuantity
	}
	if negative(threshold, reorderQty) {
		return nil, utils.ErrInvalidQuantity
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	p := &models.Product{
		StoreID:          storeID,
		CategoryID:       cat.ID,
		Name:             name,
		Description:      strings.TrimSpace(req.Description),
		Unit:             unit,
		CostPrice:        req.CostPrice,
		SupplierName:     strings.TrimSpace(req.SupplierName),
		SupplierPhone:    strings.TrimSpace(req.SupplierPhone),
		SupplierWhatsApp: strings.TrimSpace(req.SupplierWhatsApp),
	}
	item := &models.InventoryItem{
		Quantity:         req.Quantity,
		UnitPrice:        req.UnitPrice,
		ReorderThreshold: threshold,
		ReorderQuantity:  reorderQty,
	}
	if err := s.products.CreateWithInventory(ctx, p, item); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	item.ProductName = p.Name
	item.Description = p.Description
	item.Unit = p.Unit
	item.CategoryName = cat.Name
	item.SupplierName = p.SupplierName
	item.SupplierWhatsApp = p.SupplierWhatsApp

	row := &InventoryRow{InventoryItem: *item, IsLowStock: IsLowStock(item.Quantity, item.ReorderThreshold)}
	invalidateStats(ctx, s.stats, storeID)
	s.events.NotifyInventoryUpdated(item, row.IsLowStock)
	return row, nil
}

// UpdateQuantity sets the stock level of an inventory row.
func (s *InventoryService) UpdateQuantity(ctx context.Context, sess models.Session, storeID, inventoryID string, quantity float64) (*InventoryRow, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	if negative(quantity) {
		return nil, utils.ErrInvalidQuantity
	}
	if err := s.inventory.UpdateQuantity(ctx, storeID, inventoryID, quantity); err != nil {
		return nil, err
	}
	item, err := s.inventory.GetByID(ctx, storeID, inventoryID)
	if err != nil {
		return nil, err
	}

	row := &InventoryRow{InventoryItem: *item, IsLowStock: IsLowStock(item.Quantity, item.ReorderThreshold)}
	invalidateStats(ctx, s.stats, storeID)
	s.events.NotifyInventoryUpdated(item, row.IsLowStock)
	return row, nil
}

func negative(vals ...float64) bool {
	for _, v := range vals {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
