package models

import "time"

// Product is a sellable item. Stock lives in the matching InventoryItem.
type Product struct {
	ID               string    `db:"id" json:"id"`
	StoreID          string    `db:"store_id" json:"storeId"`
	CategoryID       string    `db:"category_id" json:"categoryId"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description"`
	Unit             string    `db:"unit" json:"unit"`
	CostPrice        float64   `db:"cost_price" json:"costPrice"`
	SupplierName     string    `db:"supplier_name" json:"supplierName"`
	SupplierPhone    string    `db:"supplier_phone" json:"supplierPhone"`
	SupplierWhatsApp string    `db:"supplier_whatsapp" json:"supplierWhatsapp"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// InventoryItem is one inventory row joined with its product and category.
// Quantity is mutated independently of the product.
type InventoryItem struct {
	ID               string    `db:"id" json:"inventoryId"`
	StoreID          string    `db:"store_id" json:"storeId"`
	ProductID        string    `db:"product_id" json:"productId"`
	ProductName      string    `db:"product_name" json:"productName"`
	Description      string    `db:"description" json:"description"`
	Unit             string    `db:"unit" json:"unit"`
	CategoryName     string    `db:"category_name" json:"category"`
	SupplierName     string    `db:"supplier_name" json:"supplierName"`
	SupplierWhatsApp string    `db:"supplier_whatsapp" json:"supplierWhatsapp"`
	Quantity         float64   `db:"quantity" json:"quantity"`
	UnitPrice        float64   `db:"unit_price" json:"unitPrice"`
	ReorderThreshold float64   `db:"reorder_threshold" json:"reorderThreshold"`
	ReorderQuantity  float64   `db:"reorder_quantity" json:"reorderQuantity"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
