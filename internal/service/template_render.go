package service

import (
	"strings"

	"github.com/GTDGit/warung_api/internal/models"
)

// Template placeholders. Matching is literal and case-sensitive.
const (
	PlaceholderShopName      = "{{shop_name}}"
	PlaceholderShopPhone     = "{{shop_phone}}"
	PlaceholderShopAddress   = "{{shop_address}}"
	PlaceholderCustomerName  = "{{customer_name}}"
	PlaceholderCustomerPhone = "{{customer_phone}}"
)

// DefaultTemplate is served when a store has not saved its own.
const DefaultTemplate = "Welcome to {{shop_name}}! 🎉\n\nWe're glad to have you here!\n\n📱 Contact: {{shop_phone}}\n📍 Address: {{shop_address}}\n\nFeel free to browse and order anytime!"

// Preview sample values.
const (
	previewShopName      = "[Shop Name]"
	previewShopPhone     = "[Phone]"
	previewShopAddress   = "[Address]"
	previewCustomerName  = "John Doe"
	previewCustomerPhone = "+919876543210"
)

// TemplateValues are the substitutions for one rendering.
type TemplateValues struct {
	ShopName      string
	ShopPhone     string
	ShopAddress   string
	CustomerName  string
	CustomerPhone string
}

// Render replaces every known placeholder in text. Unknown placeholders are
// left as written.
func Render(text string, v TemplateValues) string {
	pairs := [...][2]string{
		{PlaceholderShopName, v.ShopName},
		{PlaceholderShopPhone, v.ShopPhone},
		{PlaceholderShopAddress, v.ShopAddress},
		{PlaceholderCustomerName, v.CustomerName},
		{PlaceholderCustomerPhone, v.CustomerPhone},
	}
	for _, p := range pairs {
		text = strings.ReplaceAll(text, p[0], p[1])
	}
	return text
}

// StoreValues fills the shop fields from store, leaving customer fields empty.
func StoreValues(store *models.Store) TemplateValues {
	if store == nil {
		return TemplateValues{}
	}
	return TemplateValues{ShopName: store.Name, ShopPhone: store.Phone, ShopAddress: store.Address}
}

// PreviewValues are the values used for the settings preview: the store's own
// fields with bracketed fallbacks and a sample customer.
func PreviewValues(store *models.Store) TemplateValues {
	v := StoreValues(store)
	v.ShopName = fallback(v.ShopName, previewShopName)
	v.ShopPhone = fallback(v.ShopPhone, previewShopPhone)
	v.ShopAddress = fallback(v.ShopAddress, previewShopAddress)
	v.CustomerName = previewCustomerName
	v.CustomerPhone = previewCustomerPhone
	return v
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
