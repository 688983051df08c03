package catalog

import "time"

// Product is one row of the catalog. Optional text fields are empty when unset.
type Product struct {
	ID              int64     `json:"id"`
	Supplier        string    `json:"supplier"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	Image           string    `json:"image,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	Weight          string    `json:"weight,omitempty"`
	Ingredients     string    `json:"ingredients,omitempty"`
	Allergens       string    `json:"allergens,omitempty"`
	NutritionalInfo string    `json:"nutritional_info,omitempty"`
	Stock           int       `json:"stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PriceDisplay formats the price as major.minor, e.g. 3500 -> "35.00".
func (p Product) PriceDisplay() string {
	return FormatCents(p.PriceCents)
}

// SupplierGroup is the storefront listing unit.
type SupplierGroup struct {
	Supplier string    `json:"supplier"`
	Products []Product `json:"products"`
}
