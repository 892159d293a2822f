package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type ProductKind string

const (
	ProductKindPhysical ProductKind = "PHYSICAL"
	ProductKindDigital  ProductKind = "DIGITAL"
)

// PhysicalDetails is the kind-specific payload for shippable goods.
type PhysicalDetails struct {
	WeightKG          float64 `json:"weightKg"`
	Dimensions        string  `json:"dimensions"`
	WarehouseLocation string  `json:"warehouseLocation"`
}

// DigitalDetails is the kind-specific payload for downloadable goods.
type DigitalDetails struct {
	FileFormat    string  `json:"fileFormat"`
	FileSizeMB    float64 `json:"fileSizeMb"`
	DownloadURL   string  `json:"downloadUrl"`
	DownloadLimit int32   `json:"downloadLimit"`
}

// Product is the catalog entry the checkout workflow reads and whose stock it
// decrements. Exactly one of Physical/Digital is set, according to Kind.
// Deactivated products behave as missing at every read boundary.
type Product struct {
	ID          uint64
	Name        string
	Description string
	Category    string
	Image       string
	Price       decimal.Decimal
	Discount    decimal.NullDecimal
	Stock       int32
	Kind        ProductKind
	Physical    *PhysicalDetails
	Digital     *DigitalDetails
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectivePrice returns the price actually charged per unit: the discount
// when one is set and strictly below the list price, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.Discount.Valid && p.Discount.Decimal.Cmp(p.Price) < 0 {
		return p.Discount.Decimal
	}
	return p.Price
}
