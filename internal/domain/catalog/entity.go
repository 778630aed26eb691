// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Errors
// ========================================

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrColorNotFound     = errors.New("catalog: color not found")
	ErrVariantNotFound   = errors.New("catalog: variant not found")
	ErrInvalidID         = errors.New("catalog: invalid id")
	ErrInvalidOwnerID    = errors.New("catalog: invalid ownerId")
	ErrInvalidSKU        = errors.New("catalog: invalid sku")
	ErrInvalidName       = errors.New("catalog: invalid name")
	ErrInvalidPrice      = errors.New("catalog: price must be >= cost and >= 0")
	ErrInvalidStock      = errors.New("catalog: stock must be >= 0")
	ErrInvalidProductRef = errors.New("catalog: invalid productId")
	ErrConflict          = errors.New("catalog: conflict")
)

// ========================================
// Entities
// ========================================

// Product is a catalog item. Stock is authoritative only while the product
// has no variants and no active colors; otherwise it is derived (see service.go).
// Price and Cost are minor units (cents).
type Product struct {
	ID          string
	OwnerID     string
	SKU         string
	Name        string
	Price       int64
	Cost        int64
	TracksStock bool
	Stock       int
	MinStock    int
	UnitsSold   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ColorVariant carries its own stock counter plus a reserved counter for
// unpaid layaway holds.
type ColorVariant struct {
	ID        string
	ProductID string
	Name      string
	HexCode   string
	Stock     int
	Reserved  int
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttributeVariant is a size/capacity style variant. PriceExtra (cents) is
// added to the product price when the variant is sold.
type AttributeVariant struct {
	ID         string
	ProductID  string
	Name       string
	Value      string
	SKU        string
	PriceExtra int64
	Stock      int
	Reserved   int
	Position   int
}

// ========================================
// Constructors
// ========================================

func NewProduct(
	id, ownerID, sku, name string,
	price, cost int64,
	tracksStock bool,
	stock, minStock int,
	now time.Time,
) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		OwnerID:     strings.TrimSpace(ownerID),
		SKU:         strings.TrimSpace(sku),
		Name:        strings.TrimSpace(name),
		Price:       price,
		Cost:        cost,
		TracksStock: tracksStock,
		Stock:       stock,
		MinStock:    minStock,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func NewColorVariant(id, productID, name, hexCode string, stock, position int, active bool, now time.Time) (ColorVariant, error) {
	c := ColorVariant{
		ID:        strings.TrimSpace(id),
		ProductID: strings.TrimSpace(productID),
		Name:      strings.TrimSpace(name),
		HexCode:   strings.TrimSpace(hexCode),
		Stock:     stock,
		Position:  position,
		Active:    active,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if c.ID == "" {
		return ColorVariant{}, ErrInvalidID
	}
	if c.ProductID == "" {
		return ColorVariant{}, ErrInvalidProductRef
	}
	if c.Name == "" {
		return ColorVariant{}, ErrInvalidName
	}
	if c.Stock < 0 {
		return ColorVariant{}, ErrInvalidStock
	}
	return c, nil
}

func NewAttributeVariant(id, productID, name, value, sku string, priceExtra int64, stock, position int) (AttributeVariant, error) {
	v := AttributeVariant{
		ID:         strings.TrimSpace(id),
		ProductID:  strings.TrimSpace(productID),
		Name:       strings.TrimSpace(name),
		Value:      strings.TrimSpace(value),
		SKU:        strings.TrimSpace(sku),
		PriceExtra: priceExtra,
		Stock:      stock,
		Position:   position,
	}
	if v.ID == "" {
		return AttributeVariant{}, ErrInvalidID
	}
	if v.ProductID == "" {
		return AttributeVariant{}, ErrInvalidProductRef
	}
	if v.Name == "" {
		return AttributeVariant{}, ErrInvalidName
	}
	if v.Stock < 0 {
		return AttributeVariant{}, ErrInvalidStock
	}
	return v, nil
}

// ========================================
// Behavior
// ========================================

// Available is the sellable quantity: stock minus layaway holds.
func (c ColorVariant) Available() int { return c.Stock - c.Reserved }

func (v AttributeVariant) Available() int { return v.Stock - v.Reserved }

// LowStock reports whether the total counter has reached the alert threshold.
func (p Product) LowStock() bool {
	return p.TracksStock && p.Stock <= p.MinStock
}

// Sellable reports whether the product can be sold at all.
func (p Product) Sellable() bool {
	return !p.TracksStock || p.Stock > 0
}

// MarginPercent returns the gain over cost in percent, 0 when cost is unset.
func (p Product) MarginPercent() float64 {
	if p.Cost <= 0 {
		return 0
	}
	return float64(p.Price-p.Cost) / float64(p.Cost) * 100
}

// ========================================
// Validation
// ========================================

func (p Product) validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.OwnerID == "" {
		return ErrInvalidOwnerID
	}
	if p.SKU == "" {
		return ErrInvalidSKU
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Price < 0 || p.Price < p.Cost {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
