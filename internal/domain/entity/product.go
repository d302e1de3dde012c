package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog product. Prices are stored in cents; MinPrice
// and MaxPrice are advisory bounds for operator overrides at sale entry and
// are not enforced by the server.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductTypeID *uuid.UUID     `gorm:"type:uuid;index" json:"product_type_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;unique;not null" json:"slug"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Price         int64          `gorm:"default:0" json:"-"` // Stored in cents
	MinPrice      int64          `gorm:"default:0" json:"-"` // Stored in cents
	MaxPrice      int64          `gorm:"default:0" json:"-"` // Stored in cents
	TaxRate       float64        `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	ProductImage  *string        `gorm:"size:255" json:"product_image,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	ProductType *ProductType     `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	Stock       []WarehouseStock `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// GetMinPriceDecimal returns the minimum advisory price as a decimal
func (p *Product) GetMinPriceDecimal() float64 {
	return float64(p.MinPrice) / 100
}

// GetMaxPriceDecimal returns the maximum advisory price as a decimal
func (p *Product) GetMaxPriceDecimal() float64 {
	return float64(p.MaxPrice) / 100
}

// SetPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price * 100)
}

// SetMinPriceFromDecimal sets the minimum advisory price from a decimal value
func (p *Product) SetMinPriceFromDecimal(price float64) {
	p.MinPrice = int64(price * 100)
}

// SetMaxPriceFromDecimal sets the maximum advisory price from a decimal value
func (p *Product) SetMaxPriceFromDecimal(price float64) {
	p.MaxPrice = int64(price * 100)
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price    float64 `json:"price"`
		MinPrice float64 `json:"min_price"`
		MaxPrice float64 `json:"max_price"`
	}{
		Alias:    Alias(p),
		Price:    p.GetPriceDecimal(),
		MinPrice: p.GetMinPriceDecimal(),
		MaxPrice: p.GetMaxPriceDecimal(),
	})
}

// ProductType represents a product category. Discount limits may be scoped to
// a product type, so the type on a sale line drives the ceiling lookup.
type ProductType struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:ProductTypeID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product type
func (t *ProductType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductType model
func (ProductType) TableName() string {
	return "product_types"
}
