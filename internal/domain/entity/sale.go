package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale represents a submitted sale (draft, proforma or invoice). All monetary
// aggregates are stored in cents and recomputed server-side from the items at
// submission; they are never taken from the client.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	SaleDate      time.Time       `gorm:"type:date;not null" json:"sale_date"`
	SaleType      enum.SaleType   `gorm:"default:0" json:"sale_type"`
	Status        enum.SaleStatus `gorm:"default:0" json:"status"`
	InvoiceNo     string          `gorm:"size:100;unique;not null" json:"invoice_no"`
	TotalItems    int             `gorm:"default:0" json:"total_items"`
	Subtotal      int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountTotal int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TaxTotal      int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	GrandTotal    int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Employee  User       `gorm:"foreignKey:EmployeeID" json:"-"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Warehouse Warehouse  `gorm:"foreignKey:WarehouseID" json:"-"`
	Items     []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal      float64 `json:"subtotal"`
		DiscountTotal float64 `json:"discount_total"`
		TaxTotal      float64 `json:"tax_total"`
		GrandTotal    float64 `json:"grand_total"`
	}{
		Alias:         Alias(s),
		Subtotal:      float64(s.Subtotal) / 100,
		DiscountTotal: float64(s.DiscountTotal) / 100,
		TaxTotal:      float64(s.TaxTotal) / 100,
		GrandTotal:    float64(s.GrandTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// IsDeliverable reports whether the sale can still be confirmed as delivered.
func (s *Sale) IsDeliverable() bool {
	return s.SaleType == enum.SaleTypeInvoice && s.Status == enum.SaleStatusPending
}

// SaleItem represents one line of a submitted sale. UnitPrice and LineTotal
// are stored in cents; the percentages keep their decimal form so the pricing
// decomposition can be replayed from the stored row.
type SaleItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	UnitPrice       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	DiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	TaxRatePercent  float64        `gorm:"type:decimal(5,2);default:0" json:"tax_rate_percent"`
	LineTotal       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		LineTotal: float64(si.LineTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
