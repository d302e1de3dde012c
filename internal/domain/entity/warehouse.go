package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warehouse represents a physical store or storage location. Stock figures
// are warehouse-scoped, so the sale-entry catalog is loaded per warehouse.
type Warehouse struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Location  *string        `gorm:"type:text" json:"location,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Stock []WarehouseStock `gorm:"foreignKey:WarehouseID" json:"-"`
	Sales []Sale           `gorm:"foreignKey:WarehouseID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new warehouse
func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Warehouse model
func (Warehouse) TableName() string {
	return "warehouses"
}

// WarehouseStock tracks the on-hand quantity of one product in one warehouse.
type WarehouseStock struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	WarehouseID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product" json:"warehouse_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product" json:"product_id"`
	Quantity    int            `gorm:"default:0" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"-"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock row
func (s *WarehouseStock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WarehouseStock model
func (WarehouseStock) TableName() string {
	return "warehouse_stock"
}
