package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountLimit caps the discount an employee may grant. A limit is scoped to
// either a role or an individual employee, and optionally narrowed to a
// product type. Exactly one of RoleID / EmployeeID must be set. A limit of 0
// is a real restriction, not an absence of one.
type DiscountLimit struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RoleID             *uint          `gorm:"index" json:"role_id,omitempty"`
	EmployeeID         *uuid.UUID     `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	ProductTypeID      *uuid.UUID     `gorm:"type:uuid;index" json:"product_type_id,omitempty"`
	MaxDiscountPercent float64        `gorm:"type:decimal(5,2);not null;check:max_discount_percent >= 0 AND max_discount_percent <= 100" json:"max_discount_percent"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Role        *Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Employee    *User        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ProductType *ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
}

// BeforeCreate generates a UUID before creating a new discount limit
func (d *DiscountLimit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountLimit model
func (DiscountLimit) TableName() string {
	return "discount_limits"
}
