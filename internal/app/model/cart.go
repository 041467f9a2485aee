package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultColor is the sentinel colorway for products added without an
// explicit color selection.
const DefaultColor = "Default"

type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Size      string         `gorm:"not null" json:"size"`
	Color     string         `gorm:"not null;default:'Default'" json:"color"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64        `gorm:"not null" json:"unit_price"` // captured at add time
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
