package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryRunning    ProductCategory = "running"
	CategoryBasketball ProductCategory = "basketball"
	CategoryLifestyle  ProductCategory = "lifestyle"
	CategorySkate      ProductCategory = "skate"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Brand       string          `gorm:"not null;index" json:"brand"`
	Description string          `gorm:"type:text" json:"description"`
	Price       float64         `gorm:"not null" json:"price"`
	Category    ProductCategory `gorm:"type:varchar(50)" json:"category"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CartItems  []CartItem       `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem      `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
