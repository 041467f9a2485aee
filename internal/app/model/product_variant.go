package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant is the inventory row for one sellable size of a product.
// Stock is tracked per (product, size); color is a display attribute on the
// cart line, not a stocked dimension.
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"not null;uniqueIndex:idx_variant_product_size" json:"product_id"`
	Size          string         `gorm:"not null;uniqueIndex:idx_variant_product_size" json:"size"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
