package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is a product review. One review per user per product.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"not null;index:idx_review_product_user,unique" json:"product_id"`
	UserID    uint           `gorm:"not null;index:idx_review_product_user,unique" json:"user_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1-5
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
