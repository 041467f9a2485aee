package model

import (
	"time"

	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// Coupon is admin-managed. The shopper flow only reads it; TimesUsed is
// incremented inside the order placement transaction.
type Coupon struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Code            string         `gorm:"uniqueIndex;not null" json:"code"` // stored upper-cased
	DiscountType    DiscountType   `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue   float64        `gorm:"not null" json:"discount_value"`
	StartsAt        time.Time      `gorm:"not null" json:"starts_at"`
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	UsageLimitTotal *int           `json:"usage_limit_total,omitempty"`
	TimesUsed       int            `gorm:"not null;default:0" json:"times_used"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// AppliedCoupon is the validated subset of a coupon held in the checkout
// session. It lives in Redis for the duration of the session and is never
// persisted to the database.
type AppliedCoupon struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
}
