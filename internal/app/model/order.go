package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type ShippingMethod string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// Order stores the pricing breakdown exactly as quoted at placement time:
// Subtotal + ShippingCost - DiscountAmount = TotalAmount.
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Subtotal        float64        `gorm:"not null" json:"subtotal"`
	ShippingCost    float64        `gorm:"not null" json:"shipping_cost"`
	DiscountAmount  float64        `gorm:"not null;default:0" json:"discount_amount"`
	DiscountCode    string         `gorm:"type:varchar(50)" json:"discount_code,omitempty"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	ShippingMethod  ShippingMethod `gorm:"type:varchar(20);default:'standard'" json:"shipping_method"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	Status          OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	CardLastFour    string         `gorm:"type:varchar(4)" json:"card_last_four,omitempty"`
	CardHolder      string         `gorm:"type:varchar(100)" json:"card_holder,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product attributes the shopper bought, so later
// catalog edits do not rewrite order history.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"`
	ProductID   uint           `gorm:"not null;index" json:"product_id"`
	ProductName string         `gorm:"not null" json:"product_name"`
	Brand       string         `json:"brand"`
	Size        string         `gorm:"not null" json:"size"`
	Color       string         `gorm:"not null;default:'Default'" json:"color"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   float64        `gorm:"not null" json:"unit_price"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
