package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/pricing"
	"github.com/abu0505/tokyo-shoes-sub000/internal/stock"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrInvalidShippingMethod   = errors.New("unknown shipping method")
)

// StockIssuesError reports the cart lines that cannot be fulfilled at
// their requested quantities. Checkout is blocked until the shopper
// resolves every issue.
type StockIssuesError struct {
	Issues map[uint]stock.Issue
}

func (e *StockIssuesError) Error() string {
	return fmt.Sprintf("%d cart lines have stock issues", len(e.Issues))
}

// Quote is the priced cart breakdown shown before payment.
type Quote struct {
	Items          []model.CartItem `json:"items"`
	Subtotal       float64          `json:"subtotal"`
	ShippingCost   float64          `json:"shipping_cost"`
	DiscountAmount float64          `json:"discount_amount"`
	DiscountCode   string           `json:"discount_code,omitempty"`
	Total          float64          `json:"total"`
}

// PlaceOrderInput carries the shopper's checkout form.
type PlaceOrderInput struct {
	ShippingMethod  model.ShippingMethod
	ShippingAddress string
	CardNumber      string
	CardHolder      string
}

type CheckoutService interface {
	Reconcile(ctx context.Context, userID uint) (map[uint]stock.Issue, error)
	QuoteCart(ctx context.Context, userID uint, method model.ShippingMethod) (*Quote, error)
	PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error)
}

type checkoutService struct {
	cartRepo   repository.CartRepository
	couponRepo repository.CouponRepository
	orderRepo  repository.OrderRepository
	sessions   CouponSessionStore
	reconciler *stock.Reconciler
	rates      pricing.Rates
	db         *gorm.DB
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	sessions CouponSessionStore,
	reconciler *stock.Reconciler,
	rates pricing.Rates,
	db *gorm.DB,
) CheckoutService {
	return &checkoutService{
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
		sessions:   sessions,
		reconciler: reconciler,
		rates:      rates,
		db:         db,
	}
}

// Reconcile checks every cart line against live inventory and reports the
// unsatisfiable ones. An empty map means checkout may proceed.
func (s *checkoutService) Reconcile(ctx context.Context, userID uint) (map[uint]stock.Issue, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	return s.reconciler.Reconcile(ctx, stockLines(cartItems))
}

// QuoteCart prices the cart for the chosen shipping method, with the
// session's applied coupon folded in. Amounts are rounded to two decimal
// places for display.
func (s *checkoutService) QuoteCart(ctx context.Context, userID uint, method model.ShippingMethod) (*Quote, error) {
	shippingMethod, err := pricingMethod(method)
	if err != nil {
		return nil, err
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	applied, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := pricing.Quote(s.rates, pricingLines(cartItems), shippingMethod, pricingCoupon(applied)).Display()
	return &Quote{
		Items:          cartItems,
		Subtotal:       result.Subtotal.InexactFloat64(),
		ShippingCost:   result.ShippingCost.InexactFloat64(),
		DiscountAmount: result.DiscountAmount.InexactFloat64(),
		DiscountCode:   result.DiscountCode,
		Total:          result.Total.InexactFloat64(),
	}, nil
}

// PlaceOrder turns the cart into an order. Inside one transaction it
// re-verifies stock under row locks, revalidates and redeems the applied
// coupon, decrements inventory, and writes the order with the final quote
// forwarded field by field. The cart is cleared on success and the coupon
// session only after commit.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error) {
	shippingMethod, err := pricingMethod(input.ShippingMethod)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, ErrShippingAddressRequired
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	applied, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Placing order", map[string]interface{}{
		"user_id":         userID,
		"item_count":      len(cartItems),
		"shipping_method": input.ShippingMethod,
		"coupon_applied":  applied != nil,
	})

	// Color-only lines share one inventory row, so demand is summed per
	// (product, size) before it is checked and decremented.
	type variantKey struct {
		productID uint
		size      string
	}
	demand := make(map[variantKey]int, len(cartItems))
	keys := make([]variantKey, 0, len(cartItems))
	for _, item := range cartItems {
		key := variantKey{item.ProductID, item.Size}
		if _, seen := demand[key]; !seen {
			keys = append(keys, key)
		}
		demand[key] += item.Quantity
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-verify stock under row locks so two concurrent checkouts
		// cannot both take the last pair.
		availability := make(map[variantKey]int, len(keys))
		variantIDs := make(map[variantKey]uint, len(keys))
		for _, key := range keys {
			var variant model.ProductVariant
			lockErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("product_id = ? AND size = ?", key.productID, key.size).
				First(&variant).Error
			if lockErr != nil {
				if errors.Is(lockErr, gorm.ErrRecordNotFound) {
					availability[key] = 0
					continue
				}
				return lockErr
			}
			availability[key] = variant.StockQuantity
			variantIDs[key] = variant.ID
		}

		issues := make(map[uint]stock.Issue)
		for _, item := range cartItems {
			key := variantKey{item.ProductID, item.Size}
			switch avail := availability[key]; {
			case avail == 0:
				issues[item.ID] = stock.Issue{Type: stock.IssueSoldOut, Available: 0}
			case avail < demand[key]:
				issues[item.ID] = stock.Issue{Type: stock.IssueInsufficient, Available: avail}
			}
		}
		if len(issues) > 0 {
			return &StockIssuesError{Issues: issues}
		}

		// Revalidate the applied coupon against its current row; it may
		// have expired or hit its limit since it was applied.
		var coupon *model.Coupon
		if applied != nil {
			coupon, err = s.validateCouponInTx(tx, applied.Code)
			if err != nil {
				return err
			}
			if err := s.couponRepo.IncrementUsage(tx, coupon.ID); err != nil {
				return err
			}
		}

		for _, key := range keys {
			// The row is locked, so the guard only trips if something
			// outside this transaction broke the invariant; stock must
			// never go negative.
			res := tx.Model(&model.ProductVariant{}).
				Where("id = ? AND stock_quantity >= ?", variantIDs[key], demand[key]).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", demand[key]))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("stock changed while placing order: product %d size %s", key.productID, key.size)
			}
		}

		result := pricing.Quote(s.rates, pricingLines(cartItems), shippingMethod, pricingCoupon(applied)).Display()

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Brand:       item.Product.Brand,
				Size:        item.Size,
				Color:       item.Color,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}

		order = &model.Order{
			OrderNumber:     newOrderNumber(),
			UserID:          userID,
			Subtotal:        result.Subtotal.InexactFloat64(),
			ShippingCost:    result.ShippingCost.InexactFloat64(),
			DiscountAmount:  result.DiscountAmount.InexactFloat64(),
			DiscountCode:    result.DiscountCode,
			TotalAmount:     result.Total.InexactFloat64(),
			ShippingMethod:  input.ShippingMethod,
			ShippingAddress: input.ShippingAddress,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusCompleted,
			CardLastFour:    cardLastFour(input.CardNumber),
			CardHolder:      input.CardHolder,
			OrderItems:      orderItems,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	// Best effort: a stale session coupon expires with its TTL anyway.
	if applied != nil {
		if clearErr := s.sessions.Clear(ctx, userID); clearErr != nil {
			logger.Warn("Failed to clear coupon session after order", map[string]interface{}{
				"user_id": userID,
				"error":   clearErr.Error(),
			})
		}
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount,
	})
	return order, nil
}

func (s *checkoutService) validateCouponInTx(tx *gorm.DB, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", strings.ToUpper(code)).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	now := time.Now()
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if now.Before(coupon.StartsAt) {
		return nil, ErrCouponNotYetStarted
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, ErrCouponExpired
	}
	if coupon.UsageLimitTotal != nil && coupon.TimesUsed >= *coupon.UsageLimitTotal {
		return nil, ErrCouponUsageLimitReached
	}
	return &coupon, nil
}

func stockLines(cartItems []model.CartItem) []stock.Line {
	lines := make([]stock.Line, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, stock.Line{
			ID:        item.ID,
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func pricingLines(cartItems []model.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, pricing.Line{
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func pricingCoupon(applied *model.AppliedCoupon) *pricing.Coupon {
	if applied == nil {
		return nil
	}
	return &pricing.Coupon{
		Code:  applied.Code,
		Type:  pricing.DiscountType(applied.DiscountType),
		Value: decimal.NewFromFloat(applied.DiscountValue),
	}
}

func pricingMethod(method model.ShippingMethod) (pricing.Method, error) {
	switch method {
	case model.ShippingStandard, "":
		return pricing.MethodStandard, nil
	case model.ShippingExpress:
		return pricing.MethodExpress, nil
	default:
		return "", ErrInvalidShippingMethod
	}
}

func newOrderNumber() string {
	return "TS-" + strings.ToUpper(uuid.New().String()[:8])
}

func cardLastFour(cardNumber string) string {
	digits := strings.ReplaceAll(strings.ReplaceAll(cardNumber, " ", ""), "-", "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
