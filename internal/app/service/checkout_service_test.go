package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
	"github.com/abu0505/tokyo-shoes-sub000/internal/pricing"
	"github.com/abu0505/tokyo-shoes-sub000/internal/stock"
)

type checkoutFixture struct {
	checkout CheckoutService
	cart     CartService
	coupons  CouponService
	sessions *memorySessionStore
	user     *model.User
	product  *model.Product
	db       *gorm.DB
}

func setupCheckoutServiceTest(t *testing.T) *checkoutFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	couponRepo := repository.NewCouponRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	sessions := newMemorySessionStore()

	checkout := NewCheckoutService(
		cartRepo,
		couponRepo,
		orderRepo,
		sessions,
		stock.NewReconciler(variantRepo, time.Second),
		pricing.RatesFrom(15, 15, 200),
		testDB,
	)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "hash", Name: "Shopper"}
	testDB.Create(user)

	product := &model.Product{
		Name:     "574 Core",
		Brand:    "New Balance",
		Price:    100,
		Category: model.CategoryLifestyle,
	}
	testDB.Create(product)
	testDB.Create(&model.ProductVariant{ProductID: product.ID, Size: "US 9", StockQuantity: 10})
	testDB.Create(&model.ProductVariant{ProductID: product.ID, Size: "US 10", StockQuantity: 1})
	testDB.Create(&model.ProductVariant{ProductID: product.ID, Size: "US 11", StockQuantity: 0})

	return &checkoutFixture{
		checkout: checkout,
		cart:     NewCartService(cartRepo, productRepo, variantRepo),
		coupons:  NewCouponService(couponRepo, sessions),
		sessions: sessions,
		user:     user,
		product:  product,
		db:       testDB,
	}
}

func (f *checkoutFixture) addCartLine(t *testing.T, size string, quantity int) *model.CartItem {
	return f.addColorLine(t, size, model.DefaultColor, quantity)
}

func (f *checkoutFixture) addColorLine(t *testing.T, size, color string, quantity int) *model.CartItem {
	t.Helper()
	// Insert directly so tests can stage quantities beyond current stock.
	item := &model.CartItem{
		UserID:    f.user.ID,
		ProductID: f.product.ID,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
		UnitPrice: f.product.Price,
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func placeOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingMethod:  model.ShippingStandard,
		ShippingAddress: "1-2-3 Jinnan, Shibuya, Tokyo",
		CardNumber:      "4242 4242 4242 4242",
		CardHolder:      "SHOPPER TARO",
	}
}

func TestCheckoutService_Reconcile_CleanCart(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 2)

	issues, err := f.checkout.Reconcile(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCheckoutService_Reconcile_ReportsIssues(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	ok := f.addCartLine(t, "US 9", 2)
	short := f.addCartLine(t, "US 10", 3)
	gone := f.addCartLine(t, "US 11", 1)

	issues, err := f.checkout.Reconcile(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, stock.IssueInsufficient, issues[short.ID].Type)
	assert.Equal(t, 1, issues[short.ID].Available)
	assert.Equal(t, stock.IssueSoldOut, issues[gone.ID].Type)
	_, reported := issues[ok.ID]
	assert.False(t, reported)
}

func TestCheckoutService_Reconcile_EmptyCart(t *testing.T) {
	f := setupCheckoutServiceTest(t)

	_, err := f.checkout.Reconcile(context.Background(), f.user.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_Quote_StandardBelowThreshold(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 1) // 100

	quote, err := f.checkout.QuoteCart(context.Background(), f.user.ID, model.ShippingStandard)
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Subtotal)
	assert.Equal(t, 15.0, quote.ShippingCost)
	assert.Equal(t, 0.0, quote.DiscountAmount)
	assert.Equal(t, 115.0, quote.Total)
}

func TestCheckoutService_Quote_FreeShippingAtThreshold(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 2) // 200

	quote, err := f.checkout.QuoteCart(context.Background(), f.user.ID, model.ShippingStandard)
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.ShippingCost)
	assert.Equal(t, 200.0, quote.Total)
}

func TestCheckoutService_Quote_WithAppliedCoupon(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 2) // 200

	createCoupon(t, f.db, &model.Coupon{
		Code: "SAVE10", DiscountType: model.DiscountPercentage, DiscountValue: 10,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})
	_, err := f.coupons.Apply(context.Background(), f.user.ID, "SAVE10")
	require.NoError(t, err)

	quote, err := f.checkout.QuoteCart(context.Background(), f.user.ID, model.ShippingStandard)
	require.NoError(t, err)
	assert.Equal(t, 20.0, quote.DiscountAmount)
	assert.Equal(t, "SAVE10", quote.DiscountCode)
	assert.Equal(t, 180.0, quote.Total)
}

func TestCheckoutService_Quote_UnknownShippingMethod(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 1)

	_, err := f.checkout.QuoteCart(context.Background(), f.user.ID, "drone")
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)
}

func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 2)

	order, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 200.0, order.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "4242", order.CardLastFour)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "574 Core", order.OrderItems[0].ProductName)

	// Stock decremented.
	var variant model.ProductVariant
	f.db.Where("product_id = ? AND size = ?", f.product.ID, "US 9").First(&variant)
	assert.Equal(t, 8, variant.StockQuantity)

	// Cart cleared.
	var remaining int64
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.user.ID).Count(&remaining)
	assert.Equal(t, int64(0), remaining)
}

func TestCheckoutService_PlaceOrder_WithCouponRedeemsUsage(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 2) // 200

	limit := 10
	createCoupon(t, f.db, &model.Coupon{
		Code: "TAKE25", DiscountType: model.DiscountFixed, DiscountValue: 25,
		StartsAt: time.Now().Add(-time.Hour), UsageLimitTotal: &limit, IsActive: true,
	})
	_, err := f.coupons.Apply(context.Background(), f.user.ID, "TAKE25")
	require.NoError(t, err)

	order, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	require.NoError(t, err)
	assert.Equal(t, 25.0, order.DiscountAmount)
	assert.Equal(t, "TAKE25", order.DiscountCode)
	assert.Equal(t, 175.0, order.TotalAmount)

	coupon, err := repository.NewCouponRepository(f.db).FindByCode("TAKE25")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.TimesUsed)

	// Session cleared after commit.
	applied, _ := f.sessions.Get(context.Background(), f.user.ID)
	assert.Nil(t, applied)
}

func TestCheckoutService_PlaceOrder_StockIssuesBlock(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	short := f.addCartLine(t, "US 10", 3) // stock 1

	_, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())

	var stockErr *StockIssuesError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, stock.IssueInsufficient, stockErr.Issues[short.ID].Type)
	assert.Equal(t, 1, stockErr.Issues[short.ID].Available)

	// Nothing was written.
	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)

	var variant model.ProductVariant
	f.db.Where("product_id = ? AND size = ?", f.product.ID, "US 10").First(&variant)
	assert.Equal(t, 1, variant.StockQuantity)
}

func TestCheckoutService_PlaceOrder_ColorLinesShareVariantStock(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	// Two colors of the same product+size draw from one inventory row:
	// 6 + 6 against 10 in stock must not place an order.
	red := f.addColorLine(t, "US 9", "Red", 6)
	blue := f.addColorLine(t, "US 9", "Blue", 6)

	issues, err := f.checkout.Reconcile(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, stock.IssueInsufficient, issues[red.ID].Type)
	assert.Equal(t, 10, issues[red.ID].Available)
	assert.Equal(t, stock.IssueInsufficient, issues[blue.ID].Type)

	_, err = f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	var stockErr *StockIssuesError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Issues, 2)

	var variant model.ProductVariant
	f.db.Where("product_id = ? AND size = ?", f.product.ID, "US 9").First(&variant)
	assert.Equal(t, 10, variant.StockQuantity, "stock must be untouched")

	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)

	// Trimmed to a combined 10 the order goes through and drains the row
	// exactly to zero, never below.
	f.db.Model(&model.CartItem{}).Where("id = ?", blue.ID).Update("quantity", 4)

	order, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 2)

	f.db.Where("product_id = ? AND size = ?", f.product.ID, "US 9").First(&variant)
	assert.Equal(t, 0, variant.StockQuantity)
}

func TestCheckoutService_PlaceOrder_CouponWentInvalid(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 1)

	createCoupon(t, f.db, &model.Coupon{
		Code: "BRIEF", DiscountType: model.DiscountPercentage, DiscountValue: 10,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})
	_, err := f.coupons.Apply(context.Background(), f.user.ID, "BRIEF")
	require.NoError(t, err)

	// The coupon is deactivated between apply and checkout.
	f.db.Model(&model.Coupon{}).Where("code = ?", "BRIEF").Update("is_active", false)

	_, err = f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	require.ErrorIs(t, err, ErrCouponInactive)

	// Rolled back: cart intact, no order.
	var remaining int64
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.user.ID).Count(&remaining)
	assert.Equal(t, int64(1), remaining)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	f := setupCheckoutServiceTest(t)

	_, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, placeOrderInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_PlaceOrder_MissingAddress(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 1)

	input := placeOrderInput()
	input.ShippingAddress = "   "
	_, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, input)
	assert.ErrorIs(t, err, ErrShippingAddressRequired)
}

func TestCheckoutService_PlaceOrder_ExpressShipping(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	f.addCartLine(t, "US 9", 3) // 300, above free threshold

	input := placeOrderInput()
	input.ShippingMethod = model.ShippingExpress
	order, err := f.checkout.PlaceOrder(context.Background(), f.user.ID, input)
	require.NoError(t, err)

	assert.Equal(t, 15.0, order.ShippingCost)
	assert.Equal(t, 315.0, order.TotalAmount)
}
