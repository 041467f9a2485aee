package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
)

// memorySessionStore is an in-memory stand-in for the Redis-backed
// checkout session store.
type memorySessionStore struct {
	mu      sync.Mutex
	applied map[uint]*model.AppliedCoupon
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{applied: make(map[uint]*model.AppliedCoupon)}
}

func (s *memorySessionStore) Set(_ context.Context, userID uint, coupon *model.AppliedCoupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied[userID] = coupon
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, userID uint) (*model.AppliedCoupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[userID], nil
}

func (s *memorySessionStore) Clear(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applied, userID)
	return nil
}

func setupCouponServiceTest(t *testing.T) (CouponService, *memorySessionStore, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sessions := newMemorySessionStore()
	couponService := NewCouponService(repository.NewCouponRepository(testDB), sessions)
	return couponService, sessions, testDB
}

func createCoupon(t *testing.T, testDB *gorm.DB, coupon *model.Coupon) *model.Coupon {
	t.Helper()
	require.NoError(t, repository.NewCouponRepository(testDB).Create(coupon))
	return coupon
}

func TestCouponService_Validate_Success(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "WELCOME10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      time.Now().Add(-time.Hour),
		IsActive:      true,
	})

	coupon, err := couponService.Validate("WELCOME10", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
}

func TestCouponService_Validate_CaseInsensitive(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "welcome10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      time.Now().Add(-time.Hour),
		IsActive:      true,
	})

	coupon, err := couponService.Validate("Welcome10", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code, "codes are stored upper-cased")
}

func TestCouponService_Validate_NotFound(t *testing.T) {
	couponService, _, _ := setupCouponServiceTest(t)

	_, err := couponService.Validate("NOPE", time.Now())
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCouponService_Validate_Inactive(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "DISABLED",
		DiscountType:  model.DiscountFixed,
		DiscountValue: 5,
		StartsAt:      time.Now().Add(-time.Hour),
		IsActive:      false,
	})

	_, err := couponService.Validate("DISABLED", time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestCouponService_Validate_NotYetStarted(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "SOON",
		DiscountType:  model.DiscountFixed,
		DiscountValue: 5,
		StartsAt:      time.Now().Add(24 * time.Hour),
		IsActive:      true,
	})

	_, err := couponService.Validate("SOON", time.Now())
	assert.ErrorIs(t, err, ErrCouponNotYetStarted)
}

func TestCouponService_Validate_ExpiredEvenWhileActive(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)

	// The expiry timestamp wins even when the sweep has not flipped
	// is_active yet.
	expired := time.Now().Add(-time.Hour)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "OLD15",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 15,
		StartsAt:      time.Now().Add(-48 * time.Hour),
		ExpiresAt:     &expired,
		IsActive:      true,
	})

	_, err := couponService.Validate("OLD15", time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestCouponService_Validate_UsageLimitReached(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)

	limit := 50
	createCoupon(t, testDB, &model.Coupon{
		Code:            "MAXED",
		DiscountType:    model.DiscountFixed,
		DiscountValue:   20,
		StartsAt:        time.Now().Add(-time.Hour),
		UsageLimitTotal: &limit,
		TimesUsed:       50,
		IsActive:        true,
	})

	_, err := couponService.Validate("MAXED", time.Now())
	assert.ErrorIs(t, err, ErrCouponUsageLimitReached)
}

func TestCouponService_Validate_NoExpiryNoLimit(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "FOREVER",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 5,
		StartsAt:      time.Now().Add(-time.Hour),
		IsActive:      true,
	})

	_, err := couponService.Validate("FOREVER", time.Now())
	assert.NoError(t, err)
}

func TestCouponService_Apply_StoresSnapshot(t *testing.T) {
	couponService, sessions, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code:          "WELCOME10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      time.Now().Add(-time.Hour),
		IsActive:      true,
	})

	applied, err := couponService.Apply(context.Background(), 1, "welcome10")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", applied.Code)
	assert.Equal(t, model.DiscountPercentage, applied.DiscountType)
	assert.Equal(t, 10.0, applied.DiscountValue)

	stored, _ := sessions.Get(context.Background(), 1)
	require.NotNil(t, stored)
	assert.Equal(t, "WELCOME10", stored.Code)
}

func TestCouponService_Apply_ReplacesPrevious(t *testing.T) {
	couponService, sessions, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code: "FIRST", DiscountType: model.DiscountPercentage, DiscountValue: 10,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})
	createCoupon(t, testDB, &model.Coupon{
		Code: "SECOND", DiscountType: model.DiscountFixed, DiscountValue: 25,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})

	_, err := couponService.Apply(context.Background(), 1, "FIRST")
	require.NoError(t, err)
	_, err = couponService.Apply(context.Background(), 1, "SECOND")
	require.NoError(t, err)

	stored, _ := sessions.Get(context.Background(), 1)
	assert.Equal(t, "SECOND", stored.Code, "one coupon per order")
}

func TestCouponService_Apply_RejectedCouponLeavesSessionUntouched(t *testing.T) {
	couponService, sessions, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code: "GOOD", DiscountType: model.DiscountPercentage, DiscountValue: 10,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})

	_, err := couponService.Apply(context.Background(), 1, "GOOD")
	require.NoError(t, err)

	_, err = couponService.Apply(context.Background(), 1, "MISSING")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	stored, _ := sessions.Get(context.Background(), 1)
	assert.Equal(t, "GOOD", stored.Code)
}

func TestCouponService_RemoveAndGetApplied(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)
	createCoupon(t, testDB, &model.Coupon{
		Code: "GOOD", DiscountType: model.DiscountPercentage, DiscountValue: 10,
		StartsAt: time.Now().Add(-time.Hour), IsActive: true,
	})

	_, err := couponService.Apply(context.Background(), 1, "GOOD")
	require.NoError(t, err)

	require.NoError(t, couponService.Remove(context.Background(), 1))

	applied, err := couponService.GetApplied(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, applied)
}

func TestCouponService_CreateCoupon_Invariants(t *testing.T) {
	couponService, _, _ := setupCouponServiceTest(t)

	err := couponService.CreateCoupon(&model.Coupon{
		Code: "TOOMUCH", DiscountType: model.DiscountPercentage, DiscountValue: 150,
	})
	assert.ErrorIs(t, err, ErrInvalidCouponValue)

	err = couponService.CreateCoupon(&model.Coupon{
		Code: "ZERO", DiscountType: model.DiscountFixed, DiscountValue: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidCouponValue)

	start := time.Now()
	before := start.Add(-time.Hour)
	err = couponService.CreateCoupon(&model.Coupon{
		Code: "BACKWARDS", DiscountType: model.DiscountFixed, DiscountValue: 10,
		StartsAt: start, ExpiresAt: &before,
	})
	assert.ErrorIs(t, err, ErrInvalidCouponWindow)
}

func TestCouponService_DeactivateExpired(t *testing.T) {
	couponService, _, testDB := setupCouponServiceTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	createCoupon(t, testDB, &model.Coupon{
		Code: "DEAD", DiscountType: model.DiscountFixed, DiscountValue: 5,
		StartsAt: time.Now().Add(-48 * time.Hour), ExpiresAt: &past, IsActive: true,
	})
	createCoupon(t, testDB, &model.Coupon{
		Code: "ALIVE", DiscountType: model.DiscountFixed, DiscountValue: 5,
		StartsAt: time.Now().Add(-time.Hour), ExpiresAt: &future, IsActive: true,
	})

	count, err := couponService.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	dead, err := repository.NewCouponRepository(testDB).FindByCode("DEAD")
	require.NoError(t, err)
	assert.False(t, dead.IsActive)

	alive, err := repository.NewCouponRepository(testDB).FindByCode("ALIVE")
	require.NoError(t, err)
	assert.True(t, alive.IsActive)
}
