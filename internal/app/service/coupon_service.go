package service

import (
	"context"
	"errors"
	"time"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound          = errors.New("coupon not found")
	ErrCouponInactive          = errors.New("coupon is not active")
	ErrCouponNotYetStarted     = errors.New("coupon is not yet valid")
	ErrCouponExpired           = errors.New("coupon has expired")
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
	ErrInvalidCouponValue      = errors.New("invalid discount value")
	ErrInvalidCouponWindow     = errors.New("coupon expiry must be after its start")
)

// CouponSessionStore holds the validated applied-coupon snapshot for each
// shopper's checkout session.
type CouponSessionStore interface {
	Set(ctx context.Context, userID uint, coupon *model.AppliedCoupon) error
	Get(ctx context.Context, userID uint) (*model.AppliedCoupon, error)
	Clear(ctx context.Context, userID uint) error
}

type CouponService interface {
	Validate(code string, now time.Time) (*model.Coupon, error)
	Apply(ctx context.Context, userID uint, code string) (*model.AppliedCoupon, error)
	Remove(ctx context.Context, userID uint) error
	GetApplied(ctx context.Context, userID uint) (*model.AppliedCoupon, error)

	// Admin operations
	CreateCoupon(coupon *model.Coupon) error
	UpdateCoupon(coupon *model.Coupon) error
	ListCoupons() ([]model.Coupon, error)
	DeleteCoupon(id uint) error
	DeactivateExpired() (int64, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	sessions   CouponSessionStore
}

func NewCouponService(couponRepo repository.CouponRepository, sessions CouponSessionStore) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		sessions:   sessions,
	}
}

// Validate runs the redemption checks in a fixed order so the shopper
// always sees the most fundamental failure first: existence, then active
// flag, then validity window, then usage limit. Expiry is checked on the
// stored timestamp, so a stale is_active flag cannot resurrect an expired
// coupon.
func (s *couponService) Validate(code string, now time.Time) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

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

	return coupon, nil
}

// Apply validates the code and stores the snapshot in the checkout
// session. Applying a second coupon replaces the first; one coupon per
// order.
func (s *couponService) Apply(ctx context.Context, userID uint, code string) (*model.AppliedCoupon, error) {
	coupon, err := s.Validate(code, time.Now())
	if err != nil {
		logger.Warn("Coupon application rejected", map[string]interface{}{
			"user_id": userID,
			"code":    code,
			"reason":  err.Error(),
		})
		return nil, err
	}

	applied := &model.AppliedCoupon{
		Code:          coupon.Code,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}
	if err := s.sessions.Set(ctx, userID, applied); err != nil {
		return nil, err
	}

	logger.Info("Coupon applied to checkout session", map[string]interface{}{
		"user_id": userID,
		"code":    coupon.Code,
	})
	return applied, nil
}

func (s *couponService) Remove(ctx context.Context, userID uint) error {
	return s.sessions.Clear(ctx, userID)
}

func (s *couponService) GetApplied(ctx context.Context, userID uint) (*model.AppliedCoupon, error) {
	return s.sessions.Get(ctx, userID)
}

func (s *couponService) CreateCoupon(coupon *model.Coupon) error {
	if err := checkCouponInvariants(coupon); err != nil {
		return err
	}
	if coupon.StartsAt.IsZero() {
		coupon.StartsAt = time.Now()
	}

	logger.Info("Creating coupon", map[string]interface{}{
		"code":           coupon.Code,
		"discount_type":  coupon.DiscountType,
		"discount_value": coupon.DiscountValue,
	})
	return s.couponRepo.Create(coupon)
}

func (s *couponService) UpdateCoupon(coupon *model.Coupon) error {
	if err := checkCouponInvariants(coupon); err != nil {
		return err
	}

	existing, err := s.couponRepo.FindByID(coupon.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	existing.Code = coupon.Code
	existing.DiscountType = coupon.DiscountType
	existing.DiscountValue = coupon.DiscountValue
	existing.StartsAt = coupon.StartsAt
	existing.ExpiresAt = coupon.ExpiresAt
	existing.UsageLimitTotal = coupon.UsageLimitTotal
	existing.IsActive = coupon.IsActive

	return s.couponRepo.Update(existing)
}

func (s *couponService) ListCoupons() ([]model.Coupon, error) {
	return s.couponRepo.FindAll()
}

func (s *couponService) DeleteCoupon(id uint) error {
	if _, err := s.couponRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.couponRepo.Delete(id)
}

// DeactivateExpired is the daily sweep behind the coupon scheduler.
func (s *couponService) DeactivateExpired() (int64, error) {
	count, err := s.couponRepo.DeactivateExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Expired coupons deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

func checkCouponInvariants(coupon *model.Coupon) error {
	switch coupon.DiscountType {
	case model.DiscountPercentage:
		if coupon.DiscountValue <= 0 || coupon.DiscountValue > 100 {
			return ErrInvalidCouponValue
		}
	case model.DiscountFixed:
		if coupon.DiscountValue <= 0 {
			return ErrInvalidCouponValue
		}
	default:
		return ErrInvalidCouponValue
	}

	if coupon.ExpiresAt != nil && !coupon.StartsAt.IsZero() && !coupon.ExpiresAt.After(coupon.StartsAt) {
		return ErrInvalidCouponWindow
	}
	if coupon.UsageLimitTotal != nil && *coupon.UsageLimitTotal < 1 {
		return ErrInvalidCouponValue
	}
	return nil
}
