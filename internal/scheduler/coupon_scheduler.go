package scheduler

import (
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CouponScheduler sweeps expired coupons on a daily schedule so their
// is_active flag catches up with the expiry timestamp. Validation checks
// expiry directly, so the sweep is housekeeping, not correctness.
type CouponScheduler struct {
	cron          *cron.Cron
	couponService service.CouponService
}

func NewCouponScheduler(couponService service.CouponService) *CouponScheduler {
	return &CouponScheduler{
		cron:          cron.New(),
		couponService: couponService,
	}
}

// Start registers the daily sweep at 03:00 and starts the cron loop.
func (s *CouponScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled expired coupon sweep", nil)

		count, err := s.couponService.DeactivateExpired()
		if err != nil {
			logger.Error("Expired coupon sweep failed", err)
			return
		}

		logger.Info("Expired coupon sweep completed", map[string]interface{}{
			"deactivated": count,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for coupon sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Coupon scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop stops the scheduler
func (s *CouponScheduler) Stop() {
	logger.Info("Stopping coupon scheduler...", nil)
	s.cron.Stop()
	logger.Info("Coupon scheduler stopped", nil)
}
