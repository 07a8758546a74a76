package services

import (
	"time"

	"hashprime-backend/models"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartMaturityScheduler completes matured investments once a minute. It runs
// the same guarded transition as the admin endpoint, so an admin completing
// an investment manually first is harmless.
func (s *InvestmentService) StartMaturityScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var matured []models.Investment
			now := time.Now()
			err := s.DB.Where("status = ? AND matures_at <= ?", models.InvestmentActive, now).
				Find(&matured).Error
			if err != nil {
				zap.L().Error("maturity scan failed", zap.Error(err))
				return
			}

			for _, inv := range matured {
				if _, err := s.SetStatus(inv.ID, models.InvestmentCompleted, "matured", nil); err != nil {
					zap.L().Error("failed to complete matured investment",
						zap.String("order_id", inv.OrderID), zap.Error(err))
				} else {
					zap.L().Info("investment matured", zap.String("order_id", inv.OrderID))
				}
			}
		}),
	)
}
