package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-hrms/internal/payroll"
)

// RunScheduler triggers monthly salary generation shortly after midnight
// on the first of each month. The hourly tick plus the per-period guard
// means a missed tick is retried the next hour, and generation itself is
// idempotent, so double firing is harmless.
func RunScheduler(ctx context.Context, payrollService payroll.Service, logger *zap.Logger) {
	log := logger.Named("scheduler")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastGenerated payroll.Period

	log.Info("payroll scheduler started")

	runIfDue := func(now time.Time) {
		if now.Day() != 1 {
			return
		}
		period := payroll.CurrentPeriod(now)
		if period == lastGenerated {
			return
		}

		result, err := payrollService.GenerateMonthly(ctx, period)
		if err != nil {
			log.Error("scheduled salary generation failed",
				zap.Int("month", period.Month),
				zap.Int("year", period.Year),
				zap.Error(err),
			)
			return
		}

		lastGenerated = period
		log.Info("scheduled salary generation finished",
			zap.Int("month", period.Month),
			zap.Int("year", period.Year),
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
		)
	}

	runIfDue(time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Info("payroll scheduler stopped")
			return
		case now := <-ticker.C:
			runIfDue(now)
		}
	}
}
