package availability_service

import (
	"context"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// Инвалидация кэша расписания при изменении записи на прием:
// следующий запуск перечитает день из МИС

func (s *AvailabilityService) InvalidateScheduleDay(ctx context.Context, providerID, departmentID string, date time.Time) error {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return nil
	}

	s.logger.Debug("reconcile.cache.invalidate", out.LogFields{
		"providerId":   providerID,
		"departmentId": departmentID,
		"date":         date.Format("2006-01-02"),
	})

	s.cachePort.InvalidateScheduleDay(ctx, providerID, departmentID, date)
	return nil
}

func (s *AvailabilityService) InvalidateAllScheduleDays(ctx context.Context) error {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return nil
	}

	s.cachePort.InvalidateAll(ctx)
	return nil
}
