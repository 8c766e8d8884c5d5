package out

import (
	"context"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

// CachePort - кэш сырых ответов МИС по ключу единицы сверки
type CachePort interface {
	GetScheduleDay(ctx context.Context, key domain.ScheduleDayKey) (*domain.ScheduleDay, bool)
	StoreScheduleDay(ctx context.Context, key domain.ScheduleDayKey, day *domain.ScheduleDay)

	// Инвалидация всех закэшированных ответов по врачу/отделению/дате,
	// независимо от типа визита
	InvalidateScheduleDay(ctx context.Context, providerID, departmentID string, date time.Time)
	InvalidateAll(ctx context.Context)
}
