package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

type AvailabilityUseCase interface {
	// Полный запуск сверки по диапазону дат. providerIDs пустой - все врачи каталога.
	GenerateAvailability(ctx context.Context, startDate, endDate time.Time, providerIDs []string) (*domain.RunReport, error)

	// Сверка одного врача на одну дату
	GenerateProviderAvailability(ctx context.Context, provider *domain.Provider, date time.Time) (domain.ReconciliationResult, []domain.UnitFailure)

	// Отчет по ранее выполненному запуску (для CSV-выгрузки)
	GetRunReport(runID uuid.UUID) (*domain.RunReport, bool)

	// Инвалидация кэша расписания при изменении записи на прием
	InvalidateScheduleDay(ctx context.Context, providerID, departmentID string, date time.Time) error
}
