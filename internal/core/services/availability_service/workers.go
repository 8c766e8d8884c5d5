package availability_service

import (
	"context"
	"errors"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// fetchUnitScheduleDay выполняет внешний вызов одной единицы сверки,
// с учетом кэша сырых ответов. Ретраи и таймауты живут в адаптере шлюза.
func (s *AvailabilityService) fetchUnitScheduleDay(ctx context.Context, unit domain.ReconciliationUnit) (*domain.ScheduleDay, error) {
	cacheEnabled := s.cachePort != nil && s.cfg.Cache.Enabled

	if cacheEnabled {
		if day, exists := s.cachePort.GetScheduleDay(ctx, unit.CacheKey()); exists {
			s.logger.Debug("reconcile.unit.cache.hit", out.LogFields{
				"providerId":   unit.Provider.ID,
				"departmentId": unit.Department.ID,
				"date":         unit.Date.Format("2006-01-02"),
			})
			return day, nil
		}
	}

	started := time.Now()
	day, err := s.ehrPort.GetScheduleDay(ctx, out.ScheduleDayQuery{
		Date:             unit.Date,
		ProviderID:       unit.Provider.ID,
		ProviderIDType:   unit.Provider.IDType,
		DepartmentID:     unit.Department.ID,
		DepartmentIDType: unit.Department.IDType,
		VisitTypeID:      unit.VisitTypeID,
		VisitTypeIDType:  unit.VisitTypeIDType(),
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveEhrCall(status, time.Since(started).Seconds())

	if err != nil {
		return nil, err
	}

	if cacheEnabled {
		s.cachePort.StoreScheduleDay(ctx, unit.CacheKey(), day)
	}

	return day, nil
}

// runUnit выполняет одну единицу сверки под токеном пула воркеров:
// внешний вызов, затем чисто локальная сверка интервалов
func (s *AvailabilityService) runUnit(ctx context.Context, unit domain.ReconciliationUnit, collector *dayCollector, reconcile func(day *domain.ScheduleDay)) {
	// Занимаем слот в пуле
	s.workerPool <- struct{}{}
	defer func() {
		// Освобождаем слот в пуле
		<-s.workerPool
	}()

	day, err := s.fetchUnitScheduleDay(ctx, unit)
	if err != nil {
		s.metrics.ObserveUnit("failed")
		collector.addFailure(s.unitFailure(unit, err))
		return
	}

	collector.addSlotRows(unitSlotRows(unit, day))
	reconcile(day)
	s.metrics.ObserveUnit("success")
}

// unitFailure приводит ошибку единицы к записи отчета с полным контекстом
func (s *AvailabilityService) unitFailure(unit domain.ReconciliationUnit, err error) domain.UnitFailure {
	failure := domain.UnitFailure{
		ProviderID:   unit.Provider.ID,
		DepartmentID: unit.Department.ID,
		Date:         unit.Date,
		VisitTypeID:  unit.VisitTypeID,
		Reason:       err.Error(),
	}

	// Для некорректных данных сохраняем сырое тело ответа
	var malformed *out.MalformedResponseError
	if errors.As(err, &malformed) {
		failure.RawResponse = malformed.Raw
	}

	s.logger.Error("reconcile.unit.failed", out.LogFields{
		"providerId":   unit.Provider.ID,
		"departmentId": unit.Department.ID,
		"date":         unit.Date.Format("2006-01-02"),
		"visitTypeId":  unit.VisitTypeID,
		"error":        err.Error(),
	})

	return failure
}

func unitSlotRows(unit domain.ReconciliationUnit, day *domain.ScheduleDay) []domain.ScheduleSlotRow {
	rows := make([]domain.ScheduleSlotRow, 0, len(day.Slots))
	for _, slot := range day.Slots {
		rows = append(rows, domain.ScheduleSlotRow{
			ProviderID:   unit.Provider.ID,
			DepartmentID: unit.Department.ID,
			VisitTypeID:  unit.VisitTypeID,
			Date:         unit.Date,
			Slot:         slot,
		})
	}
	return rows
}

// proposal строит кандидата на запись из времени начала слота
func proposal(unit domain.ReconciliationUnit, appointmentType domain.AppointmentType, startMinutes int) domain.ProposedAppointment {
	return domain.ProposedAppointment{
		AppointmentTypeID: appointmentType.ID,
		ProviderID:        unit.Provider.ID,
		DepartmentID:      unit.Department.ID,
		StartDateTime: time.Date(
			unit.Date.Year(), unit.Date.Month(), unit.Date.Day(),
			startMinutes/60, startMinutes%60, 0, 0, unit.Date.Location(),
		),
		DurationMinutes: appointmentType.DurationMinutes,
	}
}
