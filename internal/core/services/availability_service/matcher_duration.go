package availability_service

import (
	"context"
	"sync"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// durationInferenceMatcher - стратегия вывода типов приема по длительности.
//
// Один запрос на отделение без фильтра по типу визита, затем каждый слот
// раздается всем типам приема с совпадающей длительностью. Точность
// меняется на охват: не требует от МИС выверенного соответствия типов
// визита один к одному.
type durationInferenceMatcher struct {
	svc *AvailabilityService
}

func (m *durationInferenceMatcher) MatchDay(ctx context.Context, provider *domain.Provider, date time.Time, collector *dayCollector) {
	// Несколько типов приема могут делить одну длительность:
	// тогда один слот разворачивается в несколько предложений
	buckets := domain.GroupAppointmentTypesByDuration(provider.AppointmentTypes)

	var wg sync.WaitGroup

	for _, department := range provider.Departments {
		unit := domain.ReconciliationUnit{
			Provider:   provider,
			Department: department,
			Date:       date,
		}

		wg.Add(1)
		go func(unit domain.ReconciliationUnit) {
			defer wg.Done()
			m.svc.runUnit(ctx, unit, collector, func(day *domain.ScheduleDay) {
				m.matchUnit(unit, buckets, day, collector)
			})
		}(unit)
	}

	wg.Wait()
}

func (m *durationInferenceMatcher) matchUnit(unit domain.ReconciliationUnit, buckets map[int][]domain.AppointmentType, day *domain.ScheduleDay, collector *dayCollector) {
	blocked := blockedIntervals(day.Slots)
	proposals := make([]domain.ProposedAppointment, 0)

	for _, slot := range day.Slots {
		// Нулевая вместимость исключает слот сразу, независимо от блокировок
		if slot.AvailableOpenings <= 0 {
			continue
		}
		if slot.Blocked() {
			continue
		}

		bucket, exists := buckets[slot.LengthMinutes]
		if !exists {
			// Не ошибка: каталог типов приема обычно отстает
			// от конфигурации расписания в МИС
			m.svc.logger.Info("reconcile.inference.slot.unmatched_duration", out.LogFields{
				"providerId":    unit.Provider.ID,
				"departmentId":  unit.Department.ID,
				"date":          unit.Date.Format("2006-01-02"),
				"startTime":     slot.StartTime.String(),
				"lengthMinutes": slot.LengthMinutes,
			})
			m.svc.metrics.ObserveUnmatchedDuration()
			continue
		}

		// Ключ корзины и есть длительность кандидата, поэтому сверка
		// интервалов выполняется один раз на слот
		if !intervalBookable(blocked, slot.StartTime.Minutes, slot.LengthMinutes) {
			continue
		}

		for _, appointmentType := range bucket {
			proposals = append(proposals, proposal(unit, appointmentType, slot.StartTime.Minutes))
		}
	}

	collector.addProposals(proposals)
}
