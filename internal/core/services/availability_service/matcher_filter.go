package availability_service

import (
	"context"
	"sync"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// visitTypeFilterMatcher - стратегия явной фильтрации по типу визита.
//
// На каждую пару (тип приема, отделение) уходит отдельный запрос в МИС
// с конкретным типом визита: часть конфигураций МИС корректно применяет
// правила доступности только при явно указанном типе.
type visitTypeFilterMatcher struct {
	svc *AvailabilityService
}

func (m *visitTypeFilterMatcher) MatchDay(ctx context.Context, provider *domain.Provider, date time.Time, collector *dayCollector) {
	var wg sync.WaitGroup

	for _, appointmentType := range provider.AppointmentTypes {
		if !appointmentType.HasVisitType() {
			m.svc.logger.Warn("reconcile.filter.visit_type_missing", out.LogFields{
				"providerId":        provider.ID,
				"appointmentTypeId": appointmentType.ID,
			})
			continue
		}

		for _, department := range provider.Departments {
			appointmentType := appointmentType
			unit := domain.ReconciliationUnit{
				Provider:        provider,
				Department:      department,
				Date:            date,
				VisitTypeID:     appointmentType.VisitTypeID,
				AppointmentType: &appointmentType,
			}

			wg.Add(1)
			go func(unit domain.ReconciliationUnit, appointmentType domain.AppointmentType) {
				defer wg.Done()
				m.svc.runUnit(ctx, unit, collector, func(day *domain.ScheduleDay) {
					m.matchUnit(unit, appointmentType, day, collector)
				})
			}(unit, appointmentType)
		}
	}

	wg.Wait()
}

// matchUnit прогоняет сверку интервалов с длительностью проверяемого типа.
// Слот, пришедший по типу визита X, атрибутируется только типу X -
// даже при совпадении длительностей с другими типами.
func (m *visitTypeFilterMatcher) matchUnit(unit domain.ReconciliationUnit, appointmentType domain.AppointmentType, day *domain.ScheduleDay, collector *dayCollector) {
	startTimes := bookableStartTimes(day.Slots, appointmentType.DurationMinutes)

	proposals := make([]domain.ProposedAppointment, 0, len(startTimes))
	for _, startTime := range startTimes {
		proposals = append(proposals, proposal(unit, appointmentType, startTime.Minutes))
	}

	collector.addProposals(proposals)
}
