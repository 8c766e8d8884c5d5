package availability_service

import (
	"context"
	"sync"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

// appointmentTypeMatcher - стратегия подбора типов приема для врача.
// Выбирается один раз на врача при загрузке каталога.
type appointmentTypeMatcher interface {
	MatchDay(ctx context.Context, provider *domain.Provider, date time.Time, collector *dayCollector)
}

func (s *AvailabilityService) matcherFor(provider *domain.Provider) appointmentTypeMatcher {
	switch provider.FilterMode {
	case domain.FilterModeVisitType:
		return &visitTypeFilterMatcher{svc: s}
	default:
		return &durationInferenceMatcher{svc: s}
	}
}

// dayCollector накапливает выход единиц сверки одного дня.
// Единицы пишут из горутин, поэтому доступ под мьютексом.
type dayCollector struct {
	mu        sync.Mutex
	proposals []domain.ProposedAppointment
	failures  []domain.UnitFailure
	slotRows  []domain.ScheduleSlotRow
}

func (c *dayCollector) addProposals(proposals []domain.ProposedAppointment) {
	if len(proposals) == 0 {
		return
	}
	c.mu.Lock()
	c.proposals = append(c.proposals, proposals...)
	c.mu.Unlock()
}

func (c *dayCollector) addFailure(failure domain.UnitFailure) {
	c.mu.Lock()
	c.failures = append(c.failures, failure)
	c.mu.Unlock()
}

func (c *dayCollector) addSlotRows(rows []domain.ScheduleSlotRow) {
	if len(rows) == 0 {
		return
	}
	c.mu.Lock()
	c.slotRows = append(c.slotRows, rows...)
	c.mu.Unlock()
}
