package availability_service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
	"github.com/medbooking/ehr-schedule-reconciler/internal/observability/metrics"
	"github.com/medbooking/ehr-schedule-reconciler/internal/utils"
)

// Ошибки конфигурации запуска: фатальны, проверяются до любых внешних вызовов
var (
	ErrInvalidDateRange = errors.New("invalid date range: start date is after end date")
	ErrDateRangeTooLong = errors.New("invalid date range: range exceeds configured maximum")
)

// Количество последних отчетов, доступных для выгрузки
const reportsCacheSize = 64

type AvailabilityService struct {
	ehrPort     out.EhrPort
	cachePort   out.CachePort
	storagePort out.StoragePort
	logger      out.LoggerPort
	metrics     *metrics.ReconcilerMetrics
	cfg         *config.Config

	// Пул воркеров: ограничивает число одновременных единиц сверки
	workerPool chan struct{}

	reports *lru.Cache[uuid.UUID, *domain.RunReport]
}

func NewAvailabilityService(
	cfg *config.Config,
	ehrPort out.EhrPort,
	storagePort out.StoragePort,
	cachePort out.CachePort,
	reconcilerMetrics *metrics.ReconcilerMetrics,
	logger out.LoggerPort,
) (*AvailabilityService, error) {
	workers := cfg.Run.Workers
	if workers <= 0 {
		workers = 1
	}

	reports, err := lru.New[uuid.UUID, *domain.RunReport](reportsCacheSize)
	if err != nil {
		return nil, err
	}

	return &AvailabilityService{
		ehrPort:     ehrPort,
		cachePort:   cachePort,
		storagePort: storagePort,
		logger:      logger.WithModule("AvailabilityService"),
		metrics:     reconcilerMetrics,
		cfg:         cfg,
		workerPool:  make(chan struct{}, workers),
		reports:     reports,
	}, nil
}

// GenerateAvailability - полный запуск сверки: врачи x даты диапазона.
// Отказ одной единицы не прерывает остальные: он попадает в отчет,
// а решение о приемлемости частичного успеха остается за вызывающим.
func (s *AvailabilityService) GenerateAvailability(ctx context.Context, startDate, endDate time.Time, providerIDs []string) (*domain.RunReport, error) {
	// Валидация диапазона до любых внешних вызовов
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	days := utils.DaysInclusive(startDate, endDate)
	if s.cfg.Run.MaxDateRangeDays > 0 && len(days) > s.cfg.Run.MaxDateRangeDays {
		return nil, fmt.Errorf("%w: %d days requested, %d allowed", ErrDateRangeTooLong, len(days), s.cfg.Run.MaxDateRangeDays)
	}

	report := &domain.RunReport{
		RunID:     uuid.New(),
		StartDate: utils.StartCurrentDay(startDate),
		EndDate:   utils.StartCurrentDay(endDate),
	}

	s.logger.Info("reconcile.run.started", out.LogFields{
		"runId":     report.RunID,
		"startDate": report.StartDate.Format("2006-01-02"),
		"endDate":   report.EndDate.Format("2006-01-02"),
		"days":      len(days),
	})

	catalog_fetch_debug := domain.DebugInfo{
		Event: "reconcile.run.catalog.fetch",
	}
	catalog_fetch_debug.Start()

	providers, err := s.storagePort.LoadProviders(ctx)
	if err != nil {
		s.logger.Error("reconcile.run.catalog.fetch_failed", out.LogFields{
			"runId": report.RunID,
			"error": err.Error(),
		})
		s.metrics.ObserveRun("catalog_failed")
		return nil, fmt.Errorf("reconcile.run.catalog.fetch_failed: %w", err)
	}
	catalog_fetch_debug.Elapse()
	report.Debug = append(report.Debug, catalog_fetch_debug)

	providers = filterProviders(providers, providerIDs)

	units_process_debug := domain.DebugInfo{
		Event: "reconcile.run.units.process",
	}
	units_process_debug.Start()

	// Безопасный доступ к коллекциям отчета из горутин
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Стратегия выбирается один раз на врача, не на каждый вызов
	for i := range providers {
		provider := &providers[i]
		matcher := s.matcherFor(provider)

		for _, day := range days {
			wg.Add(1)
			go func(provider *domain.Provider, day time.Time) {
				defer wg.Done()

				result, failures, slotRows := s.generateWithMatcher(ctx, matcher, provider, day)

				mu.Lock()
				report.Results = append(report.Results, result)
				report.Failures = append(report.Failures, failures...)
				report.SlotRows = append(report.SlotRows, slotRows...)
				mu.Unlock()
			}(provider, day)
		}
	}

	wg.Wait()
	units_process_debug.Elapse()
	report.Debug = append(report.Debug, units_process_debug)

	proposalCount := 0
	for _, result := range report.Results {
		proposalCount += len(result.Proposed)
	}
	s.metrics.AddProposals(proposalCount)

	runStatus := "success"
	if len(report.Failures) > 0 {
		runStatus = "partial"
	}
	s.metrics.ObserveRun(runStatus)

	s.logger.Info("reconcile.run.finished", out.LogFields{
		"runId":     report.RunID,
		"status":    runStatus,
		"results":   len(report.Results),
		"proposals": proposalCount,
		"failures":  len(report.Failures),
	})

	s.reports.Add(report.RunID, report)
	s.saveReport(ctx, report)

	return report, nil
}

// GenerateProviderAvailability - сверка одного врача на одну дату
func (s *AvailabilityService) GenerateProviderAvailability(ctx context.Context, provider *domain.Provider, date time.Time) (domain.ReconciliationResult, []domain.UnitFailure) {
	result, failures, _ := s.generateWithMatcher(ctx, s.matcherFor(provider), provider, date)
	return result, failures
}

func (s *AvailabilityService) generateWithMatcher(ctx context.Context, matcher appointmentTypeMatcher, provider *domain.Provider, date time.Time) (domain.ReconciliationResult, []domain.UnitFailure, []domain.ScheduleSlotRow) {
	collector := &dayCollector{}
	matcher.MatchDay(ctx, provider, s.providerDate(provider, date), collector)

	result := domain.ReconciliationResult{
		ProviderID: provider.ID,
		Date:       utils.StartCurrentDay(date),
		TimeZone:   provider.TimeZone,
		// Сортируем для детерминированного вывода
		Proposed: proposalSlice(collector.proposals).quickSort(),
	}

	return result, collector.failures, collector.slotRows
}

func (s *AvailabilityService) GetRunReport(runID uuid.UUID) (*domain.RunReport, bool) {
	return s.reports.Get(runID)
}

// providerDate переносит полночь даты в таймзону врача:
// времена слотов привязываются к его календарю, а не к серверному
func (s *AvailabilityService) providerDate(provider *domain.Provider, date time.Time) time.Time {
	location, err := time.LoadLocation(provider.TimeZone)
	if err != nil {
		s.logger.Warn("reconcile.provider.timezone_invalid", out.LogFields{
			"providerId": provider.ID,
			"timeZone":   provider.TimeZone,
		})
		location = date.Location()
	}

	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, location)
}

func (s *AvailabilityService) saveReport(ctx context.Context, report *domain.RunReport) {
	if s.storagePort == nil {
		return
	}

	if err := s.storagePort.SaveRunReport(ctx, report); err != nil {
		// Отчет уже собран и доступен, поэтому ошибка сохранения не роняет запуск
		s.logger.Error("reconcile.run.save_failed", out.LogFields{
			"runId": report.RunID,
			"error": err.Error(),
		})
	}
}

func filterProviders(providers []domain.Provider, providerIDs []string) []domain.Provider {
	if len(providerIDs) == 0 {
		return providers
	}

	wanted := make(map[string]struct{}, len(providerIDs))
	for _, id := range providerIDs {
		wanted[id] = struct{}{}
	}

	filtered := make([]domain.Provider, 0, len(providerIDs))
	for _, provider := range providers {
		if _, ok := wanted[provider.ID]; ok {
			filtered = append(filtered, provider)
		}
	}
	return filtered
}
