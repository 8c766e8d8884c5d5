package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// PostgresAdapter - каталог врачей и журнал запусков в Postgres.
// Схема создается заранее миграциями, адаптер ее не трогает.
type PostgresAdapter struct {
	pool   *pgxpool.Pool
	logger out.LoggerPort
}

func NewPostgresAdapter(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (*PostgresAdapter, error) {
	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &PostgresAdapter{
		pool:   pool,
		logger: logger.WithModule("PostgresAdapter"),
	}, nil
}

func (a *PostgresAdapter) Close() {
	a.pool.Close()
}

const providersQuery = `
SELECT id, id_type, name, time_zone, filter_mode
FROM providers
WHERE active
ORDER BY name, id`

const departmentsQuery = `
SELECT provider_id, id, id_type, name
FROM provider_departments
ORDER BY provider_id, id`

const appointmentTypesQuery = `
SELECT provider_id, id, name, duration_minutes,
       COALESCE(visit_type_id, ''), COALESCE(visit_type_id_type, '')
FROM provider_appointment_types
ORDER BY provider_id, name`

// LoadProviders - каталог врачей с отделениями и типами приема.
// Три запроса вместо JOIN: строки раскладываются по врачам в памяти.
func (a *PostgresAdapter) LoadProviders(ctx context.Context) ([]domain.Provider, error) {
	rows, err := a.pool.Query(ctx, providersQuery)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}

	var providers []domain.Provider
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Provider
		var filterMode string
		if err := rows.Scan(&p.ID, &p.IDType, &p.Name, &p.TimeZone, &filterMode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		p.FilterMode = domain.FilterMode(filterMode)
		index[p.ID] = len(providers)
		providers = append(providers, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read providers: %w", err)
	}

	if err := a.loadDepartments(ctx, providers, index); err != nil {
		return nil, err
	}
	if err := a.loadAppointmentTypes(ctx, providers, index); err != nil {
		return nil, err
	}

	a.logger.Debug("storage.providers.loaded", out.LogFields{
		"providersCount": len(providers),
	})
	return providers, nil
}

func (a *PostgresAdapter) loadDepartments(ctx context.Context, providers []domain.Provider, index map[string]int) error {
	rows, err := a.pool.Query(ctx, departmentsQuery)
	if err != nil {
		return fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var providerID string
		var d domain.Department
		if err := rows.Scan(&providerID, &d.ID, &d.IDType, &d.Name); err != nil {
			return fmt.Errorf("scan department: %w", err)
		}
		if i, ok := index[providerID]; ok {
			providers[i].Departments = append(providers[i].Departments, d)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read departments: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) loadAppointmentTypes(ctx context.Context, providers []domain.Provider, index map[string]int) error {
	rows, err := a.pool.Query(ctx, appointmentTypesQuery)
	if err != nil {
		return fmt.Errorf("query appointment types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var providerID string
		var t domain.AppointmentType
		if err := rows.Scan(&providerID, &t.ID, &t.Name, &t.DurationMinutes, &t.VisitTypeID, &t.VisitTypeIDType); err != nil {
			return fmt.Errorf("scan appointment type: %w", err)
		}
		if i, ok := index[providerID]; ok {
			providers[i].AppointmentTypes = append(providers[i].AppointmentTypes, t)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read appointment types: %w", err)
	}
	return nil
}

const insertRunQuery = `
INSERT INTO reconciliation_runs (id, start_date, end_date, results_count, failures_count)
VALUES ($1, $2, $3, $4, $5)`

const insertProposalQuery = `
INSERT INTO proposed_appointments
    (run_id, appointment_type_id, provider_id, department_id, start_date_time, duration_minutes)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertFailureQuery = `
INSERT INTO unit_failures
    (run_id, provider_id, department_id, date, visit_type_id, reason, raw_response)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// SaveRunReport - запись отчета одним батчем в транзакции:
// либо запуск сохранен целиком, либо не сохранен вовсе
func (a *PostgresAdapter) SaveRunReport(ctx context.Context, report *domain.RunReport) error {
	batch := &pgx.Batch{}
	batch.Queue(insertRunQuery,
		report.RunID, report.StartDate, report.EndDate,
		len(report.Results), len(report.Failures))

	proposalsCount := 0
	for _, result := range report.Results {
		for _, p := range result.Proposed {
			batch.Queue(insertProposalQuery,
				report.RunID, p.AppointmentTypeID, p.ProviderID, p.DepartmentID,
				p.StartDateTime, p.DurationMinutes)
			proposalsCount++
		}
	}
	for _, f := range report.Failures {
		visitTypeID := nullableString(f.VisitTypeID)
		rawResponse := nullableString(f.RawResponse)
		batch.Queue(insertFailureQuery,
			report.RunID, f.ProviderID, f.DepartmentID, f.Date,
			visitTypeID, f.Reason, rawResponse)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save run report %s: %w", report.RunID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run report %s: %w", report.RunID, err)
	}

	a.logger.Info("storage.report.saved", out.LogFields{
		"runId":          report.RunID,
		"proposalsCount": proposalsCount,
		"failuresCount":  len(report.Failures),
	})
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
