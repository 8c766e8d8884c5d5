package ehr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// EhrAdapter - HTTP-клиент эндпоинта поиска расписания МИС.
// Вся работа с текстовыми форматами МИС (12-часовое время, числа строками)
// заканчивается здесь: ядро видит только типизированные значения.
type EhrAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string

	userID     string
	userIDType string

	retryCount   int
	retryBackoff time.Duration

	logger out.LoggerPort
}

func NewEhrAdapter(cfg *config.Config, logger out.LoggerPort) *EhrAdapter {
	return &EhrAdapter{
		client:       &http.Client{Timeout: time.Duration(cfg.Ehr.TimeoutSeconds) * time.Second},
		baseURL:      cfg.Ehr.URL,
		username:     cfg.Ehr.Username,
		password:     cfg.Ehr.Password,
		userID:       cfg.Ehr.UserID,
		userIDType:   cfg.Ehr.UserIDType,
		retryCount:   cfg.Ehr.RetryCount,
		retryBackoff: time.Duration(cfg.Ehr.RetryBackoffMs) * time.Millisecond,
		logger:       logger,
	}
}

func (a *EhrAdapter) GetScheduleDay(ctx context.Context, query out.ScheduleDayQuery) (*domain.ScheduleDay, error) {
	a.logger.Debug("ehr.schedule_day.fetch", out.LogFields{
		"providerId":   query.ProviderID,
		"departmentId": query.DepartmentID,
		"date":         query.Date.Format("2006-01-02"),
		"visitTypeId":  query.VisitTypeID,
	})

	body, err := json.Marshal(newScheduleDayRequest(query, a.userID, a.userIDType))
	if err != nil {
		return nil, err
	}

	raw, err := a.doWithRetry(ctx, body)
	if err != nil {
		a.logger.Error("ehr.schedule_day.fetch_failed", out.LogFields{
			"providerId":   query.ProviderID,
			"departmentId": query.DepartmentID,
			"date":         query.Date.Format("2006-01-02"),
			"error":        err.Error(),
		})
		return nil, err
	}

	var response scheduleDayResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		a.logger.Error("ehr.schedule_day.decode_failed", out.LogFields{
			"providerId":   query.ProviderID,
			"departmentId": query.DepartmentID,
			"date":         query.Date.Format("2006-01-02"),
			"error":        err.Error(),
			"rawResponse":  string(raw),
		})
		return nil, &out.MalformedResponseError{Raw: string(raw), Err: err}
	}

	day, err := response.toDomain()
	if err != nil {
		a.logger.Error("ehr.schedule_day.invalid", out.LogFields{
			"providerId":   query.ProviderID,
			"departmentId": query.DepartmentID,
			"date":         query.Date.Format("2006-01-02"),
			"error":        err.Error(),
			"rawResponse":  string(raw),
		})
		return nil, &out.MalformedResponseError{Raw: string(raw), Err: err}
	}

	a.logger.Debug("ehr.schedule_day.fetch_success", out.LogFields{
		"providerId": query.ProviderID,
		"date":       query.Date.Format("2006-01-02"),
		"slotsCount": len(day.Slots),
	})

	return day, nil
}

// doWithRetry выполняет запрос с ограниченными ретраями.
// Ретраится только транспортная ошибка и 5xx; 4xx и ошибки парсинга - нет.
func (a *EhrAdapter) doWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/api/schedule/days", a.baseURL)

	var lastErr error
	for attempt := 0; attempt <= a.retryCount; attempt++ {
		if attempt > 0 {
			a.logger.Warn("ehr.schedule_day.retry", out.LogFields{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * a.retryBackoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(a.username, a.password)

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return raw, nil
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}
