package ehr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/json_types"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields) {}
func (nopLogger) Info(event string, fields out.LogFields)  {}
func (nopLogger) Warn(event string, fields out.LogFields)  {}
func (nopLogger) Error(event string, fields out.LogFields) {}

func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

func testAdapter(serverURL string) *EhrAdapter {
	cfg := &config.Config{}
	cfg.Ehr.URL = serverURL
	cfg.Ehr.Username = "svc"
	cfg.Ehr.Password = "secret"
	cfg.Ehr.UserID = "999"
	cfg.Ehr.UserIDType = "INTERNAL"
	cfg.Ehr.TimeoutSeconds = 5
	cfg.Ehr.RetryCount = 2
	cfg.Ehr.RetryBackoffMs = 1
	return NewEhrAdapter(cfg, nopLogger{})
}

func testQuery() out.ScheduleDayQuery {
	return out.ScheduleDayQuery{
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ProviderID:       "42",
		ProviderIDType:   "INTERNAL",
		DepartmentID:     "7",
		DepartmentIDType: "INTERNAL",
		VisitTypeID:      "100",
		VisitTypeIDType:  "INTERNAL",
	}
}

const validResponse = `{
	"date": "2025-03-10",
	"scheduleSlots": [
		{
			"startTime": "9:00 AM",
			"length": "30",
			"availableOpenings": "1",
			"originalOpenings": "1",
			"isPublic": true
		},
		{
			"startTime": "9:30 AM",
			"length": "30",
			"availableOpenings": "0",
			"originalOpenings": "1",
			"isPublic": true,
			"heldTimeReason": "Lunch",
			"heldTimeComment": "Daily"
		}
	]
}`

func TestGetScheduleDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/schedule/days", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "svc", username)
		assert.Equal(t, "secret", password)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req["providerId"])
		assert.Equal(t, "7", req["departmentId"])
		assert.Equal(t, "100", req["visitTypeId"])
		assert.Equal(t, "999", req["userId"])

		w.Write([]byte(validResponse))
	}))
	defer server.Close()

	day, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())
	require.NoError(t, err)

	require.Len(t, day.Slots, 2)

	open := day.Slots[0]
	assert.Equal(t, json_types.NewClockTime(9, 0), open.StartTime)
	assert.Equal(t, 30, open.LengthMinutes)
	assert.Equal(t, 1, open.AvailableOpenings)
	assert.True(t, open.IsPublic)
	assert.False(t, open.Blocked())

	held := day.Slots[1]
	assert.Equal(t, "Lunch", held.HeldReason)
	assert.True(t, held.Blocked())
}

func TestGetScheduleDayMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"не json", `<html>Internal error</html>`},
		{"нет списка слотов", `{"date":"2025-03-10"}`},
		{"число без кавычек", `{"date":"2025-03-10","scheduleSlots":[{"startTime":"9:00 AM","length":30,"availableOpenings":"1","originalOpenings":"1"}]}`},
		{"мусор вместо числа", `{"date":"2025-03-10","scheduleSlots":[{"startTime":"9:00 AM","length":"abc","availableOpenings":"1","originalOpenings":"1"}]}`},
		{"24-часовое время", `{"date":"2025-03-10","scheduleSlots":[{"startTime":"14:00","length":"30","availableOpenings":"1","originalOpenings":"1"}]}`},
		{"отрицательная длина", `{"date":"2025-03-10","scheduleSlots":[{"startTime":"9:00 AM","length":"-30","availableOpenings":"1","originalOpenings":"1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())

			require.Error(t, err)
			assert.ErrorIs(t, err, out.ErrMalformedResponse)

			// Сырое тело сохраняется для отчета
			var malformed *out.MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.body, malformed.Raw)

			// Некорректные данные не ретраятся
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestGetScheduleDayRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(validResponse))
	}))
	defer server.Close()

	day, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Len(t, day.Slots, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetScheduleDayRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
	// Первый запрос плюс два ретрая
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetScheduleDayClientErrorNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetScheduleDayEmptySlotList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":"2025-03-10","scheduleSlots":[]}`))
	}))
	defer server.Close()

	day, err := testAdapter(server.URL).GetScheduleDay(context.Background(), testQuery())

	// Пустой список слотов - валидный ответ: у врача просто нет расписания
	require.NoError(t, err)
	assert.NotNil(t, day.Slots)
	assert.Empty(t, day.Slots)
}
