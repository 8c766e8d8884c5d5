package cache

import (
	"context"
	"testing"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
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

func testCacheAdapter(t *testing.T) *CacheAdapter {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Size = 16

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	require.NotNil(t, adapter)
	return adapter
}

func dayKey(providerID, departmentID, visitTypeID, date string) domain.ScheduleDayKey {
	return domain.ScheduleDayKey{
		ProviderID:   providerID,
		DepartmentID: departmentID,
		VisitTypeID:  visitTypeID,
		Date:         date,
	}
}

func sampleDay() *domain.ScheduleDay {
	return &domain.ScheduleDay{
		Slots: []domain.ScheduleSlot{
			{StartTime: json_types.NewClockTime(9, 0), LengthMinutes: 30, AvailableOpenings: 1},
		},
	}
}

func TestCacheAdapterDisabled(t *testing.T) {
	cfg := &config.Config{}

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	assert.Nil(t, adapter)
}

func TestCacheAdapterStoreAndGet(t *testing.T) {
	adapter := testCacheAdapter(t)
	ctx := context.Background()
	key := dayKey("42", "7", "100", "2025-03-10")

	_, exists := adapter.GetScheduleDay(ctx, key)
	assert.False(t, exists)

	day := sampleDay()
	adapter.StoreScheduleDay(ctx, key, day)

	cached, exists := adapter.GetScheduleDay(ctx, key)
	require.True(t, exists)
	assert.Equal(t, day, cached)

	// Ключ различает тип визита
	_, exists = adapter.GetScheduleDay(ctx, dayKey("42", "7", "200", "2025-03-10"))
	assert.False(t, exists)
}

func TestCacheAdapterInvalidateScheduleDay(t *testing.T) {
	adapter := testCacheAdapter(t)
	ctx := context.Background()

	// Один день закэширован по двум типам визита, второй день не трогаем
	adapter.StoreScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-10"), sampleDay())
	adapter.StoreScheduleDay(ctx, dayKey("42", "7", "200", "2025-03-10"), sampleDay())
	adapter.StoreScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-11"), sampleDay())
	adapter.StoreScheduleDay(ctx, dayKey("43", "7", "100", "2025-03-10"), sampleDay())

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	adapter.InvalidateScheduleDay(ctx, "42", "7", date)

	// Инвалидация сносит день независимо от типа визита
	_, exists := adapter.GetScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-10"))
	assert.False(t, exists)
	_, exists = adapter.GetScheduleDay(ctx, dayKey("42", "7", "200", "2025-03-10"))
	assert.False(t, exists)

	// Соседний день и другой врач не затронуты
	_, exists = adapter.GetScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-11"))
	assert.True(t, exists)
	_, exists = adapter.GetScheduleDay(ctx, dayKey("43", "7", "100", "2025-03-10"))
	assert.True(t, exists)
}

func TestCacheAdapterInvalidateAll(t *testing.T) {
	adapter := testCacheAdapter(t)
	ctx := context.Background()

	adapter.StoreScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-10"), sampleDay())
	adapter.StoreScheduleDay(ctx, dayKey("43", "8", "", "2025-03-11"), sampleDay())

	adapter.InvalidateAll(ctx)

	_, exists := adapter.GetScheduleDay(ctx, dayKey("42", "7", "100", "2025-03-10"))
	assert.False(t, exists)
	_, exists = adapter.GetScheduleDay(ctx, dayKey("43", "8", "", "2025-03-11"))
	assert.False(t, exists)
}

func TestCacheAdapterStoreNil(t *testing.T) {
	adapter := testCacheAdapter(t)
	ctx := context.Background()
	key := dayKey("42", "7", "100", "2025-03-10")

	adapter.StoreScheduleDay(ctx, key, nil)

	_, exists := adapter.GetScheduleDay(ctx, key)
	assert.False(t, exists)
}
