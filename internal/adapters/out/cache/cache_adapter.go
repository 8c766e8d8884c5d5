package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// CacheAdapter - LRU-кэш ответов МИС по ключу (врач, отделение, тип визита, дата).
// Каждое попадание экономит один сетевой вызов к МИС.
type CacheAdapter struct {
	cache  *lru.Cache[domain.ScheduleDayKey, *domain.ScheduleDay]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruCache, err := lru.New[domain.ScheduleDayKey, *domain.ScheduleDay](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		cache:  lruCache,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetScheduleDay(ctx context.Context, key domain.ScheduleDayKey) (*domain.ScheduleDay, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	day, exists := c.cache.Get(key)
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"providerId":   key.ProviderID,
			"departmentId": key.DepartmentID,
			"date":         key.Date,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"providerId":   key.ProviderID,
		"departmentId": key.DepartmentID,
		"date":         key.Date,
		"slotsCount":   len(day.Slots),
	})
	return day, true
}

func (c *CacheAdapter) StoreScheduleDay(ctx context.Context, key domain.ScheduleDayKey, day *domain.ScheduleDay) {
	if day == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.store", out.LogFields{
		"providerId":   key.ProviderID,
		"departmentId": key.DepartmentID,
		"date":         key.Date,
		"slotsCount":   len(day.Slots),
	})
	c.cache.Add(key, day)
}

// InvalidateScheduleDay - сбрасывает все записи по врачу/отделению/дате,
// независимо от типа визита: событие о записи меняет день целиком
func (c *CacheAdapter) InvalidateScheduleDay(ctx context.Context, providerID, departmentID string, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dateKey := date.Format("2006-01-02")
	removed := 0
	for _, key := range c.cache.Keys() {
		if key.ProviderID == providerID && key.DepartmentID == departmentID && key.Date == dateKey {
			c.cache.Remove(key)
			removed++
		}
	}

	c.logger.Info("cache.invalidate.schedule_day", out.LogFields{
		"providerId":   providerID,
		"departmentId": departmentID,
		"date":         dateKey,
		"removedCount": removed,
	})
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
	c.logger.Info("cache.invalidate.all", out.LogFields{})
}
