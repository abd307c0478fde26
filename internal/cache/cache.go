// Package cache is an optional Redis read-through for the catalog and
// schedule reads the booking views hit on every request. When no Redis
// client is configured every call falls through to the store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberbook/internal/events"
	"barberbook/internal/model"
)

const (
	keyStylists = "catalog:stylists"
	keyServices = "catalog:services"
	keySchedule = "schedule:weekly"
)

// Source is the slice of the store the cache sits in front of.
type Source interface {
	ListStylists(ctx context.Context) ([]model.Stylist, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	GetSchedule(ctx context.Context) (*model.WeeklySchedule, error)
}

// Catalog caches stylists, services and the weekly schedule in Redis.
// Writes go through the store and invalidate via the event bus, so
// entries never outlive a change by more than one publish.
type Catalog struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	sub *events.Subscription
}

// NewCatalog wraps source. rdb may be nil, in which case the cache is
// a transparent pass-through.
func NewCatalog(source Source, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *Catalog {
	return &Catalog{source: source, rdb: rdb, ttl: ttl, logger: logger}
}

// WatchSchedule subscribes to schedule changes and drops the cached
// weekly schedule when one arrives. Call Close to stop watching.
func (c *Catalog) WatchSchedule(ctx context.Context, bus *events.Bus) {
	if c.rdb == nil || bus == nil {
		return
	}
	c.sub = bus.Subscribe(events.TopicSchedule)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-c.sub.Events:
				if !ok {
					return
				}
				c.invalidate(ctx, keySchedule)
			}
		}
	}()
}

// Close unsubscribes the schedule watcher.
func (c *Catalog) Close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
}

// ListStylists returns the cached stylist list, filling from the store
// on a miss.
func (c *Catalog) ListStylists(ctx context.Context) ([]model.Stylist, error) {
	var stylists []model.Stylist
	if c.readCache(ctx, keyStylists, &stylists) {
		return stylists, nil
	}
	stylists, err := c.source.ListStylists(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, keyStylists, stylists)
	return stylists, nil
}

// ListServices returns the cached service list, filling from the store
// on a miss.
func (c *Catalog) ListServices(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	if c.readCache(ctx, keyServices, &services) {
		return services, nil
	}
	services, err := c.source.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, keyServices, services)
	return services, nil
}

// GetSchedule returns the cached weekly schedule, filling from the
// store on a miss.
func (c *Catalog) GetSchedule(ctx context.Context) (*model.WeeklySchedule, error) {
	var schedule model.WeeklySchedule
	if c.readCache(ctx, keySchedule, &schedule) {
		return &schedule, nil
	}
	fresh, err := c.source.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, keySchedule, fresh)
	return fresh, nil
}

// InvalidateCatalog drops the stylist and service entries. Admin
// catalog writes call this after the store commit.
func (c *Catalog) InvalidateCatalog(ctx context.Context) {
	c.invalidate(ctx, keyStylists, keyServices)
}

func (c *Catalog) readCache(ctx context.Context, key string, out any) bool {
	if c.rdb == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Catalog) writeCache(ctx context.Context, key string, val any) {
	if c.rdb == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Catalog) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
