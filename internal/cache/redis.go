package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/interval"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client    *redis.Client
	slotsTTL  time.Duration
	eventsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, slotsTTL, eventsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		slotsTTL:  slotsTTL,
		eventsTTL: eventsTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetSlots returns nil on a miss. A cached fully booked day comes back as an
// empty, non-nil slice.
func (c *RedisCache) GetSlots(ctx context.Context, date string, excludeID int64) ([]interval.Slot, error) {
	data, err := c.client.HGet(ctx, slotsKey(date), slotsField(excludeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	slots := make([]interval.Slot, 0)
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RedisCache) SetSlots(ctx context.Context, date string, excludeID int64, slots []interval.Slot) error {
	if slots == nil {
		slots = []interval.Slot{}
	}
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	key := slotsKey(date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, slotsField(excludeID), payload)
	pipe.Expire(ctx, key, c.slotsTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSlots drops every cached variant for the given dates.
func (c *RedisCache) InvalidateSlots(ctx context.Context, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, slotsKey(d))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := c.client.Get(ctx, eventsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsKey(), payload, c.eventsTTL).Err()
}

// AcquireScheduleLock serializes conflict checks and writes across instances.
// The venue has a single calendar, so there is one lock. The returned token
// must be handed back to ReleaseScheduleLock.
func (c *RedisCache) AcquireScheduleLock(ctx context.Context, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, scheduleLockKey(), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseScheduleLock is a no-op when the lock expired and someone else took
// it in the meantime.
func (c *RedisCache) ReleaseScheduleLock(ctx context.Context, token string) error {
	return releaseLock(ctx, c.client, scheduleLockKey(), token)
}

func releaseLock(ctx context.Context, s redis.Scripter, key, token string) error {
	return releaseLockScript.Run(ctx, s, []string{key}, token).Err()
}

func slotsKey(date string) string {
	return fmt.Sprintf("cache:slots:%s", date)
}

func slotsField(excludeID int64) string {
	return "exclude:" + strconv.FormatInt(excludeID, 10)
}

func eventsKey() string {
	return "cache:events:public"
}

func scheduleLockKey() string {
	return "lock:schedule"
}
