package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// NotificationDeduper tracks notification deliveries that were already
// processed successfully. Seen is a read-only check; Mark commits the
// key once the delivery went through, so a failed delivery stays
// retryable.
type NotificationDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type redisNotificationDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisNotificationDeduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+":"+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *redisNotificationDeduper) Mark(ctx context.Context, key string) error {
	return d.client.SetNX(ctx, d.prefix+":"+key, "1", d.ttl).Err()
}

type memoryNotificationDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryNotificationDeduper(ttl time.Duration) *memoryNotificationDeduper {
	now := time.Now()
	return &memoryNotificationDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryNotificationDeduper) Seen(_ context.Context, key string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.seen[key]
	return ok && exp.After(now), nil
}

func (d *memoryNotificationDeduper) Mark(_ context.Context, key string) error {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[key] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for k, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, k)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}
	return nil
}

// NewNotificationDeduper builds a Redis deduper and falls back to
// in-memory on failure.
func NewNotificationDeduper(addr, pass string, db int, ttl time.Duration) (NotificationDeduper, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemoryNotificationDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryNotificationDeduper(ttl), err
	}

	return &redisNotificationDeduper{
		client: client,
		prefix: "ipn:seen",
		ttl:    ttl,
	}, nil
}

// IPNDedup acknowledges duplicate deliveries of the same notification
// (same sale_id and notification_type) with a 2xx before the processor
// runs. A delivery counts as seen only once it was answered with a 2xx;
// failed deliveries stay retryable. This is a shortcut only; the state
// guards in the transition engine remain the real idempotence mechanism.
func IPNDedup(deduper NotificationDeduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			if req.Method != http.MethodPost || req.Body == nil {
				return next(c)
			}

			rawBody, err := io.ReadAll(req.Body)
			if err != nil {
				return next(c)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(rawBody))
			if len(rawBody) == 0 {
				return next(c)
			}

			var payload struct {
				SaleID string `json:"sale_id"`
				Type   string `json:"notification_type"`
			}
			if err := json.Unmarshal(rawBody, &payload); err != nil || payload.SaleID == "" || payload.Type == "" {
				return next(c)
			}

			key := payload.SaleID + "|" + payload.Type
			isDuplicate, err := deduper.Seen(req.Context(), key)
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				// The gateway only needs a 2xx response to stop retries.
				return c.NoContent(http.StatusOK)
			}

			if err := next(c); err != nil {
				return err
			}
			// Only a delivery the processor accepted may stop future
			// retries; a failed one must stay retryable.
			if c.Response().Status < http.StatusMultipleChoices {
				_ = deduper.Mark(req.Context(), key)
			}
			return nil
		}
	}
}
