package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"food-storefront/internal/models"
)

// ErrOrderNotFound is returned for order ids the board has never seen
var ErrOrderNotFound = errors.New("order not found")

// Board is the current-status lookup per order. Writes overwrite; the last
// write wins. NextOrderSequence hands out the per-day order counter so
// numbering survives restarts and is shared between instances.
type Board interface {
	Current(ctx context.Context, orderID string) (models.OrderStatus, error)
	Set(ctx context.Context, orderID string, status models.OrderStatus) error
	NextOrderSequence(ctx context.Context, day string) (int, error)
}

// sequenceTTL outlives the day a counter belongs to
const sequenceTTL = 48 * time.Hour

// MemoryBoard keeps statuses in process memory
type MemoryBoard struct {
	mu        sync.RWMutex
	statuses  map[string]models.OrderStatus
	sequences map[string]int
}

// NewMemoryBoard creates an empty in-process board
func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{
		statuses:  make(map[string]models.OrderStatus),
		sequences: make(map[string]int),
	}
}

func (b *MemoryBoard) Current(_ context.Context, orderID string) (models.OrderStatus, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	status, ok := b.statuses[orderID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return status, nil
}

func (b *MemoryBoard) Set(_ context.Context, orderID string, status models.OrderStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.statuses[orderID] = status
	return nil
}

// NextOrderSequence counts orders per day in memory
func (b *MemoryBoard) NextOrderSequence(_ context.Context, day string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sequences[day]++
	return b.sequences[day], nil
}

// RedisBoard stores each status under order_status:{id}
type RedisBoard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBoard wraps a connected client. A zero ttl keeps keys forever.
func NewRedisBoard(client *redis.Client, ttl time.Duration) *RedisBoard {
	return &RedisBoard{client: client, ttl: ttl}
}

func statusKey(orderID string) string {
	return "order_status:" + orderID
}

func sequenceKey(day string) string {
	return "order_seq:" + day
}

// Current reads order_status:{id}
func (b *RedisBoard) Current(ctx context.Context, orderID string) (models.OrderStatus, error) {
	val, err := b.client.Get(ctx, statusKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read order status: %w", err)
	}

	status, err := models.ParseOrderStatus(val)
	if err != nil {
		return "", fmt.Errorf("corrupt status for order %s: %w", orderID, err)
	}
	return status, nil
}

// Set writes the status with the board's TTL
func (b *RedisBoard) Set(ctx context.Context, orderID string, status models.OrderStatus) error {
	if err := b.client.Set(ctx, statusKey(orderID), string(status), b.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write order status: %w", err)
	}
	return nil
}

// NextOrderSequence increments order_seq:{day}. The key expires after two
// days so old counters do not pile up.
func (b *RedisBoard) NextOrderSequence(ctx context.Context, day string) (int, error) {
	pipe := b.client.TxPipeline()
	incr := pipe.Incr(ctx, sequenceKey(day))
	pipe.Expire(ctx, sequenceKey(day), sequenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment order sequence: %w", err)
	}
	return int(incr.Val()), nil
}

// Ping checks the redis connection
func (b *RedisBoard) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
