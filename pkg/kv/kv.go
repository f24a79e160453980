package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the durable string-keyed storage surface used for cart persistence.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
