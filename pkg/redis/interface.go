package redis

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/client_mock.go -package=mock

// Client is the Redis surface the snapshot store depends on.
type Client interface {
	Connect(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Close() error
}
