package usecase

import (
	"context"
	"time"
)

// Cache is the JSON cache the list usecases read through.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// NopCache never hits and accepts every write.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (NopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, string) error                      { return nil }
func (NopCache) DeleteByPattern(context.Context, string) error             { return nil }
