package decorators

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

type snapshotGetter interface {
	GetByCity(ctx context.Context, city string) (models.Snapshot, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService serves snapshots from cache and falls back to the
// provider chain on a miss.
type CachedService struct {
	inner  snapshotGetter
	cache  cacheClient[models.Snapshot]
	logger zerolog.Logger
}

func NewCachedService(
	inner snapshotGetter,
	cache cacheClient[models.Snapshot],
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{inner: inner, cache: cache, logger: logger}
}

func (s *CachedService) GetByCity(ctx context.Context, city string) (models.Snapshot, error) {
	key := fmt.Sprintf("weather:%s", city)

	snapshot, err := s.cache.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Msg("cache hit")
		return snapshot, nil
	}
	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Str("key", key).
		Err(err).
		Msg("cache miss")

	snapshot, err = s.inner.GetByCity(ctx, city)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Err(err).
			Msg("inner service failed")
		return models.Snapshot{}, err
	}

	if err := s.cache.Set(ctx, key, snapshot); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return snapshot, nil
}
