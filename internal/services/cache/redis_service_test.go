package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priya-creates/weather-widget-api/internal/models"
	"github.com/Priya-creates/weather-widget-api/internal/services/cache"
)

const testTTL = 5 * time.Minute

func newTestClient(t *testing.T) (*cache.RedisClient[models.Snapshot], *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisClient[models.Snapshot](client, zerolog.Nop(), testTTL), mr
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		City: "Paris",
		Current: models.CurrentConditions{
			TemperatureC: 22.5,
			Humidity:     40,
			Description:  "clear sky",
		},
		Forecast: []models.ForecastDay{
			{Date: "2025-07-01", AvgTempC: 21, Sunrise: "05:12 AM"},
		},
	}
}

func TestRedisClient_SetAndGet(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Paris", sampleSnapshot()))

	got, err := c.Get(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.City)
	assert.Equal(t, 22.5, got.Current.TemperatureC)
	assert.Equal(t, "clear sky", got.Current.Description)
	require.Len(t, got.Forecast, 1)
	assert.Equal(t, "05:12 AM", got.Forecast[0].Sunrise)
}

func TestRedisClient_Get_Miss(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisClient_Get_Expired(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Paris", sampleSnapshot()))
	mr.FastForward(testTTL + time.Second)

	_, err := c.Get(ctx, "Paris")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisClient_Get_CorruptedEntry(t *testing.T) {
	c, mr := newTestClient(t)

	mr.Set("Paris", "{not json")

	_, err := c.Get(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)
}

type fakeCollector struct {
	counters  map[string]int
	latencies map[string]int
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{counters: map[string]int{}, latencies: map[string]int{}}
}

func (f *fakeCollector) ObserveLatency(operation string, _ time.Duration) {
	f.latencies[operation]++
}

func (f *fakeCollector) IncrementCounter(metric string, labels ...string) {
	key := metric
	for _, l := range labels {
		key += ":" + l
	}
	f.counters[key]++
}

func TestMetricsDecorator_CountsOutcomes(t *testing.T) {
	c, _ := newTestClient(t)
	collector := newFakeCollector()
	decorated := cache.NewMetricsDecorator[models.Snapshot](c, collector)
	ctx := context.Background()

	_, err := decorated.Get(ctx, "Paris")
	require.Error(t, err)

	require.NoError(t, decorated.Set(ctx, "Paris", sampleSnapshot()))

	_, err = decorated.Get(ctx, "Paris")
	require.NoError(t, err)

	assert.Equal(t, 1, collector.counters["cache_get:miss"])
	assert.Equal(t, 1, collector.counters["cache_get:hit"])
	assert.Equal(t, 1, collector.counters["cache_set:success"])
	assert.Equal(t, 2, collector.latencies["cache_get"])
	assert.Equal(t, 1, collector.latencies["cache_set"])
}
