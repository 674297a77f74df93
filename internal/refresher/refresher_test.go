//go:build unit

package refresher_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Priya-creates/weather-widget-api/internal/models"
	"github.com/Priya-creates/weather-widget-api/internal/refresher"
	"github.com/Priya-creates/weather-widget-api/internal/services/metrics"
)

type mockWidget struct {
	mock.Mock
}

func (m *mockWidget) Refresh(ctx context.Context) models.WidgetView {
	args := m.Called(ctx)
	view, ok := args.Get(0).(models.WidgetView)
	if !ok {
		return models.WidgetView{}
	}
	return view
}

func TestRunOnce_TriggersRefresh(t *testing.T) {
	w := &mockWidget{}
	w.On("Refresh", mock.Anything).Return(models.WidgetView{City: "Kyiv"}).Once()

	t.Cleanup(func() {
		w.AssertExpectations(t)
	})

	m := metrics.NewMetrics("refresher_test", nil, "")
	r := refresher.New(w, zerolog.Nop(), "0 */15 * * * *", m)

	r.RunOnce(context.Background())
}

func TestRunOnce_NoActiveCity(t *testing.T) {
	w := &mockWidget{}
	w.On("Refresh", mock.Anything).Return(models.WidgetView{}).Once()

	t.Cleanup(func() {
		w.AssertExpectations(t)
	})

	m := metrics.NewMetrics("refresher_test", nil, "")
	r := refresher.New(w, zerolog.Nop(), "0 */15 * * * *", m)

	r.RunOnce(context.Background())
}

type countingWidget struct {
	calls atomic.Int32
}

func (c *countingWidget) Refresh(_ context.Context) models.WidgetView {
	c.calls.Add(1)
	return models.WidgetView{City: "Kyiv"}
}

func TestStartStop_RunsOnSchedule(t *testing.T) {
	w := &countingWidget{}

	m := metrics.NewMetrics("refresher_test", nil, "")
	r := refresher.New(w, zerolog.Nop(), "* * * * * *", m)

	r.Start(context.Background())
	t.Cleanup(r.Stop)

	assert.Eventually(t, func() bool {
		return w.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond, "job should fire on the every-second spec")
}

func TestStart_InvalidSpec(t *testing.T) {
	w := &mockWidget{}

	m := metrics.NewMetrics("refresher_test", nil, "")
	r := refresher.New(w, zerolog.Nop(), "not a cron spec", m)

	r.Start(context.Background())
	t.Cleanup(r.Stop)

	time.Sleep(50 * time.Millisecond)
	w.AssertNumberOfCalls(t, "Refresh", 0)
}
