package refresher

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
	"github.com/Priya-creates/weather-widget-api/internal/services/metrics"
)

const timeoutDuration = 30 * time.Second

type widgetRefresher interface {
	Refresh(ctx context.Context) models.WidgetView
}

// Refresher periodically re-fetches the widget's active city so the
// snapshot stays warm between user actions.
type Refresher struct {
	widget widgetRefresher
	logger zerolog.Logger
	cron   *cron.Cron
	cancel context.CancelFunc
	m      *metrics.Metrics
	spec   string
}

// New constructs a Refresher with structured logging and metrics.
func New(
	widget widgetRefresher,
	logger zerolog.Logger,
	spec string,
	m *metrics.Metrics,
) *Refresher {
	logger = logger.With().Str("component", "Refresher").Logger()
	c := cron.New(cron.WithSeconds())
	return &Refresher{
		widget: widget,
		logger: logger,
		cron:   c,
		m:      m,
		spec:   spec,
	}
}

// Start schedules the refresh job.
func (r *Refresher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if _, err := r.cron.AddFunc(r.spec, func() { r.RunOnce(ctx) }); err != nil {
		r.logger.Error().Err(err).Str("spec", r.spec).Msg("failed to schedule refresh job")
		r.m.TechnicalErrors.WithLabelValues("cron_schedule_error", "critical").Inc()
		return
	}

	r.cron.Start()
	r.logger.Info().Str("spec", r.spec).Msg("Weather refresher started")
}

// Stop cancels the scheduled job and waits for completion.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info().Msg("All cron jobs finished, refresher stopped")
}

// RunOnce triggers one refresh of the active city.
func (r *Refresher) RunOnce(ctx context.Context) {
	r.m.CronJob("refresh", func() {
		ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
		defer cancel()

		r.logger.Debug().Msg("starting refresh run")
		view := r.widget.Refresh(ctx)
		if view.City == "" {
			r.logger.Debug().Msg("no active city, nothing to refresh")
			return
		}
		r.logger.Info().Str("city", view.City).Msg("refresh triggered")
	})
}
