package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
	"github.com/Priya-creates/weather-widget-api/internal/services/geo"
	"github.com/Priya-creates/weather-widget-api/internal/services/metrics"
	"github.com/Priya-creates/weather-widget-api/internal/services/weather"
)

const fetchTimeout = 10 * time.Second

// Fetch triggers, used as metric labels.
const (
	TriggerInit    = "init"
	TriggerLocate  = "locate"
	TriggerSubmit  = "submit"
	TriggerRefresh = "refresh"
)

// User-facing messages for the error taxonomy. Every failure the widget
// can hit collapses into exactly one of these.
const (
	msgNoCapability = "Location detection is not supported. Showing the default city."
	msgDenied       = "Location access was refused. Search for a city manually."
	msgGeocodeEmpty = "Could not determine your city. Search for a city manually."
	msgFetchFailed  = "Could not load weather. Please try again."
	msgParseFailed  = "Weather data was unreadable. Please try again."
)

type snapshotGetter interface {
	GetByCity(ctx context.Context, city string) (models.Snapshot, error)
}

type cityDetector interface {
	Available() bool
	DetectCity(ctx context.Context) (string, error)
}

type stateRepository interface {
	GetLastCity(ctx context.Context) (string, bool, error)
	SaveLastCity(ctx context.Context, city string) error
}

// state is the widget's whole world: one struct, one mutex, one update
// entry point per operation.
type state struct {
	city       string
	unit       models.Unit
	permission models.Permission
	loading    bool
	locating   bool
	errMsg     string
	snapshot   *models.Snapshot
	seq        uint64
}

// Service owns the widget state and orchestrates the three external
// calls: city detection, weather fetch, last-city persistence.
//
// Operations never return an error; failures become the view's error
// message. A fetch is started whenever Search City changes (or on
// explicit submit) and runs detached from the caller's request, tagged
// with a sequence number; only the latest fetch may apply its result.
type Service struct {
	weather     snapshotGetter
	geo         cityDetector
	repo        stateRepository
	logger      zerolog.Logger
	m           *metrics.Metrics
	defaultCity string

	mu sync.Mutex
	st state
	wg sync.WaitGroup
}

func New(
	weatherSvc snapshotGetter,
	geoSvc cityDetector,
	repo stateRepository,
	logger zerolog.Logger,
	m *metrics.Metrics,
	defaultCity string,
) *Service {
	logger = logger.With().Str("component", "Widget").Logger()
	return &Service{
		weather:     weatherSvc,
		geo:         geoSvc,
		repo:        repo,
		logger:      logger,
		m:           m,
		defaultCity: defaultCity,
		st:          state{unit: models.UnitCelsius, permission: models.PermissionUnknown},
	}
}

// Initialize restores the last session: a persisted city wins, then
// location detection, then the default city with a capability error.
func (s *Service) Initialize(ctx context.Context) models.WidgetView {
	city, found, err := s.repo.GetLastCity(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("reading persisted city failed")
	}

	if found {
		s.logger.Info().Str("city", city).Msg("initializing from persisted city")
		s.mu.Lock()
		defer s.mu.Unlock()
		s.setCityLocked(ctx, city, TriggerInit)
		s.st.permission = models.PermissionGranted
		return s.viewLocked()
	}

	if s.geo.Available() {
		s.logger.Info().Msg("no persisted city, requesting location")
		return s.RequestLocation(ctx)
	}

	s.logger.Info().Msg("no persisted city and no location capability, using default city")
	s.m.RecordLocate("capability_missing")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCityLocked(ctx, s.defaultCity, TriggerInit)
	s.st.permission = models.PermissionDenied
	s.st.errMsg = msgNoCapability
	return s.viewLocked()
}

// RequestLocation resolves the caller's city and fetches its weather.
// A second call while one is pending is a no-op.
func (s *Service) RequestLocation(ctx context.Context) models.WidgetView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.locating {
		s.logger.Debug().Msg("location request already pending")
		return s.viewLocked()
	}
	s.st.locating = true

	dctx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		lctx, cancel := context.WithTimeout(dctx, fetchTimeout)
		defer cancel()

		city, err := s.geo.DetectCity(lctx)
		s.applyLocation(dctx, city, err)
	}()

	return s.viewLocked()
}

func (s *Service) applyLocation(ctx context.Context, city string, err error) {
	s.mu.Lock()
	s.st.locating = false

	switch {
	case err == nil:
		s.m.RecordLocate("ok")
		s.setCityLocked(ctx, city, TriggerLocate)
		s.st.permission = models.PermissionGranted
		s.st.errMsg = ""
	case errors.Is(err, geo.ErrNoCapability):
		s.m.RecordLocate("capability_missing")
		s.setCityLocked(ctx, s.defaultCity, TriggerLocate)
		s.st.permission = models.PermissionDenied
		s.st.errMsg = msgNoCapability
	case errors.Is(err, geo.ErrNoMatch):
		s.m.RecordLocate("geocode_empty")
		s.setCityLocked(ctx, s.defaultCity, TriggerLocate)
		s.st.permission = models.PermissionDenied
		s.st.errMsg = msgGeocodeEmpty
	default:
		s.m.RecordLocate("denied")
		s.setCityLocked(ctx, s.defaultCity, TriggerLocate)
		s.st.permission = models.PermissionDenied
		s.st.errMsg = msgDenied
	}
	s.mu.Unlock()

	if err == nil {
		if perr := s.repo.SaveLastCity(ctx, city); perr != nil {
			s.logger.Error().Err(perr).Str("city", city).Msg("persisting city failed")
		}
	}
}

// Submit sets Search City from manual input and always fetches it,
// even when the city is unchanged. Blank input is ignored.
func (s *Service) Submit(ctx context.Context, city string) models.WidgetView {
	city = strings.TrimSpace(city)

	s.mu.Lock()
	defer s.mu.Unlock()

	if city == "" {
		return s.viewLocked()
	}

	s.st.city = city
	s.startFetchLocked(ctx, TriggerSubmit)
	return s.viewLocked()
}

// Refresh re-fetches the current city, if any. Used by the background
// refresher.
func (s *Service) Refresh(ctx context.Context) models.WidgetView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.city == "" {
		return s.viewLocked()
	}
	s.startFetchLocked(ctx, TriggerRefresh)
	return s.viewLocked()
}

// ToggleUnit flips the display unit. Purely local: no network call, no
// snapshot mutation.
func (s *Service) ToggleUnit() models.WidgetView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.unit = s.st.unit.Toggle()
	s.m.UnitToggles.Inc()
	return s.viewLocked()
}

// View renders the current state without changing it.
func (s *Service) View() models.WidgetView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Close waits for in-flight fetches to finish. Each one carries a
// bounded timeout, so this returns promptly.
func (s *Service) Close() {
	s.wg.Wait()
}

// setCityLocked applies a change-driven city update: a fetch starts
// only when the value actually changes.
func (s *Service) setCityLocked(ctx context.Context, city, trigger string) {
	if s.st.city == city {
		return
	}
	s.st.city = city
	s.startFetchLocked(ctx, trigger)
}

// startFetchLocked clears the error, sets loading and launches the
// provider call for the current city under a fresh sequence number.
// Callers that need an error visible alongside the running fetch set it
// after this returns.
func (s *Service) startFetchLocked(ctx context.Context, trigger string) {
	s.st.errMsg = ""
	s.st.loading = true
	s.st.seq++

	seq := s.st.seq
	city := s.st.city
	dctx := context.WithoutCancel(ctx)

	s.logger.Debug().
		Str("city", city).
		Str("trigger", trigger).
		Uint64("seq", seq).
		Msg("starting fetch")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fctx, cancel := context.WithTimeout(dctx, fetchTimeout)
		defer cancel()

		snapshot, err := s.weather.GetByCity(fctx, city)
		s.applyFetch(seq, trigger, snapshot, err)
	}()
}

// applyFetch applies a fetch result only if it is still the latest.
func (s *Service) applyFetch(seq uint64, trigger string, snapshot models.Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.st.seq {
		s.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", s.st.seq).
			Msg("discarding stale fetch result")
		s.m.StaleDrops.Inc()
		s.m.RecordFetch(trigger, "stale")
		return
	}

	s.st.loading = false
	if err != nil {
		if errors.Is(err, weather.ErrMalformed) {
			s.st.errMsg = msgParseFailed
			s.m.RecordFetch(trigger, "parse_failed")
		} else {
			s.st.errMsg = msgFetchFailed
			s.m.RecordFetch(trigger, "fetch_failed")
		}
		s.logger.Warn().
			Err(err).
			Str("city", s.st.city).
			Msg("fetch failed, keeping previous snapshot")
		return
	}

	s.st.snapshot = &snapshot
	s.st.errMsg = ""
	s.m.RecordFetch(trigger, "ok")
	s.logger.Info().
		Str("city", snapshot.City).
		Msg("snapshot replaced")
}

const forecastDays = 3

// viewLocked renders the state: temperatures converted per display
// unit, forecast trimmed to the first three entries in API order.
func (s *Service) viewLocked() models.WidgetView {
	view := models.WidgetView{
		City:       s.st.city,
		Unit:       s.st.unit,
		Loading:    s.st.loading,
		Locating:   s.st.locating,
		Error:      s.st.errMsg,
		Permission: s.st.permission,
	}

	if s.st.snapshot == nil {
		return view
	}

	snap := s.st.snapshot
	view.Current = &models.CurrentView{
		Temperature: s.st.unit.Convert(snap.Current.TemperatureC),
		Humidity:    snap.Current.Humidity,
		Description: snap.Current.Description,
	}

	days := snap.Forecast
	if len(days) > forecastDays {
		days = days[:forecastDays]
	}
	view.Forecast = make([]models.ForecastView, 0, len(days))
	for _, day := range days {
		view.Forecast = append(view.Forecast, models.ForecastView{
			Date:    day.Date,
			AvgTemp: s.st.unit.Convert(day.AvgTempC),
			Sunrise: day.Sunrise,
		})
	}
	return view
}
