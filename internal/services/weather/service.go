package weather

import (
	"context"
	"errors"
	"net/http"
	"path"
	"reflect"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

// ErrMalformed marks provider responses that arrived but could not be
// interpreted, as opposed to transport or status failures.
var ErrMalformed = errors.New("malformed provider response")

type client interface {
	Fetch(ctx context.Context, city string) (models.Snapshot, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceProvider tries each configured provider in order and returns
// the first snapshot obtained.
type ServiceProvider struct {
	logger  zerolog.Logger
	clients []client
}

func NewService(logger zerolog.Logger, clients ...client) *ServiceProvider {
	return &ServiceProvider{clients: clients, logger: logger}
}

func getFuncName(fn interface{}) string {
	pc := reflect.ValueOf(fn).Pointer()
	return path.Base(runtime.FuncForPC(pc).Name())
}

func (s *ServiceProvider) GetByCity(ctx context.Context, city string) (models.Snapshot, error) {
	var errs []error
	for _, cl := range s.clients {
		s.logger.Info().
			Ctx(ctx).
			Str("client", getFuncName(cl.Fetch)).
			Str("city", city).
			Msg("calling Fetch")
		data, err := cl.Fetch(ctx, city)
		if err != nil {
			s.logger.Error().
				Ctx(ctx).
				Str("client", getFuncName(cl.Fetch)).
				Err(err).
				Msg("fetch failed")
			errs = append(errs, err)
			continue
		}
		s.logger.Info().
			Ctx(ctx).
			Str("client", getFuncName(cl.Fetch)).
			Msg("fetch succeeded")
		return data, nil
	}
	err := errors.Join(errs...)
	if err == nil {
		err = errors.New("no weather providers configured")
	}
	s.logger.Error().
		Err(err).
		Ctx(ctx).
		Str("city", city).
		Msg("all weather providers failed")
	return models.Snapshot{}, err
}
