package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

// Sentinel errors for the location path. Callers branch on these to
// pick the user-facing message.
var (
	ErrNoCapability = errors.New("location detection is not available")
	ErrDenied       = errors.New("location request was refused")
	ErrNoMatch      = errors.New("no city name for coordinates")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type locator interface {
	Available() bool
	Locate(ctx context.Context) (models.Coordinates, error)
}

type geocoder interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (models.Location, error)
}

// Service resolves the caller's city: locate coordinates first, then
// reverse-geocode them to a place name.
type Service struct {
	locator  locator
	geocoder geocoder
	logger   zerolog.Logger
}

func NewService(locator locator, geocoder geocoder, logger zerolog.Logger) *Service {
	return &Service{locator: locator, geocoder: geocoder, logger: logger}
}

// Available reports whether the location capability exists at all,
// without spending a lookup.
func (s *Service) Available() bool {
	return s.locator.Available()
}

func (s *Service) DetectCity(ctx context.Context) (string, error) {
	coords, err := s.locator.Locate(ctx)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Msg("locate failed")
		if errors.Is(err, ErrNoCapability) || errors.Is(err, ErrDenied) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrDenied, err)
	}

	loc, err := s.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Float64("lat", coords.Lat).
			Float64("lon", coords.Lon).
			Msg("reverse geocode failed")
		if errors.Is(err, ErrNoMatch) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrNoMatch, err)
	}
	if loc.Name == "" {
		return "", ErrNoMatch
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", loc.Name).
		Str("country", loc.Country).
		Msg("detected city")
	return loc.Name, nil
}
