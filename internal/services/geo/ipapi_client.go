package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator approximates the caller's coordinates from the server's
// public IP. It stands in for a client-side positioning capability, so
// a disabled locator reports ErrNoCapability.
type IPLocator struct {
	apiURL  string
	enabled bool
	client  HTTPClient
	logger  zerolog.Logger
}

func NewIPLocator(apiURL string, enabled bool, client HTTPClient, logger zerolog.Logger) *IPLocator {
	return &IPLocator{apiURL: apiURL, enabled: enabled, client: client, logger: logger}
}

// Available reports whether the locator is configured at all.
func (l *IPLocator) Available() bool {
	return l.enabled
}

func (l *IPLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if !l.enabled {
		return models.Coordinates{}, ErrNoCapability
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.apiURL, nil)
	if err != nil {
		return models.Coordinates{}, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("url", l.apiURL).
			Msg("error sending HTTP request to IP locator")
		return models.Coordinates{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			l.logger.Error().
				Err(cerr).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		l.logger.Error().
			Str("status", resp.Status).
			Msg("IP locator returned non-200 status")
		return models.Coordinates{}, fmt.Errorf("ip locator error: status %s", resp.Status)
	}

	var raw ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		l.logger.Error().
			Err(err).
			Msg("failed to decode IP locator response")
		return models.Coordinates{}, err
	}

	if raw.Status != "success" {
		l.logger.Warn().
			Str("status", raw.Status).
			Str("message", raw.Message).
			Msg("IP locator refused the lookup")
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrDenied, raw.Message)
	}

	l.logger.Info().
		Float64("lat", raw.Lat).
		Float64("lon", raw.Lon).
		Str("city_hint", raw.City).
		Msg("located coordinates")

	return models.Coordinates{Lat: raw.Lat, Lon: raw.Lon}, nil
}
