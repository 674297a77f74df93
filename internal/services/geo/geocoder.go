package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

type geoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// OpenWeatherGeocoder turns coordinates into a place name via the
// OpenWeatherMap reverse geocoding API.
type OpenWeatherGeocoder struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewOpenWeatherGeocoder(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *OpenWeatherGeocoder {
	return &OpenWeatherGeocoder{apiKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

func (g *OpenWeatherGeocoder) ReverseGeocode(
	ctx context.Context,
	coords models.Coordinates,
) (models.Location, error) {
	reqURL := fmt.Sprintf("%s?lat=%f&lon=%f&limit=1&appid=%s",
		g.apiURL, coords.Lat, coords.Lon, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Location{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().
			Err(err).
			Float64("lat", coords.Lat).
			Float64("lon", coords.Lon).
			Msg("error sending HTTP request to geocoder")
		return models.Location{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.Error().
				Err(cerr).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		g.logger.Error().
			Str("status", resp.Status).
			Msg("geocoder returned non-200 status")
		return models.Location{}, fmt.Errorf("geocoder error: status %s", resp.Status)
	}

	var results []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		g.logger.Error().
			Err(err).
			Msg("failed to decode geocoder response")
		return models.Location{}, err
	}

	if len(results) == 0 {
		return models.Location{}, ErrNoMatch
	}

	r := results[0]
	return models.Location{
		Name:    r.Name,
		Country: r.Country,
		State:   r.State,
		Lat:     r.Lat,
		Lon:     r.Lon,
	}, nil
}
