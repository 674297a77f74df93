package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

// j1Response mirrors the wttr.in format=j1 payload. Numeric fields
// arrive as strings.
type j1Response struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		Humidity    string `json:"humidity"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		Date      string `json:"date"`
		AvgTempC  string `json:"avgtempC"`
		Astronomy []struct {
			Sunrise string `json:"sunrise"`
		} `json:"astronomy"`
	} `json:"weather"`
}

// ClientWttrIn fetches weather data from the wttr.in JSON API.
type ClientWttrIn struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientWttrIn constructs a new wttr.in client.
func NewClientWttrIn(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientWttrIn {
	return &ClientWttrIn{apiURL: apiURL, client: httpClient, logger: logger}
}

// Fetch retrieves current conditions and the daily forecast for a city.
func (s *ClientWttrIn) Fetch(ctx context.Context, city string) (models.Snapshot, error) {
	start := time.Now()
	reqURL := fmt.Sprintf("%s/%s?format=j1", s.apiURL, url.PathEscape(city))

	s.logger.Debug().
		Str("city", city).
		Str("url", reqURL).
		Msg("starting wttr.in request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to create HTTP request")
		return models.Snapshot{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Str("url", reqURL).
			Msg("error sending HTTP request to wttr.in")
		return models.Snapshot{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error().
			Str("city", city).
			Str("status", resp.Status).
			Msg("wttr.in returned non-200 status")
		return models.Snapshot{}, fmt.Errorf("wttr.in error: status %s", resp.Status)
	}

	var raw j1Response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to decode wttr.in response")
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	snapshot, err := snapshotFromJ1(city, raw)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("wttr.in payload missing expected fields")
		return models.Snapshot{}, err
	}

	s.logger.Info().
		Str("city", city).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return snapshot, nil
}

func snapshotFromJ1(city string, raw j1Response) (models.Snapshot, error) {
	if len(raw.CurrentCondition) == 0 {
		return models.Snapshot{}, fmt.Errorf("%w: no current_condition entry", ErrMalformed)
	}

	cur := raw.CurrentCondition[0]
	temp, err := strconv.ParseFloat(cur.TempC, 64)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: temp_C %q", ErrMalformed, cur.TempC)
	}
	humidity, err := strconv.Atoi(cur.Humidity)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: humidity %q", ErrMalformed, cur.Humidity)
	}
	description := ""
	if len(cur.WeatherDesc) > 0 {
		description = cur.WeatherDesc[0].Value
	}

	forecast := make([]models.ForecastDay, 0, len(raw.Weather))
	for _, day := range raw.Weather {
		avg, err := strconv.ParseFloat(day.AvgTempC, 64)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: avgtempC %q", ErrMalformed, day.AvgTempC)
		}
		sunrise := ""
		if len(day.Astronomy) > 0 {
			sunrise = day.Astronomy[0].Sunrise
		}
		forecast = append(forecast, models.ForecastDay{
			Date:     day.Date,
			AvgTempC: avg,
			Sunrise:  sunrise,
		})
	}

	return models.Snapshot{
		City: city,
		Current: models.CurrentConditions{
			TemperatureC: temp,
			Humidity:     humidity,
			Description:  description,
		},
		Forecast: forecast,
	}, nil
}
