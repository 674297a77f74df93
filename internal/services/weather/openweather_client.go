package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

type owmCurrentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

type owmForecastResponse struct {
	List []struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		DtTxt string `json:"dt_txt"`
	} `json:"list"`
	City struct {
		Sunrise  int64 `json:"sunrise"`
		Timezone int   `json:"timezone"`
	} `json:"city"`
}

// ClientOpenWeatherMap fetches weather data from the OpenWeatherMap API.
// Current conditions and the forecast live on separate endpoints, so
// both are requested concurrently.
type ClientOpenWeatherMap struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{apiKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

// Fetch retrieves current conditions and the daily forecast for a city.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.Snapshot, error) {
	start := time.Now()

	s.logger.Debug().
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	var (
		current  owmCurrentResponse
		forecast owmForecastResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.getJSON(gctx, city, "weather", &current)
	})
	g.Go(func() error {
		return s.getJSON(gctx, city, "forecast", &forecast)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("OpenWeatherMap request failed")
		return models.Snapshot{}, err
	}

	snapshot, err := snapshotFromOwm(city, current, forecast)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("OpenWeatherMap payload missing expected fields")
		return models.Snapshot{}, err
	}

	s.logger.Info().
		Str("city", city).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return snapshot, nil
}

func (s *ClientOpenWeatherMap) getJSON(ctx context.Context, city, endpoint string, out any) error {
	reqURL := fmt.Sprintf("%s/%s?q=%s&appid=%s&units=metric",
		s.apiURL, endpoint, url.QueryEscape(city), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
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
		return fmt.Errorf("OpenWeatherMap error: status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func snapshotFromOwm(
	city string,
	current owmCurrentResponse,
	fc owmForecastResponse,
) (models.Snapshot, error) {
	if len(current.Weather) == 0 {
		return models.Snapshot{}, fmt.Errorf("%w: no weather entry", ErrMalformed)
	}

	// The forecast endpoint carries one sunrise per city, not per day.
	sunrise := formatSunrise(fc.City.Sunrise, fc.City.Timezone)

	type bucket struct {
		sum float64
		n   int
	}
	totals := map[string]*bucket{}
	var order []string
	for _, item := range fc.List {
		if len(item.DtTxt) < len(time.DateOnly) {
			continue
		}
		date := item.DtTxt[:len(time.DateOnly)]
		b, ok := totals[date]
		if !ok {
			b = &bucket{}
			totals[date] = b
			order = append(order, date)
		}
		b.sum += item.Main.Temp
		b.n++
	}

	forecast := make([]models.ForecastDay, 0, len(order))
	for _, date := range order {
		b := totals[date]
		forecast = append(forecast, models.ForecastDay{
			Date:     date,
			AvgTempC: b.sum / float64(b.n),
			Sunrise:  sunrise,
		})
	}

	return models.Snapshot{
		City: city,
		Current: models.CurrentConditions{
			TemperatureC: current.Main.Temp,
			Humidity:     current.Main.Humidity,
			Description:  current.Weather[0].Description,
		},
		Forecast: forecast,
	}, nil
}

func formatSunrise(unix int64, tzShift int) string {
	if unix == 0 {
		return ""
	}
	local := time.Unix(unix, 0).UTC().Add(time.Duration(tzShift) * time.Second)
	return local.Format("03:04 PM")
}
