//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

const (
	settleWait = 5 * time.Second
	settleTick = 50 * time.Millisecond
)

func fetchView() (models.WidgetView, error) {
	req, err := http.NewRequestWithContext(context.Background(),
		http.MethodGet, testServerURL+"/api/widget", nil)
	if err != nil {
		return models.WidgetView{}, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.WidgetView{}, err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	var view models.WidgetView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return models.WidgetView{}, err
	}
	return view, nil
}

func postWidget(t *testing.T, path, body string) models.WidgetView {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(),
		http.MethodPost, testServerURL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func(body io.ReadCloser) {
		err := body.Close()
		assert.NoError(t, err, "Failed to close response body")
	}(resp.Body)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.WidgetView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func settle(t *testing.T, cond func(models.WidgetView) bool) models.WidgetView {
	t.Helper()

	var last models.WidgetView
	require.Eventually(t, func() bool {
		view, err := fetchView()
		if err != nil {
			return false
		}
		last = view
		return cond(view)
	}, settleWait, settleTick, "widget state did not settle")

	return last
}

func TestWidgetFlow(t *testing.T) {
	t.Run("initialize detects city by location", func(t *testing.T) {
		view := postWidget(t, "/api/widget/init", "")
		assert.True(t, view.Locating, "no stored city, so init should be locating")

		settled := settle(t, func(v models.WidgetView) bool {
			return !v.Locating && !v.Loading && v.City == "Kyivtest"
		})

		assert.Equal(t, models.PermissionGranted, settled.Permission)
		assert.Equal(t, models.UnitCelsius, settled.Unit)
		assert.Empty(t, settled.Error)
		require.NotNil(t, settled.Current)
		assert.InDelta(t, 18.0, settled.Current.Temperature, 0.01)
		assert.Equal(t, "Partly cloudy", settled.Current.Description)
		assert.Len(t, settled.Forecast, 3)
	})

	t.Run("detected city is persisted", func(t *testing.T) {
		// The write happens on the locate goroutine, after the state settles.
		require.Eventually(t, func() bool {
			raw, err := storedCity()
			return err == nil && raw == `"Kyivtest"`
		}, settleWait, settleTick, "the detected city should land in the database")
	})

	t.Run("submit switches the city", func(t *testing.T) {
		view := postWidget(t, "/api/widget/submit", `{"city": "Lviv"}`)
		assert.Equal(t, "Lviv", view.City)
		assert.True(t, view.Loading)

		settled := settle(t, func(v models.WidgetView) bool {
			return !v.Loading && v.City == "Lviv"
		})
		assert.Empty(t, settled.Error)
		require.NotNil(t, settled.Current)
		assert.InDelta(t, 18.0, settled.Current.Temperature, 0.01)
	})

	t.Run("submitted city is not persisted", func(t *testing.T) {
		assert.Equal(t, `"Kyivtest"`, fetchStoredCity(t))
	})

	t.Run("blank submit is ignored", func(t *testing.T) {
		view := postWidget(t, "/api/widget/submit", `{"city": "   "}`)
		assert.Equal(t, "Lviv", view.City)
		assert.False(t, view.Loading, "blank input should not start a fetch")
	})

	t.Run("toggle converts to fahrenheit without refetching", func(t *testing.T) {
		view := postWidget(t, "/api/widget/unit/toggle", "")
		assert.Equal(t, models.UnitFahrenheit, view.Unit)
		require.NotNil(t, view.Current)
		assert.InDelta(t, 64.0, view.Current.Temperature, 0.01)
		require.Len(t, view.Forecast, 3)
		assert.InDelta(t, 68.0, view.Forecast[0].AvgTemp, 0.01)
	})

	t.Run("toggle back restores celsius", func(t *testing.T) {
		view := postWidget(t, "/api/widget/unit/toggle", "")
		assert.Equal(t, models.UnitCelsius, view.Unit)
		require.NotNil(t, view.Current)
		assert.InDelta(t, 18.0, view.Current.Temperature, 0.01)
	})

	t.Run("locate returns to the detected city", func(t *testing.T) {
		view := postWidget(t, "/api/widget/locate", "")
		assert.True(t, view.Locating)

		settled := settle(t, func(v models.WidgetView) bool {
			return !v.Locating && !v.Loading && v.City == "Kyivtest"
		})
		assert.Equal(t, models.PermissionGranted, settled.Permission)
	})

	t.Run("missing body on submit is a bad request", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(),
			http.MethodPost, testServerURL+"/api/widget/submit", strings.NewReader(`{}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func(body io.ReadCloser) {
			err := body.Close()
			assert.NoError(t, err, "Failed to close response body")
		}(resp.Body)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"city is required"}`, string(bodyBytes))
	})
}
