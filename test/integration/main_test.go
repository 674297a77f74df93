//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"

	"github.com/Priya-creates/weather-widget-api/internal/app"
	"github.com/Priya-creates/weather-widget-api/internal/config"
	handlerWeather "github.com/Priya-creates/weather-widget-api/internal/handlers/weather"
	handlerWidget "github.com/Priya-creates/weather-widget-api/internal/handlers/widget"
	"github.com/Priya-creates/weather-widget-api/pkg/logger"
)

// j1Body is what the fake wttr.in serves for every known city.
const j1Body = `{
	"current_condition": [
		{"temp_C": "18", "humidity": "64", "weatherDesc": [{"value": "Partly cloudy"}]}
	],
	"weather": [
		{"date": "2025-07-01", "avgtempC": "20", "astronomy": [{"sunrise": "04:48 AM"}]},
		{"date": "2025-07-02", "avgtempC": "21", "astronomy": [{"sunrise": "04:49 AM"}]},
		{"date": "2025-07-03", "avgtempC": "19", "astronomy": [{"sunrise": "04:50 AM"}]}
	]
}`

var (
	testServerURL string
	db            *sql.DB
)

func TestMain(m *testing.M) {
	fmt.Println("Starting integration tests...")

	wttrSrv := newFakeWeatherProviders()
	defer wttrSrv.Close()

	ipSrv := newFakeIPLocator()
	defer ipSrv.Close()

	geoSrv := newFakeGeocoder()
	defer geoSrv.Close()

	tmpDir, err := os.MkdirTemp("", "widget-integration")
	if err != nil {
		log.Panicf("failed to create temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("failed to remove temp dir: %v", err)
		}
	}()

	setEnv("DB_SOURCE", tmpDir+"/widget.db")
	setEnv("DB_MIGRATIONS_PATH", "../../migrations")
	setEnv("WTTR_URL", wttrSrv.URL)
	setEnv("OPEN_WEATHER_MAP_API_KEY", "integration-test-key")
	setEnv("OPEN_WEATHER_MAP_URL", wttrSrv.URL+"/owm")
	setEnv("LOCATOR_URL", ipSrv.URL+"/json")
	setEnv("GEOCODER_URL", geoSrv.URL)
	setEnv("LOGS_PATH", tmpDir+"/app.log")
	setEnv("HTTP_LOGS_PATH", tmpDir+"/http.log")
	// Nothing listens here, so every cache read degrades to a miss.
	setEnv("REDIS_PORT", "6399")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogsPath, "integration")
	application := app.New(*cfg, l)

	srvContainer, err := application.Init(context.Background())
	if err != nil {
		log.Panicf("failed to initialize application: %v", err)
	}

	if err := srvContainer.Db.Ping(); err != nil {
		log.Panicf("failed to connect to the database: %v", err)
	}

	widgetHandler := handlerWidget.NewHandler(srvContainer.WidgetService)
	weatherHandler := handlerWeather.NewHandler(srvContainer.WeatherService)

	api := srvContainer.Router.Group("/api")
	{
		api.GET("/weather", weatherHandler.GetWeather)
		api.GET("/widget", widgetHandler.GetView)
		api.POST("/widget/init", widgetHandler.Initialize)
		api.POST("/widget/locate", widgetHandler.Locate)
		api.POST("/widget/submit", widgetHandler.Submit)
		api.POST("/widget/unit/toggle", widgetHandler.ToggleUnit)
	}
	srvContainer.Router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	testServer := httptest.NewServer(srvContainer.Router)
	defer func() {
		srvContainer.WidgetService.Close()
		if err := srvContainer.Db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
		testServer.Close()
	}()

	testServerURL = testServer.URL
	db = srvContainer.Db

	_ = m.Run()
}

func setEnv(key, value string) {
	if err := os.Setenv(key, value); err != nil {
		log.Panicf("failed to set %s: %v", key, err)
	}
}

// newFakeWeatherProviders serves wttr.in j1 payloads and rejects both the
// city "Nowhere" and every OpenWeatherMap path, so the provider chain
// surfaces a 404 for unknown cities.
func newFakeWeatherProviders() *httptest.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/owm/") || strings.Contains(r.URL.Path, "Nowhere") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(j1Body)); err != nil {
			http.Error(w, "failed to write response", http.StatusInternalServerError)
		}
	})

	return httptest.NewServer(handler)
}

func newFakeIPLocator() *httptest.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "success", "lat": 50.45, "lon": 30.52}`))
	})

	return httptest.NewServer(handler)
}

func newFakeGeocoder() *httptest.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name": "Kyivtest", "lat": 50.45, "lon": 30.52, "country": "UA"}]`))
	})

	return httptest.NewServer(handler)
}

func storedCity() (string, error) {
	var raw string
	err := db.QueryRow(`SELECT value FROM widget_state WHERE id = 1`).Scan(&raw)
	return raw, err
}

func fetchStoredCity(t *testing.T) string {
	t.Helper()

	raw, err := storedCity()
	if err != nil {
		t.Fatalf("failed to fetch stored city: %v", err)
	}
	return raw
}
