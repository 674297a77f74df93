package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	_ "github.com/Priya-creates/weather-widget-api/docs"
	"github.com/Priya-creates/weather-widget-api/internal/config"
	handlerWeather "github.com/Priya-creates/weather-widget-api/internal/handlers/weather"
	handlerWidget "github.com/Priya-creates/weather-widget-api/internal/handlers/widget"
	"github.com/Priya-creates/weather-widget-api/internal/middleware"
	"github.com/Priya-creates/weather-widget-api/internal/models"
	"github.com/Priya-creates/weather-widget-api/internal/refresher"
	"github.com/Priya-creates/weather-widget-api/internal/repository/sqlite"
	"github.com/Priya-creates/weather-widget-api/internal/services/cache"
	"github.com/Priya-creates/weather-widget-api/internal/services/geo"
	loggerT "github.com/Priya-creates/weather-widget-api/internal/services/logger"
	metricsSvc "github.com/Priya-creates/weather-widget-api/internal/services/metrics"
	serviceWeather "github.com/Priya-creates/weather-widget-api/internal/services/weather"
	"github.com/Priya-creates/weather-widget-api/internal/services/weather/decorators"
	"github.com/Priya-creates/weather-widget-api/internal/services/widget"
	fLogger "github.com/Priya-creates/weather-widget-api/pkg/logger"
)

const timeoutDuration = 5 * time.Second

type ServiceContainer struct {
	WeatherService *decorators.CachedService
	GeoService     *geo.Service
	WidgetService  *widget.Service
	StateRepo      *sqlite.StateRepository
	Refresher      *refresher.Refresher

	Router     *gin.Engine
	Srv        *http.Server
	Db         *sql.DB
	fileLogger *zap.Logger
	M          *metricsSvc.Metrics
}

type App struct {
	cfg config.Config
	l   zerolog.Logger
}

func New(cfg config.Config, logger zerolog.Logger) *App {
	return &App{cfg: cfg, l: logger}
}

// Start wires the container, registers routes and serves until ctx is done.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}

	a.l.Info().Str("http_addr", a.cfg.Server.Address).Msg("starting weather widget API")

	srvContainer.Router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		cors.Default(),
		srvContainer.M.HTTPMiddleware(),
	)

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
	srvContainer.Router.GET("/metrics", gin.WrapH(srvContainer.M.Handler()))
	srvContainer.Router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Restore the last session before traffic arrives.
	initCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	view := srvContainer.WidgetService.Initialize(initCtx)
	cancel()
	a.l.Info().Str("city", view.City).Msg("widget state restored")

	if a.cfg.Refresher.Enabled {
		srvContainer.Refresher.Start(ctx)
		a.l.Info().Str("spec", a.cfg.Refresher.Spec).Msg("refresher started")
	}

	go func() {
		<-ctx.Done()
		a.l.Info().Msg("shutdown signal received")
		if stopErr := a.Stop(srvContainer); stopErr != nil {
			a.l.Error().Err(stopErr).Msg("failed to stop application")
		}
	}()

	if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.l.Error().Err(err).Msg("HTTP server error")
		return err
	}
	a.l.Info().Msg("HTTP server stopped")
	return nil
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping application")

	defer func(fileLogger *zap.Logger) {
		if err := fileLogger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync outbound HTTP logger")
		}
	}(srvContainer.fileLogger)

	if a.cfg.Refresher.Enabled {
		srvContainer.Refresher.Stop()
		a.l.Info().Msg("refresher stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	srvContainer.WidgetService.Close()
	a.l.Info().Msg("widget service drained")

	if err := srvContainer.Db.Close(); err != nil {
		a.l.Error().Err(err).Msg("database close error")
	} else {
		a.l.Info().Msg("database closed")
	}

	a.l.Info().Msg("application shutdown complete")
	return nil
}

// Init builds every service the server needs without starting any of them.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().Interface("config", a.cfg).Msg("initializing application")

	dbCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()
	db, err := CreateSqliteDb(dbCtx, a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open sqlite: %w", err)
	}
	if err := InitSqliteDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		return ServiceContainer{}, fmt.Errorf("migrate sqlite: %w", err)
	}

	m := metricsSvc.NewMetrics("weather_widget", db, a.cfg.DB.Source)

	router := gin.New()

	httpSrv := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open outbound HTTP log: %w", err)
	}

	roundTripper := loggerT.NewRoundTripper(fileLogger)
	httpLogClient := &http.Client{Transport: roundTripper}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	wttrIn := serviceWeather.NewBreakerClient("WttrIn", breakerCfg,
		serviceWeather.NewClientWttrIn(a.cfg.WttrURL, httpLogClient, a.l),
	)

	// The OpenWeatherMap fallback only joins the chain when a key is
	// configured; without one every call would fail with 401.
	var rawService *serviceWeather.ServiceProvider
	if a.cfg.OpenWeatherMapAPIKey != "" {
		openWeather := serviceWeather.NewBreakerClient("OpenWeatherMap", breakerCfg,
			serviceWeather.NewClientOpenWeatherMap(
				a.cfg.OpenWeatherMapAPIKey,
				a.cfg.OpenWeatherMapURL,
				httpLogClient,
				a.l,
			),
		)
		rawService = serviceWeather.NewService(a.l, wttrIn, openWeather)
	} else {
		rawService = serviceWeather.NewService(a.l, wttrIn)
	}

	redisClient := newRedisConnection(a.cfg.Redis.Host+":"+a.cfg.Redis.Port, a.cfg.Redis.DbType)
	cacheMetrics := cache.NewMetricsDecorator[models.Snapshot](
		cache.NewRedisClient[models.Snapshot](
			redisClient,
			a.l,
			time.Duration(a.cfg.Redis.LiveTime)*time.Hour,
		),
		metricsSvc.NewPromCollector(m.Registry()),
	)
	weatherService := decorators.NewCachedService(rawService, cacheMetrics, a.l)

	ipLocator := geo.NewIPLocator(a.cfg.Locator.URL, a.cfg.Locator.Enabled, httpLogClient, a.l)
	geocoder := geo.NewOpenWeatherGeocoder(a.cfg.Geocoder.APIKey, a.cfg.Geocoder.URL, httpLogClient, a.l)
	geoService := geo.NewService(ipLocator, geocoder, a.l)

	stateRepo := sqlite.NewStateRepository(db, a.l, m)

	widgetService := widget.New(weatherService, geoService, stateRepo, a.l, m, a.cfg.Widget.DefaultCity)

	refr := refresher.New(widgetService, a.l, a.cfg.Refresher.Spec, m)

	return ServiceContainer{
		WeatherService: weatherService,
		GeoService:     geoService,
		WidgetService:  widgetService,
		StateRepo:      stateRepo,
		Refresher:      refr,

		Router:     router,
		Srv:        httpSrv,
		Db:         db,
		fileLogger: fileLogger,
		M:          m,
	}, nil
}

func CreateSqliteDb(ctx context.Context, dialect, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?cache=shared&mode=rwc"
	db, err := sql.Open(dialect, connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func InitSqliteDb(db *sql.DB, dialect, migrationPath string) error {
	log.Println("Initializing migrations:", migrationPath)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if err := goose.Up(db, migrationPath); err != nil {
		return err
	}

	return nil
}

func newRedisConnection(connString string, dbType int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: connString, DB: dbType})
}
