package config

import "github.com/kelseyhightower/envconfig"

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type DB struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_SOURCE" default:"widget.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"./migrations"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"1"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Widget struct {
	DefaultCity string `envconfig:"WIDGET_DEFAULT_CITY" default:"London"`
}

type Locator struct {
	Enabled bool   `envconfig:"LOCATOR_ENABLED" default:"true"`
	URL     string `envconfig:"LOCATOR_URL" default:"http://ip-api.com/json"`
}

type Geocoder struct {
	APIKey string `envconfig:"GEOCODER_API_KEY"`
	URL    string `envconfig:"GEOCODER_URL" default:"http://api.openweathermap.org/geo/1.0/reverse"`
}

type Refresher struct {
	Enabled bool   `envconfig:"REFRESHER_ENABLED" default:"false"`
	Spec    string `envconfig:"REFRESHER_SPEC" default:"0 */15 * * * *"`
}

type Config struct {
	WttrURL string `envconfig:"WTTR_URL" default:"https://wttr.in"`

	OpenWeatherMapAPIKey string `envconfig:"OPEN_WEATHER_MAP_API_KEY"`
	OpenWeatherMapURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5"`

	Server    Server
	DB        DB
	Redis     Redis
	Breaker   Breaker
	Widget    Widget
	Locator   Locator
	Geocoder  Geocoder
	Refresher Refresher

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-widget-api.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/outbound-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
