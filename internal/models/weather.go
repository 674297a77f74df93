package models

type CurrentConditions struct {
	TemperatureC float64 `json:"temperature_c"`
	Humidity     int     `json:"humidity"`
	Description  string  `json:"description"`
}

type ForecastDay struct {
	Date     string  `json:"date"`
	AvgTempC float64 `json:"avg_temp_c"`
	Sunrise  string  `json:"sunrise"`
}

// Snapshot is the most recently fetched current-conditions-plus-forecast
// payload for a city. It is replaced wholesale on every successful fetch.
type Snapshot struct {
	City     string            `json:"city"`
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastDay     `json:"forecast"`
}
