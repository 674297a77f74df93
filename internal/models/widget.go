package models

// Permission reflects the last geolocation outcome.
type Permission string

const (
	PermissionUnknown Permission = "unknown"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// WidgetView is the render-ready presentation of the widget state.
// Temperatures are already converted into the view's unit.
type WidgetView struct {
	City       string         `json:"city"`
	Unit       Unit           `json:"unit"`
	Loading    bool           `json:"loading"`
	Locating   bool           `json:"locating"`
	Error      string         `json:"error,omitempty"`
	Permission Permission     `json:"permission"`
	Current    *CurrentView   `json:"current,omitempty"`
	Forecast   []ForecastView `json:"forecast,omitempty"`
}

type CurrentView struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
}

type ForecastView struct {
	Date    string  `json:"date"`
	AvgTemp float64 `json:"avg_temp"`
	Sunrise string  `json:"sunrise"`
}
