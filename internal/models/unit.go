package models

import "math"

// Unit is the display unit for temperatures. Conversion happens when a view
// is built, never on the stored snapshot.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// Toggle returns the opposite unit.
func (u Unit) Toggle() Unit {
	if u == UnitFahrenheit {
		return UnitCelsius
	}
	return UnitFahrenheit
}

// Convert maps a Celsius temperature into the unit. Fahrenheit values are
// rounded to the nearest degree; Celsius passes through unchanged.
func (u Unit) Convert(celsius float64) float64 {
	if u == UnitFahrenheit {
		return math.Round(celsius*9.0/5.0 + 32)
	}
	return celsius
}

// Valid reports whether u is one of the two known units.
func (u Unit) Valid() bool {
	return u == UnitCelsius || u == UnitFahrenheit
}
