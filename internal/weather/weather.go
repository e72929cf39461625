// Package weather provides current conditions and daily forecasts for
// a garden's location, plus gardening-specific assessments built on
// top of them (frost warnings, watering advice, planting conditions).
package weather

import (
	"context"
	"time"
)

// FrostThresholdF is the temperature at or below which frost is
// expected, in degrees Fahrenheit
const FrostThresholdF = 32

// frostLookaheadDays is how many forecast days a frost check inspects
const frostLookaheadDays = 3

// Conditions is a snapshot of current weather at the garden's location.
// Temperatures are Fahrenheit, wind speed is mph.
type Conditions struct {
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	WindSpeed   float64   `json:"wind_speed"`
	Pressure    int       `json:"pressure"`
	ObservedAt  time.Time `json:"observed_at"`
}

// DailyForecast is one day of forecast data
type DailyForecast struct {
	Date          time.Time `json:"date"`
	Temperature   int       `json:"temperature"`
	Humidity      int       `json:"humidity"`
	Description   string    `json:"description"`
	Precipitation float64   `json:"precipitation"`
}

// Provider supplies weather data. Implementations must be safe for
// concurrent use; the reminder jobs share one provider.
type Provider interface {
	Current(ctx context.Context) (*Conditions, error)
	Forecast(ctx context.Context, days int) ([]DailyForecast, error)
}

// HasFrostWarning reports whether any of the next three forecast days
// reaches freezing
func HasFrostWarning(forecast []DailyForecast) bool {
	days := forecast
	if len(days) > frostLookaheadDays {
		days = days[:frostLookaheadDays]
	}
	for _, d := range days {
		if d.Temperature <= FrostThresholdF {
			return true
		}
	}
	return false
}

// WateringAdvice grades how urgently plants with the given water
// requirement need watering under the current conditions
func WateringAdvice(cond *Conditions, needScore int) string {
	if cond == nil {
		return "Check soil moisture"
	}

	score := float64(needScore)

	if cond.Temperature > 85 {
		score++
		if cond.Humidity < 30 {
			score++
		}
	} else if cond.Temperature < 60 {
		score -= 0.5
	}

	if cond.Humidity > 70 {
		score -= 0.5
	}

	switch {
	case score >= 3.5:
		return "Water immediately - hot and dry conditions"
	case score >= 2.5:
		return "Water today"
	case score >= 1.5:
		return "Water if soil feels dry"
	default:
		return "Skip watering today"
	}
}

// PlantingAssessment grades current conditions for outdoor planting
type PlantingAssessment struct {
	Status         string `json:"status"`
	Recommendation string `json:"recommendation"`
}

// AssessPlantingConditions evaluates whether now is a good time to
// plant outdoors
func AssessPlantingConditions(cond *Conditions) PlantingAssessment {
	if cond == nil {
		return PlantingAssessment{Status: "unknown", Recommendation: "Check weather conditions"}
	}

	temp := cond.Temperature
	humidity := cond.Humidity

	switch {
	case temp < 40:
		return PlantingAssessment{
			Status:         "poor",
			Recommendation: "Too cold for most plants. Wait for warmer weather.",
		}
	case temp > 95:
		return PlantingAssessment{
			Status:         "poor",
			Recommendation: "Too hot for planting. Wait for cooler temperatures.",
		}
	case temp >= 50 && temp <= 80 && humidity >= 40 && humidity <= 70:
		return PlantingAssessment{
			Status:         "excellent",
			Recommendation: "Perfect conditions for planting!",
		}
	case temp >= 45 && temp <= 85:
		return PlantingAssessment{
			Status:         "good",
			Recommendation: "Good conditions for planting most crops.",
		}
	default:
		return PlantingAssessment{
			Status:         "fair",
			Recommendation: "Acceptable for planting hardy varieties.",
		}
	}
}
