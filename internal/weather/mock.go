package weather

import (
	"context"
	"time"
)

// MockProvider returns deterministic weather data. Used when no API
// key is configured and in tests.
type MockProvider struct {
	// Overrides for tests; zero values fall back to the mild defaults
	CurrentConditions *Conditions
	ForecastDays      []DailyForecast
}

// NewMockProvider creates a provider with mild default conditions
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Current returns fixed mild conditions unless overridden
func (m *MockProvider) Current(ctx context.Context) (*Conditions, error) {
	if m.CurrentConditions != nil {
		return m.CurrentConditions, nil
	}
	return &Conditions{
		Temperature: 72,
		FeelsLike:   74,
		Humidity:    55,
		Description: "partly cloudy",
		WindSpeed:   5.2,
		Pressure:    1013,
		ObservedAt:  time.Now(),
	}, nil
}

// Forecast returns a synthetic daily forecast with slight day-to-day
// variation unless overridden
func (m *MockProvider) Forecast(ctx context.Context, days int) ([]DailyForecast, error) {
	if m.ForecastDays != nil {
		if len(m.ForecastDays) > days {
			return m.ForecastDays[:days], nil
		}
		return m.ForecastDays, nil
	}

	descriptions := []string{"sunny", "partly cloudy", "cloudy", "light rain", "clear"}
	baseTemp := 70

	forecast := make([]DailyForecast, 0, days)
	for i := 0; i < days; i++ {
		var precipitation float64
		if i%4 == 3 {
			precipitation = 0.1
		}
		forecast = append(forecast, DailyForecast{
			Date:          time.Now().AddDate(0, 0, i),
			Temperature:   baseTemp + (i * 2) - days,
			Humidity:      50 + (i * 5),
			Description:   descriptions[i%len(descriptions)],
			Precipitation: precipitation,
		})
	}
	return forecast, nil
}
