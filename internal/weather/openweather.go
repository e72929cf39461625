package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/greenthumb-labs/tend/internal/logger"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

	// OpenWeatherMap returns one forecast entry per 3 hours
	forecastsPerDay = 8

	requestTimeout = 5 * time.Second
)

// OpenWeatherClient fetches weather from the OpenWeatherMap API for a
// fixed location
type OpenWeatherClient struct {
	apiKey    string
	latitude  float64
	longitude float64
	baseURL   string
	client    *http.Client
	log       logger.Logger
}

// NewOpenWeatherClient creates a client bound to one location
func NewOpenWeatherClient(apiKey string, latitude, longitude float64) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:    apiKey,
		latitude:  latitude,
		longitude: longitude,
		baseURL:   openWeatherBaseURL,
		client:    &http.Client{Timeout: requestTimeout},
		log:       logger.Default().WithComponent(logger.ComponentWeather),
	}
}

type owmCurrentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
		Snow struct {
			ThreeHour float64 `json:"3h"`
		} `json:"snow"`
	} `json:"list"`
}

// Current fetches current conditions for the configured location
func (c *OpenWeatherClient) Current(ctx context.Context) (*Conditions, error) {
	params := c.baseParams()

	var resp owmCurrentResponse
	if err := c.get(ctx, "/weather", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	description := ""
	if len(resp.Weather) > 0 {
		description = resp.Weather[0].Description
	}

	return &Conditions{
		Temperature: int(resp.Main.Temp + 0.5),
		FeelsLike:   int(resp.Main.FeelsLike + 0.5),
		Humidity:    resp.Main.Humidity,
		Description: description,
		WindSpeed:   resp.Wind.Speed,
		Pressure:    resp.Main.Pressure,
		ObservedAt:  time.Now(),
	}, nil
}

// Forecast fetches a daily forecast by sampling the API's 3-hourly
// entries once per day
func (c *OpenWeatherClient) Forecast(ctx context.Context, days int) ([]DailyForecast, error) {
	params := c.baseParams()
	params.Set("cnt", strconv.Itoa(days*forecastsPerDay))

	var resp owmForecastResponse
	if err := c.get(ctx, "/forecast", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	forecast := make([]DailyForecast, 0, days)
	for i := 0; i < len(resp.List); i += forecastsPerDay {
		item := resp.List[i]
		description := ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
		}
		forecast = append(forecast, DailyForecast{
			Date:          time.Unix(item.Dt, 0),
			Temperature:   int(item.Main.Temp + 0.5),
			Humidity:      item.Main.Humidity,
			Description:   description,
			Precipitation: item.Rain.ThreeHour + item.Snow.ThreeHour,
		})
	}

	return forecast, nil
}

func (c *OpenWeatherClient) baseParams() url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "imperial")
	return params
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Weather API returned non-OK status", "status", resp.StatusCode, "path", path)
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
