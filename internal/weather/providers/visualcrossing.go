package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/knitcast/temperature-blanket/internal/weather"
)

// VisualCrossingProvider implements weather.Provider against the Visual
// Crossing timeline API. Readings come back in US units (Fahrenheit) with one
// entry per day of the requested window.
type VisualCrossingProvider struct {
	name      string
	apiKey    string
	latitude  string
	longitude string
	baseURL   string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

func NewVisualCrossingProvider(client *http.Client, apiKey, latitude, longitude string) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		name:      "visualcrossing",
		apiKey:    apiKey,
		latitude:  latitude,
		longitude: longitude,
		baseURL:   "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff,
		},
		circuit: newCircuit("visualcrossing"),
	}
}

func (p *VisualCrossingProvider) Name() string {
	return p.name
}

// FetchDays requests the inclusive [start, end] window and returns one
// reading per day, in the order the API reports them (ascending by date).
func (p *VisualCrossingProvider) FetchDays(ctx context.Context, start, end string) ([]weather.DayReading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("visualcrossing api key is not configured")
	}
	if p.latitude == "" || p.longitude == "" {
		return nil, fmt.Errorf("visualcrossing requires latitude and longitude")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("unitGroup", "us")
		values.Set("include", "days")
		values.Set("key", p.apiKey)
		values.Set("contentType", "json")

		u := fmt.Sprintf("%s/%s,%s/%s/%s?%s",
			p.baseURL, p.latitude, p.longitude, start, end, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Days []struct {
			Datetime string  `json:"datetime"`
			TempMax  float64 `json:"tempmax"`
			TempMin  float64 `json:"tempmin"`
			Temp     float64 `json:"temp"`
			Precip   float64 `json:"precip"`
		} `json:"days"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	readings := make([]weather.DayReading, 0, len(payload.Days))
	for _, d := range payload.Days {
		readings = append(readings, weather.DayReading{
			Date:     d.Datetime,
			TempMax:  d.TempMax,
			TempMin:  d.TempMin,
			Temp:     d.Temp,
			PrecipMM: d.Precip,
		})
	}

	return readings, nil
}
