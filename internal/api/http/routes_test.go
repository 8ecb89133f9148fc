package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitcast/temperature-blanket/internal/blanket"
	"github.com/knitcast/temperature-blanket/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *blanket.Service) {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	svc, err := blanket.NewService(db, nil, clock, time.UTC)
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app, svc
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func ingestDays(t *testing.T, svc *blanket.Service, days map[string]float64) {
	t.Helper()
	for date, high := range days {
		_, err := svc.Ingest(date, high)
		require.NoError(t, err)
	}
}

func TestGetTemperatures(t *testing.T) {
	app, svc := newTestApp(t)
	ingestDays(t, svc, map[string]float64{
		"2026-01-02": 41.0,
		"2026-01-01": 72.0,
	})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperatures", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var temps []blanket.DailyTemperature
	require.NoError(t, json.Unmarshal(raw, &temps))
	require.Len(t, temps, 2)
	assert.Equal(t, "2026-01-01", temps[0].Date)
	assert.Equal(t, "Turquoise", temps[0].ColorName)
	assert.Equal(t, "2026-01-02", temps[1].Date)
}

func TestGetTemperaturesByYear(t *testing.T) {
	app, svc := newTestApp(t)
	ingestDays(t, svc, map[string]float64{
		"2025-12-31": 30.0,
		"2026-01-01": 72.0,
	})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperatures/year/2026", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var temps []blanket.DailyTemperature
	require.NoError(t, json.Unmarshal(raw, &temps))
	require.Len(t, temps, 1)
	assert.Equal(t, "2026-01-01", temps[0].Date)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/temperatures/year/not-a-year", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTemperaturesRange(t *testing.T) {
	app, svc := newTestApp(t)
	ingestDays(t, svc, map[string]float64{
		"2026-01-01": 72.0,
		"2026-01-02": 41.0,
		"2026-01-03": 55.0,
	})

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperatures/range?start=2026-01-01&end=2026-01-02", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var temps []blanket.DailyTemperature
	require.NoError(t, json.Unmarshal(raw, &temps))
	assert.Len(t, temps, 2)

	// Missing parameters and inverted windows are client errors.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/temperatures/range?start=2026-01-01", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/temperatures/range?start=2026-01-05&end=2026-01-01", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/temperatures/range?start=bogus&end=2026-01-02", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStats(t *testing.T) {
	app, svc := newTestApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperatures/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats blanket.Stats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.Latest)

	ingestDays(t, svc, map[string]float64{
		"2026-01-01": 72.0,
		"2026-01-02": 41.0,
		"2026-01-03": 55.0,
	})

	resp, raw = doRequest(t, app, http.MethodGet, "/api/temperatures/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 3, stats.Total)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, "2026-01-03", *stats.Latest)
}

func TestGetTemperatureRanges(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperature-ranges", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ranges []blanket.TemperatureRange
	require.NoError(t, json.Unmarshal(raw, &ranges))
	require.Len(t, ranges, len(blanket.DefaultRanges))
	assert.Equal(t, "Bright Orange", ranges[0].ColorName)
	assert.Equal(t, 1, ranges[0].DisplayOrder)
}

func TestGetColorForTemperature(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/temperature-ranges/color/89", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var color blanket.ColorMapping
	require.NoError(t, json.Unmarshal(raw, &color))
	assert.Equal(t, "Pink", color.ColorName)

	// Fractional input rounds before resolving, so 89.5 lands in Yellow.
	resp, raw = doRequest(t, app, http.MethodGet, "/api/temperature-ranges/color/89.5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &color))
	assert.Equal(t, "Yellow", color.ColorName)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/temperature-ranges/color/warm", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBlanketRoutes(t *testing.T) {
	app, svc := newTestApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/blanket/latest", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ingestDays(t, svc, map[string]float64{
		"2025-12-31": 30.0,
		"2026-01-01": 72.0,
		"2026-01-02": 41.0,
	})

	// No year parameter defaults to the current (fake-clock) year.
	resp, raw := doRequest(t, app, http.MethodGet, "/api/blanket", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var temps []blanket.DailyTemperature
	require.NoError(t, json.Unmarshal(raw, &temps))
	assert.Len(t, temps, 2)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/blanket?year=2025", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &temps))
	require.Len(t, temps, 1)
	assert.Equal(t, "2025-12-31", temps[0].Date)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/blanket?year=nope", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/blanket/latest", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var latest blanket.DailyTemperature
	require.NoError(t, json.Unmarshal(raw, &latest))
	assert.Equal(t, "2026-01-02", latest.Date)
}

func TestProgressRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	// Never set: null marker, not an error.
	resp, raw := doRequest(t, app, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		LastKnittedDate *string `json:"last_knitted_date"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Nil(t, body.LastKnittedDate)

	resp, raw = doRequest(t, app, http.MethodPut, "/api/progress", `{"last_knitted_date":"2026-01-05"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotNil(t, body.LastKnittedDate)
	assert.Equal(t, "2026-01-05", *body.LastKnittedDate)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotNil(t, body.LastKnittedDate)
	assert.Equal(t, "2026-01-05", *body.LastKnittedDate)

	// Wrong type is rejected.
	resp, _ = doRequest(t, app, http.MethodPut, "/api/progress", `{"last_knitted_date":42}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Explicit null clears the marker.
	resp, raw = doRequest(t, app, http.MethodPut, "/api/progress", `{"last_knitted_date":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Nil(t, body.LastKnittedDate)
}
