package meteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	"github.com/taramuri/weather-platform-sub001/internal/webclient"
)

func newStubClient(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(webclient.New("test", srv.Client()))
	c.forecastURL = srv.URL
	c.airQualityURL = srv.URL
	return c
}

func TestFetchDailyParsesSeries(t *testing.T) {
	c := newStubClient(t, `{
		"daily": {
			"time": ["2025-05-01", "2025-05-02"],
			"precipitation_sum": [1.2, 0.0],
			"et0_fao_evapotranspiration": [2.1, 1.9],
			"temperature_2m_min": [8.0, 9.5],
			"temperature_2m_max": [18.0, 21.0]
		}
	}`)

	series, err := c.FetchDaily(context.Background(), 50.45, 30.52, 2, 0)
	require.NoError(t, err)

	require.Len(t, series.Dates, 2)
	assert.Equal(t, "2025-05-01", series.Dates[0].Format("2006-01-02"))
	assert.InDelta(t, 1.2, series.Precipitation[0], 1e-9)
	assert.InDelta(t, 2.1, series.Evapotranspiration[0], 1e-9)
	assert.InDelta(t, 9.5, series.TemperatureMin[1], 1e-9)
}

func TestFetchDailyRejectsMisalignedArrays(t *testing.T) {
	c := newStubClient(t, `{
		"daily": {
			"time": ["2025-05-01", "2025-05-02"],
			"precipitation_sum": [1.2],
			"temperature_2m_min": [8.0, 9.5],
			"temperature_2m_max": [18.0, 21.0]
		}
	}`)

	_, err := c.FetchDaily(context.Background(), 50.45, 30.52, 2, 0)
	require.ErrorIs(t, err, agro.ErrWeatherFeed)
}

func TestFetchDailyRejectsEmptyPayload(t *testing.T) {
	c := newStubClient(t, `{}`)

	_, err := c.FetchDaily(context.Background(), 50.45, 30.52, 31, 0)
	require.ErrorIs(t, err, agro.ErrWeatherFeed)
}

func TestFetchSeasonalMapsClimatePoints(t *testing.T) {
	c := newStubClient(t, `{
		"daily": {
			"time": ["2025-05-01"],
			"precipitation_sum": [3.0],
			"temperature_2m_min": [10.0],
			"temperature_2m_max": [20.0],
			"windspeed_10m_max": [36.0],
			"uv_index_max": [5.5],
			"relative_humidity_2m_mean": [64.0]
		}
	}`)

	points, err := c.FetchSeasonal(context.Background(), 50.45, 30.52, 1)
	require.NoError(t, err)

	require.Len(t, points, 1)
	assert.InDelta(t, 15.0, points[0].Temperature, 1e-9, "mean of min and max")
	assert.InDelta(t, 10.0, points[0].WindSpeed, 1e-9, "km/h normalized to m/s")
	assert.InDelta(t, 64.0, points[0].Humidity, 1e-9)
}

func TestFetchAirQualityMissingCurrentBlock(t *testing.T) {
	c := newStubClient(t, `{}`)

	_, err := c.FetchAirQuality(context.Background(), 50.45, 30.52)
	require.ErrorIs(t, err, agro.ErrWeatherFeed)
}

func TestFetchAirQualityParsesCurrent(t *testing.T) {
	c := newStubClient(t, `{
		"current": {"time": "2025-05-01T12:00", "european_aqi": 32, "pm2_5": 7.5, "pm10": 12.0}
	}`)

	aq, err := c.FetchAirQuality(context.Background(), 50.45, 30.52)
	require.NoError(t, err)
	assert.InDelta(t, 32.0, aq.EuropeanAQI, 1e-9)
	assert.InDelta(t, 7.5, aq.PM25, 1e-9)
}
