// Package meteo is the raw weather feed collaborator: historical and forecast
// daily series plus air quality, fetched from the Open-Meteo APIs.
package meteo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	"github.com/taramuri/weather-platform-sub001/internal/webclient"
)

const (
	defaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	dateLayout = "2006-01-02"
)

// Client fetches daily weather series for coordinates. It implements
// agro.WeatherFeed.
type Client struct {
	forecastURL   string
	airQualityURL string
	web           *webclient.Client
}

// NewClient creates a Client backed by the given resilient web client.
func NewClient(web *webclient.Client) *Client {
	return &Client{
		forecastURL:   defaultForecastURL,
		airQualityURL: defaultAirQualityURL,
		web:           web,
	}
}

// dailyPayload mirrors the Open-Meteo daily response.
type dailyPayload struct {
	Daily struct {
		Time             []string  `json:"time"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		ET0              []float64 `json:"et0_fao_evapotranspiration"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		WindSpeedMax     []float64 `json:"windspeed_10m_max"`
		UVIndexMax       []float64 `json:"uv_index_max"`
		SurfacePressure  []float64 `json:"surface_pressure_mean"`
		RelHumidityMean  []float64 `json:"relative_humidity_2m_mean"`
	} `json:"daily"`
}

// FetchDaily returns pastDays of trailing history plus forecastDays of
// outlook as parallel daily arrays. Transport failures and malformed payloads
// are reported as agro.ErrWeatherFeed.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64, pastDays, forecastDays int) (agro.DailySeries, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("daily", "precipitation_sum,et0_fao_evapotranspiration,temperature_2m_min,temperature_2m_max")
	values.Set("past_days", fmt.Sprintf("%d", pastDays))
	values.Set("forecast_days", fmt.Sprintf("%d", maxInt(forecastDays, 1)))
	values.Set("timezone", "UTC")

	var payload dailyPayload
	if err := c.web.GetJSON(ctx, fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()), &payload); err != nil {
		return agro.DailySeries{}, fmt.Errorf("%w: %v", agro.ErrWeatherFeed, err)
	}

	d := payload.Daily
	n := len(d.Time)
	if n == 0 || len(d.PrecipitationSum) != n || len(d.TemperatureMin) != n || len(d.TemperatureMax) != n {
		return agro.DailySeries{}, fmt.Errorf("%w: daily arrays missing or misaligned", agro.ErrWeatherFeed)
	}

	dates := make([]time.Time, n)
	for i, s := range d.Time {
		ts, err := time.Parse(dateLayout, s)
		if err != nil {
			return agro.DailySeries{}, fmt.Errorf("%w: bad date %q", agro.ErrWeatherFeed, s)
		}
		dates[i] = ts.UTC()
	}

	return agro.DailySeries{
		Dates:              dates,
		Precipitation:      d.PrecipitationSum,
		Evapotranspiration: d.ET0,
		TemperatureMin:     d.TemperatureMin,
		TemperatureMax:     d.TemperatureMax,
	}, nil
}

// FetchSeasonal returns up to horizonDays of real daily forecast mapped to
// climate points. The caller falls back to synthesis when it fails.
func (c *Client) FetchSeasonal(ctx context.Context, lat, lon float64, horizonDays int) ([]agro.ClimatePoint, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("daily", "precipitation_sum,temperature_2m_min,temperature_2m_max,windspeed_10m_max,uv_index_max,surface_pressure_mean,relative_humidity_2m_mean")
	values.Set("forecast_days", fmt.Sprintf("%d", horizonDays))
	values.Set("timezone", "UTC")

	var payload dailyPayload
	if err := c.web.GetJSON(ctx, fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", agro.ErrWeatherFeed, err)
	}

	d := payload.Daily
	n := len(d.Time)
	if n == 0 || len(d.TemperatureMin) != n || len(d.TemperatureMax) != n {
		return nil, fmt.Errorf("%w: forecast arrays missing or misaligned", agro.ErrWeatherFeed)
	}

	points := make([]agro.ClimatePoint, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.Parse(dateLayout, d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", agro.ErrWeatherFeed, d.Time[i])
		}

		p := agro.ClimatePoint{
			Date:           ts.UTC(),
			Temperature:    (d.TemperatureMin[i] + d.TemperatureMax[i]) / 2,
			TemperatureMax: d.TemperatureMax[i],
			TemperatureMin: d.TemperatureMin[i],
		}
		if i < len(d.PrecipitationSum) {
			p.Precipitation = d.PrecipitationSum[i]
		}
		if i < len(d.WindSpeedMax) {
			// Open-Meteo reports km/h; normalize to m/s.
			p.WindSpeed = d.WindSpeedMax[i] / 3.6
		}
		if i < len(d.UVIndexMax) {
			p.UVIndex = d.UVIndexMax[i]
		}
		if i < len(d.SurfacePressure) {
			p.Pressure = d.SurfacePressure[i]
		}
		if i < len(d.RelHumidityMean) {
			p.Humidity = d.RelHumidityMean[i]
		}
		points = append(points, p)
	}

	return points, nil
}

// AirQuality is the current air quality at a point.
type AirQuality struct {
	EuropeanAQI float64 `json:"european_aqi"`
	PM25        float64 `json:"pm2_5"`
	PM10        float64 `json:"pm10"`
	Time        string  `json:"time"`
}

// FetchAirQuality returns the current air quality. A missing or empty
// current block is a feed error, never a silent nil.
func (c *Client) FetchAirQuality(ctx context.Context, lat, lon float64) (AirQuality, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current", "european_aqi,pm2_5,pm10")

	var payload struct {
		Current *struct {
			Time        string  `json:"time"`
			EuropeanAQI float64 `json:"european_aqi"`
			PM25        float64 `json:"pm2_5"`
			PM10        float64 `json:"pm10"`
		} `json:"current"`
	}
	if err := c.web.GetJSON(ctx, fmt.Sprintf("%s?%s", c.airQualityURL, values.Encode()), &payload); err != nil {
		return AirQuality{}, fmt.Errorf("%w: %v", agro.ErrWeatherFeed, err)
	}

	if payload.Current == nil || math.IsNaN(payload.Current.EuropeanAQI) {
		return AirQuality{}, fmt.Errorf("%w: air quality payload missing current block", agro.ErrWeatherFeed)
	}

	return AirQuality{
		EuropeanAQI: payload.Current.EuropeanAQI,
		PM25:        payload.Current.PM25,
		PM10:        payload.Current.PM10,
		Time:        payload.Current.Time,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
