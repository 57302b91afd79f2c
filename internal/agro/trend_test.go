package agro

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointsWithTemps(temps ...float64) []ClimatePoint {
	points := make([]ClimatePoint, len(temps))
	for i, v := range temps {
		points[i] = ClimatePoint{
			Date:        date(2025, time.June, 1+i),
			Temperature: v,
			Humidity:    60,
		}
	}
	return points
}

func TestAnalyzeIncreasingTemperature(t *testing.T) {
	result := Analyze(pointsWithTemps(10, 11, 12, 13, 14), "week")

	assert.Equal(t, TrendIncreasing, result.TemperatureTrend.Direction)
	assert.NotEqual(t, MagnitudeMinimal, result.TemperatureTrend.Magnitude)
	assert.InDelta(t, 1.0, result.TemperatureTrend.Slope, 1e-9)
	// Slope 1.0 is well past three times the 0.1 threshold.
	assert.Equal(t, MagnitudeStrong, result.TemperatureTrend.Magnitude)
}

func TestAnalyzeConstantSeriesIsStable(t *testing.T) {
	result := Analyze(pointsWithTemps(15, 15, 15, 15, 15), "week")

	assert.Equal(t, TrendStable, result.TemperatureTrend.Direction)
	assert.Equal(t, MagnitudeMinimal, result.TemperatureTrend.Magnitude)
	assert.Empty(t, result.Anomalies)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	result := Analyze(pointsWithTemps(12), "month")

	assert.Equal(t, TrendStable, result.TemperatureTrend.Direction)
	assert.Contains(t, result.TemperatureTrend.Description, "insufficient data")
	assert.Nil(t, result.Forecast.NextPeriod)
}

func TestAnalyzeFiltersNonFiniteValues(t *testing.T) {
	points := pointsWithTemps(10, 11, 12, 13)
	points[1].Temperature = math.NaN()
	points[2].Temperature = math.Inf(1)

	result := Analyze(points, "week")

	// Two usable values remain: 10 and 13, slope 3 per step.
	assert.Equal(t, TrendIncreasing, result.TemperatureTrend.Direction)
	assert.InDelta(t, 3.0, result.TemperatureTrend.Slope, 1e-9)
}

func TestDetectTemperatureAnomalyAtTwoSigma(t *testing.T) {
	result := Analyze(pointsWithTemps(10, 10, 10, 10, 50), "week")

	require.NotEmpty(t, result.Anomalies)
	found := false
	for _, a := range result.Anomalies {
		if a.Type == AnomalyTemperature {
			found = true
			assert.InDelta(t, 50.0, a.Value, 1e-9)
			assert.InDelta(t, 32.0, a.Deviation, 1e-9)
		}
	}
	assert.True(t, found, "the outlier must be flagged as a temperature anomaly")
}

func TestDetectPrecipitationAnomaly(t *testing.T) {
	points := pointsWithTemps(15, 15, 15)
	points[1].Precipitation = 12.5

	result := Analyze(points, "week")

	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, AnomalyPrecipitation, result.Anomalies[0].Type)
	assert.InDelta(t, 12.5, result.Anomalies[0].Value, 1e-9)
}

func TestSamePointCanCarryBothAnomalyTypes(t *testing.T) {
	points := pointsWithTemps(10, 10, 10, 10, 50)
	points[4].Precipitation = 20

	result := Analyze(points, "week")

	var types []string
	for _, a := range result.Anomalies {
		if a.Date.Equal(points[4].Date) {
			types = append(types, a.Type)
		}
	}
	assert.ElementsMatch(t, []string{AnomalyTemperature, AnomalyPrecipitation}, types)
}

func TestForecastConfidenceByWindowSize(t *testing.T) {
	seven := Analyze(pointsWithTemps(10, 11, 12, 13, 14, 15, 16), "week")
	require.NotNil(t, seven.Forecast.NextPeriod)
	assert.Equal(t, "high", seven.Forecast.NextPeriod.Confidence)
	assert.InDelta(t, 17.0, seven.Forecast.NextPeriod.Temperature, 1e-9)

	five := Analyze(pointsWithTemps(10, 11, 12, 13, 14), "week")
	require.NotNil(t, five.Forecast.NextPeriod)
	assert.Equal(t, "medium", five.Forecast.NextPeriod.Confidence)

	two := Analyze(pointsWithTemps(10, 11), "week")
	assert.Nil(t, two.Forecast.NextPeriod)
	assert.Contains(t, two.Forecast.Description, "low")
}

func TestForecastPrecipitationFlooredAtZero(t *testing.T) {
	points := pointsWithTemps(15, 15, 15, 15)
	for i := range points {
		points[i].Precipitation = float64(3 - i) // 3, 2, 1, 0 — falling fast
	}

	result := Analyze(points, "week")

	require.NotNil(t, result.Forecast.NextPeriod)
	assert.GreaterOrEqual(t, result.Forecast.NextPeriod.Precipitation, 0.0)
}

func TestSummaryMentionsAnomalyCount(t *testing.T) {
	result := Analyze(pointsWithTemps(10, 10, 10, 10, 50), "month")

	assert.Contains(t, result.Summary, "month")
	assert.Contains(t, result.Summary, "anomalies detected")
}

func TestSummarySkipsStablePrecipitation(t *testing.T) {
	result := Analyze(pointsWithTemps(10, 11, 12, 13, 14), "week")

	assert.NotContains(t, result.Summary, "precipitation")
}
