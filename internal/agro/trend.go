package agro

import (
	"fmt"
	"math"
)

// Metric-specific slope thresholds separating "stable" from a real trend.
// "strong" begins at three times the threshold. Units are per series step.
const (
	temperatureSlopeThreshold   = 0.1
	precipitationSlopeThreshold = 0.05
	humiditySlopeThreshold      = 0.5

	strongSlopeMultiplier = 3.0

	// A temperature reading is anomalous beyond this many standard deviations
	// from the series mean.
	temperatureAnomalySigma = 2.0

	// Daily precipitation above this is flagged regardless of distribution.
	precipitationAnomalyMM = 10.0

	// The short-term forecast extrapolates from at most this many trailing
	// points, and needs at least forecastMinPoints to project numbers.
	forecastWindow    = 7
	forecastMinPoints = 3
)

// Analyze computes linear trends, anomalies, a short-horizon forecast, and a
// summary for the given series. With fewer than two usable points per metric
// it degrades to an all-stable "insufficient data" result instead of failing.
func Analyze(points []ClimatePoint, timeRange string) TrendAnalysisResult {
	temps := finiteValues(points, func(p ClimatePoint) float64 { return p.Temperature })
	precips := finiteValues(points, func(p ClimatePoint) float64 { return p.Precipitation })
	hums := finiteValues(points, func(p ClimatePoint) float64 { return p.Humidity })

	result := TrendAnalysisResult{
		TimeRange:          timeRange,
		TemperatureTrend:   classifyTrend("temperature", olsSlope(temps), temperatureSlopeThreshold, len(temps)),
		PrecipitationTrend: classifyTrend("precipitation", olsSlope(precips), precipitationSlopeThreshold, len(precips)),
		HumidityTrend:      classifyTrend("humidity", olsSlope(hums), humiditySlopeThreshold, len(hums)),
		Anomalies:          detectAnomalies(points),
		Forecast:           forecastNextPeriod(points),
		AverageTemperature: mean(temps),
		TotalPrecipitation: sum(precips),
	}
	result.Summary = buildSummary(result)

	return result
}

// olsSlope is the ordinary-least-squares regression coefficient of values
// against their index. Returns 0 for fewer than two values.
func olsSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func classifyTrend(metric string, slope, threshold float64, usable int) TrendClassification {
	if usable < 2 {
		return TrendClassification{
			Direction:   TrendStable,
			Magnitude:   MagnitudeMinimal,
			Description: fmt.Sprintf("insufficient data for %s trend", metric),
		}
	}

	abs := math.Abs(slope)
	if abs < threshold {
		return TrendClassification{
			Direction:   TrendStable,
			Magnitude:   MagnitudeMinimal,
			Slope:       slope,
			Description: fmt.Sprintf("%s is stable", metric),
		}
	}

	direction := TrendIncreasing
	if slope < 0 {
		direction = TrendDecreasing
	}

	magnitude := MagnitudeModerate
	if abs >= threshold*strongSlopeMultiplier {
		magnitude = MagnitudeStrong
	}

	return TrendClassification{
		Direction:   direction,
		Magnitude:   magnitude,
		Slope:       slope,
		Description: fmt.Sprintf("%s is %s (%s, %.3f per step)", metric, direction, magnitude, slope),
	}
}

// detectAnomalies flags temperature readings beyond 2 standard deviations
// from the series mean, and any day with precipitation above the fixed
// threshold. A single point may appear in both lists.
func detectAnomalies(points []ClimatePoint) []Anomaly {
	anomalies := []Anomaly{}

	temps := finiteValues(points, func(p ClimatePoint) float64 { return p.Temperature })
	m := mean(temps)
	sd := populationStdDev(temps, m)

	if sd > 0 {
		for _, p := range points {
			if !isFinite(p.Temperature) {
				continue
			}
			dev := math.Abs(p.Temperature - m)
			// >= so a deviation landing exactly on the 2-sigma boundary is
			// still flagged.
			if dev >= temperatureAnomalySigma*sd {
				anomalies = append(anomalies, Anomaly{
					Date:        p.Date,
					Type:        AnomalyTemperature,
					Value:       p.Temperature,
					Deviation:   dev,
					Description: fmt.Sprintf("temperature %.1f deviates %.1f from the series mean %.1f", p.Temperature, dev, m),
				})
			}
		}
	}

	for _, p := range points {
		if isFinite(p.Precipitation) && p.Precipitation > precipitationAnomalyMM {
			anomalies = append(anomalies, Anomaly{
				Date:        p.Date,
				Type:        AnomalyPrecipitation,
				Value:       p.Precipitation,
				Description: fmt.Sprintf("heavy precipitation of %.1f mm", p.Precipitation),
			})
		}
	}

	return anomalies
}

// forecastNextPeriod extrapolates one step past the last point from the
// trailing window. Confidence is "high" only with a full 7-point window.
func forecastNextPeriod(points []ClimatePoint) ShortTermForecast {
	window := points
	if len(window) > forecastWindow {
		window = window[len(window)-forecastWindow:]
	}

	if len(window) < forecastMinPoints {
		return ShortTermForecast{
			Description: "insufficient recent data for a forecast; confidence is low",
		}
	}

	temps := finiteValues(window, func(p ClimatePoint) float64 { return p.Temperature })
	precips := finiteValues(window, func(p ClimatePoint) float64 { return p.Precipitation })

	last := window[len(window)-1]
	nextTemp := last.Temperature + olsSlope(temps)
	nextPrecip := last.Precipitation + olsSlope(precips)
	if nextPrecip < 0 {
		nextPrecip = 0
	}

	confidence := "medium"
	if len(window) == forecastWindow {
		confidence = "high"
	}

	return ShortTermForecast{
		NextPeriod: &ForecastValues{
			Temperature:   nextTemp,
			Precipitation: nextPrecip,
			Confidence:    confidence,
		},
		Description: fmt.Sprintf("next period around %.1f°C with %.1f mm precipitation (%s confidence)", nextTemp, nextPrecip, confidence),
	}
}

func buildSummary(r TrendAnalysisResult) string {
	s := fmt.Sprintf("Over the last %s, %s", r.TimeRange, r.TemperatureTrend.Description)
	if r.PrecipitationTrend.Direction != TrendStable {
		s += fmt.Sprintf("; %s", r.PrecipitationTrend.Description)
	}
	if n := len(r.Anomalies); n > 0 {
		s += fmt.Sprintf("; %d anomalies detected", n)
	}
	return s + "."
}

func finiteValues(points []ClimatePoint, pick func(ClimatePoint) float64) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		if v := pick(p); isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
