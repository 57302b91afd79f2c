package agro

import (
	"strings"
	"time"
)

// cropBand is the baseline yield and its physical bounds for one crop, in
// tonnes per hectare.
type cropBand struct {
	base, min, max float64
}

var cropBands = map[string]cropBand{
	"wheat":     {base: 4.5, min: 2.0, max: 7.0},
	"corn":      {base: 6.0, min: 2.5, max: 9.5},
	"sunflower": {base: 2.2, min: 1.0, max: 3.5},
	"rapeseed":  {base: 2.8, min: 1.2, max: 4.0},
	"soy":       {base: 2.5, min: 1.0, max: 3.8},
	"potato":    {base: 25.0, min: 12.0, max: 40.0},
}

// defaultCrop is the band used for unrecognized crop names.
const defaultCrop = "wheat"

// Seasonal condition thresholds for the yield factors.
const (
	lowTemperatureC  = 15.0
	highTemperatureC = 25.0
	droughtPrecipMM  = 50.0
	excessPrecipMM   = 200.0
	lowSoilMoisture  = 30.0
	highSoilMoisture = 80.0
	yieldRangeSpread = 0.15
	highRiskFactor   = 0.8
	mediumRiskFactor = 0.9
	highConfFactor   = 0.95
	mediumConfFactor = 0.85
)

// PredictYield combines the seasonal trend aggregates and the moisture
// snapshot into a yield estimate for the crop. Factors are applied in a fixed
// order and YieldFactor is always their running product.
func PredictYield(crop string, trend TrendAnalysisResult, snapshot MoistureSnapshot) YieldPrediction {
	name := strings.ToLower(strings.TrimSpace(crop))
	band, ok := cropBands[name]
	if !ok {
		band = cropBands[defaultCrop]
	}

	factor := 1.0
	var factors []YieldFactor
	apply := func(name string, multiplier float64, impact string) {
		factor *= multiplier
		factors = append(factors, YieldFactor{Name: name, Multiplier: multiplier, Impact: impact})
	}

	switch avgTemp := trend.AverageTemperature; {
	case avgTemp < lowTemperatureC:
		apply("low_temperature", 0.85, "-15%")
	case avgTemp > highTemperatureC:
		apply("high_temperature", 0.9, "-10%")
	default:
		apply("optimal_temperature", 1.05, "+5%")
	}

	switch totalPrecip := trend.TotalPrecipitation; {
	case totalPrecip < droughtPrecipMM:
		apply("drought", 0.7, "-30%")
	case totalPrecip > excessPrecipMM:
		apply("excess_rain", 0.85, "-15%")
	default:
		apply("adequate_rain", 1.1, "+10%")
	}

	switch moisture := snapshot.CurrentMoisture; {
	case moisture < lowSoilMoisture:
		apply("low_soil_moisture", 0.75, "-25%")
	case moisture > highSoilMoisture:
		apply("high_soil_moisture", 0.9, "-10%")
	default:
		apply("optimal_soil_moisture", 1.08, "+8%")
	}

	predicted := clamp(band.base*factor, band.min, band.max)

	return YieldPrediction{
		Crop:           name,
		PredictedYield: predicted,
		YieldRange: YieldRange{
			Min: predicted * (1 - yieldRangeSpread),
			Max: predicted * (1 + yieldRangeSpread),
		},
		BaselineYield:   band.base,
		YieldFactor:     factor,
		RiskLevel:       yieldRisk(factor),
		Confidence:      yieldConfidence(factor),
		Factors:         factors,
		Recommendations: buildRecommendations(name, factors),
		LastUpdated:     time.Now().UTC(),
		Degraded:        trend.Degraded || snapshot.Degraded,
	}
}

func yieldRisk(factor float64) string {
	switch {
	case factor < highRiskFactor:
		return "high"
	case factor < mediumRiskFactor:
		return "medium"
	default:
		return "low"
	}
}

func yieldConfidence(factor float64) string {
	switch {
	case factor > highConfFactor:
		return "high"
	case factor > mediumConfFactor:
		return "medium"
	default:
		return "low"
	}
}

// negativeFactorAdvice maps each yield-reducing factor to its fixed
// recommendation.
var negativeFactorAdvice = map[string]Recommendation{
	"drought": {
		Priority:    "high",
		Action:      "irrigation",
		Description: "Seasonal precipitation is well below crop demand; schedule supplemental irrigation.",
	},
	"low_soil_moisture": {
		Priority:    "high",
		Action:      "irrigation_scheduling",
		Description: "Soil moisture is critically low; increase irrigation frequency and monitor the root zone.",
	},
	"high_temperature": {
		Priority:    "medium",
		Action:      "heat_stress_mitigation",
		Description: "Average temperatures exceed the optimal range; consider shade netting or adjusted sowing dates.",
	},
	"excess_rain": {
		Priority:    "medium",
		Action:      "drainage",
		Description: "Excess seasonal rainfall raises waterlogging risk; verify field drainage capacity.",
	},
}

// cropAdvice is appended unconditionally for crops that have a standing
// advisory.
var cropAdvice = map[string]Recommendation{
	"wheat": {
		Priority:    "low",
		Action:      "disease_monitoring",
		Description: "Monitor wheat for rust and fusarium, especially after humid periods.",
	},
	"corn": {
		Priority:    "low",
		Action:      "pest_control",
		Description: "Scout corn for European corn borer and rootworm through the season.",
	},
	"sunflower": {
		Priority:    "low",
		Action:      "sun_orientation",
		Description: "Verify row orientation and stand density for optimal sunflower light interception.",
	},
}

func buildRecommendations(crop string, factors []YieldFactor) []Recommendation {
	recs := []Recommendation{}
	for _, f := range factors {
		if advice, ok := negativeFactorAdvice[f.Name]; ok {
			recs = append(recs, advice)
		}
	}
	if advice, ok := cropAdvice[crop]; ok {
		recs = append(recs, advice)
	}
	return recs
}
