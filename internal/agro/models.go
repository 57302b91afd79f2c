package agro

import (
	"time"
)

// Resolution selects the calendar granularity of a generated climate series.
type Resolution string

const (
	ResolutionDay   Resolution = "day"
	ResolutionWeek  Resolution = "week"
	ResolutionMonth Resolution = "month"
)

// Coordinates identifies the point a query is computed for.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ClimatePoint is a single observation of the synthesized or fetched climate
// series. Weekly and monthly points are aggregates of their daily points:
// mean for temperature/humidity/wind/pressure, sum for precipitation, and
// max/min of the underlying daily extremes.
type ClimatePoint struct {
	Date           time.Time `json:"date"`
	Temperature    float64   `json:"temperature"`
	TemperatureMax float64   `json:"temperature_max"`
	TemperatureMin float64   `json:"temperature_min"`
	Precipitation  float64   `json:"precipitation"`
	Humidity       float64   `json:"humidity"`
	WindSpeed      float64   `json:"wind_speed"`
	Pressure       float64   `json:"pressure"`
	UVIndex        float64   `json:"uv_index"`
}

// DailySeries is the raw daily weather feed consumed by the soil moisture
// model: parallel arrays indexed by day, oldest first. Evapotranspiration is
// optional; when absent it is estimated from the temperature extremes.
type DailySeries struct {
	Dates              []time.Time `json:"dates"`
	Precipitation      []float64   `json:"precipitation"`
	Evapotranspiration []float64   `json:"evapotranspiration,omitempty"`
	TemperatureMin     []float64   `json:"temperature_min"`
	TemperatureMax     []float64   `json:"temperature_max"`
}

// Trend direction and magnitude labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	MagnitudeMinimal  = "minimal"
	MagnitudeModerate = "moderate"
	MagnitudeStrong   = "strong"
)

// TrendClassification describes the direction and strength of a metric's
// linear trend. Derived purely from the slope and a metric-specific threshold.
type TrendClassification struct {
	Direction   string  `json:"direction"`
	Magnitude   string  `json:"magnitude"`
	Slope       float64 `json:"slope"`
	Description string  `json:"description"`
}

// Anomaly types.
const (
	AnomalyTemperature   = "temperature"
	AnomalyPrecipitation = "precipitation"
)

// Anomaly marks a point that deviates from the rest of the series. A single
// date may carry both a temperature and a precipitation anomaly.
type Anomaly struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	Deviation   float64   `json:"deviation,omitempty"`
	Description string    `json:"description"`
}

// ForecastValues is the single-step numeric projection of a short-term
// forecast.
type ForecastValues struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Confidence    string  `json:"confidence"`
}

// ShortTermForecast extrapolates one step past the end of a series from its
// trailing window. NextPeriod is nil when the window is too short to project.
type ShortTermForecast struct {
	NextPeriod  *ForecastValues `json:"next_period,omitempty"`
	Description string          `json:"description"`
}

// TrendAnalysisResult is the full output of the trend analyzer for one series.
type TrendAnalysisResult struct {
	TimeRange          string              `json:"time_range"`
	TemperatureTrend   TrendClassification `json:"temperature_trend"`
	PrecipitationTrend TrendClassification `json:"precipitation_trend"`
	HumidityTrend      TrendClassification `json:"humidity_trend"`
	Anomalies          []Anomaly           `json:"anomalies"`
	Forecast           ShortTermForecast   `json:"forecast"`
	Summary            string              `json:"summary"`

	// Seasonal aggregates consumed by the yield predictor.
	AverageTemperature float64 `json:"average_temperature"`
	TotalPrecipitation float64 `json:"total_precipitation"`

	// Degraded is true when the result was synthesized because the real
	// weather feed failed.
	Degraded bool `json:"degraded"`
}

// Moisture risk levels derived from current minus historical moisture.
const (
	RiskHighDry     = "high-dry"
	RiskModerateDry = "moderate-dry"
	RiskNormal      = "normal"
	RiskModerateWet = "moderate-wet"
	RiskHighWet     = "high-wet"
)

// Moisture zone classes.
const (
	ZoneDry    = "dry"
	ZoneNormal = "normal"
	ZoneWet    = "wet"
)

// MoistureZone is one synthetic spatial sample around the query point.
type MoistureZone struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Moisture  float64 `json:"moisture"`
	Radius    float64 `json:"radius"`
	Class     string  `json:"class"`
}

// MoistureSnapshot is the soil moisture state computed from a 30-day trailing
// weather window. It is computed fresh per query and never persisted; a
// short-TTL cache is the only retention.
type MoistureSnapshot struct {
	Location                Coordinates    `json:"location"`
	CurrentMoisture         float64        `json:"current_moisture"`
	HistoricalAverage       float64        `json:"historical_average"`
	MoistureDifference      float64        `json:"moisture_difference"`
	PrecipitationSum30d     float64        `json:"precipitation_sum_30d"`
	EvapotranspirationSum30 float64        `json:"evapotranspiration_sum_30d"`
	MoistureBalance         float64        `json:"moisture_balance"`
	RiskLevel               string         `json:"risk_level"`
	Zones                   []MoistureZone `json:"zones"`
	LastUpdated             time.Time      `json:"last_updated"`

	// Degraded is true when the snapshot was computed from a synthesized
	// series because the real weather feed failed. DiagnosticID correlates
	// the degraded response with the logged failure.
	Degraded     bool   `json:"degraded"`
	DiagnosticID string `json:"diagnostic_id,omitempty"`
}

// YieldFactor is one named multiplicative adjustment applied to the baseline
// yield, with a human-readable impact percentage.
type YieldFactor struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Impact     string  `json:"impact"`
}

// YieldRange bounds the predicted yield estimate.
type YieldRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Recommendation is a prioritized agronomic action derived from the factors
// that reduced the predicted yield.
type Recommendation struct {
	Priority    string `json:"priority"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// VegetationIndices carries auxiliary satellite vegetation signals attached
// to a yield prediction when a vegetation provider is available.
type VegetationIndices struct {
	NDVI float64 `json:"ndvi"`
	EVI  float64 `json:"evi"`
	SAVI float64 `json:"savi"`
}

// YieldPrediction is the output of the crop yield predictor. YieldFactor is
// always the running product of the listed Factors applied to BaselineYield.
type YieldPrediction struct {
	Crop            string             `json:"crop"`
	PredictedYield  float64            `json:"predicted_yield"`
	YieldRange      YieldRange         `json:"yield_range"`
	BaselineYield   float64            `json:"baseline_yield"`
	YieldFactor     float64            `json:"yield_factor"`
	RiskLevel       string             `json:"risk_level"`
	Confidence      string             `json:"confidence"`
	Factors         []YieldFactor      `json:"factors"`
	Recommendations []Recommendation   `json:"recommendations"`
	Vegetation      *VegetationIndices `json:"vegetation,omitempty"`
	LastUpdated     time.Time          `json:"last_updated"`
	Degraded        bool               `json:"degraded"`
}
