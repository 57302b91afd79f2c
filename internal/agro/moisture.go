package agro

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	// moistureWindowDays is the trailing window the balance is computed over;
	// the feed must supply it plus the current day.
	moistureWindowDays = 30

	// zoneGridSize and zoneGridStep define the synthetic spatial grid around
	// the query point.
	zoneGridSize = 5
	zoneGridStep = 0.02

	// zoneClassBand separates dry/normal/wet cells relative to the current
	// moisture. Empirically chosen, tunable.
	zoneClassBand = 10.0
)

// MoistureModel computes soil moisture balance snapshots from a raw daily
// weather window. Zone synthesis is randomized through the injected source;
// seed it for reproducible grids.
type MoistureModel struct {
	rng *rand.Rand
}

// NewMoistureModel creates a MoistureModel. A nil rng falls back to a
// time-seeded source.
func NewMoistureModel(rng *rand.Rand) *MoistureModel {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MoistureModel{rng: rng}
}

// ComputeSnapshot derives the moisture state at (lat, lon) from a daily
// series covering at least the 30 trailing days plus the current day.
func (m *MoistureModel) ComputeSnapshot(lat, lon float64, daily DailySeries) (MoistureSnapshot, error) {
	if err := validateSeries(daily); err != nil {
		return MoistureSnapshot{}, err
	}

	n := len(daily.Precipitation)
	window := windowBounds{from: n - 1 - moistureWindowDays, to: n - 1}

	precipSum := sumRange(daily.Precipitation, window)
	etSum := m.evapotranspirationSum(daily, window)
	balance := precipSum - etSum

	current := moistureFromBalance(balance)
	historical := historicalBaseline(lat, avgDailyTemperature(daily, window), precipSum/moistureWindowDays)
	diff := current - historical

	precip7 := trailingPrecipitation(daily, 7)
	zones := m.generateZones(lat, lon, current, diff, balance, precip7)

	return MoistureSnapshot{
		Location:                Coordinates{Latitude: lat, Longitude: lon},
		CurrentMoisture:         current,
		HistoricalAverage:       historical,
		MoistureDifference:      diff,
		PrecipitationSum30d:     precipSum,
		EvapotranspirationSum30: etSum,
		MoistureBalance:         balance,
		RiskLevel:               riskLevel(diff),
		Zones:                   zones,
		LastUpdated:             time.Now().UTC(),
	}, nil
}

type windowBounds struct {
	from, to int // [from, to), indices into the daily arrays
}

func validateSeries(daily DailySeries) error {
	n := len(daily.Precipitation)
	if n < moistureWindowDays+1 {
		return fmt.Errorf("%w: need %d days of precipitation, got %d", ErrDataProcessing, moistureWindowDays+1, n)
	}

	for _, v := range daily.Precipitation {
		if isFinite(v) {
			return nil
		}
	}
	return fmt.Errorf("%w: precipitation series contains no usable values", ErrDataProcessing)
}

func sumRange(values []float64, w windowBounds) float64 {
	var s float64
	for i := w.from; i < w.to; i++ {
		if isFinite(values[i]) {
			s += values[i]
		}
	}
	return s
}

// evapotranspirationSum uses the feed's ET values where present and finite,
// and otherwise estimates per day from the temperature extremes as
// 0.0023 × max(0, (tmin+tmax)/2) × 1.5.
func (m *MoistureModel) evapotranspirationSum(daily DailySeries, w windowBounds) float64 {
	var s float64
	for i := w.from; i < w.to; i++ {
		if i < len(daily.Evapotranspiration) && isFinite(daily.Evapotranspiration[i]) {
			s += daily.Evapotranspiration[i]
			continue
		}
		s += estimateDailyET(dayTemperature(daily, i))
	}
	return s
}

func estimateDailyET(avgTemp float64) float64 {
	return 0.0023 * math.Max(0, avgTemp) * 1.5
}

func dayTemperature(daily DailySeries, i int) float64 {
	if i < len(daily.TemperatureMin) && i < len(daily.TemperatureMax) &&
		isFinite(daily.TemperatureMin[i]) && isFinite(daily.TemperatureMax[i]) {
		return (daily.TemperatureMin[i] + daily.TemperatureMax[i]) / 2
	}
	return 0
}

func avgDailyTemperature(daily DailySeries, w windowBounds) float64 {
	var s float64
	var n int
	for i := w.from; i < w.to; i++ {
		if i < len(daily.TemperatureMin) && i < len(daily.TemperatureMax) &&
			isFinite(daily.TemperatureMin[i]) && isFinite(daily.TemperatureMax[i]) {
			s += (daily.TemperatureMin[i] + daily.TemperatureMax[i]) / 2
			n++
		}
	}
	if n == 0 {
		// Neutral temperature; keeps the baseline unaffected by the
		// temperature penalty term.
		return 15
	}
	return s / float64(n)
}

// moistureFromBalance maps the 30-day water balance to a [5,95] moisture
// value. The bands overlap at their boundaries; the first matching band wins,
// evaluated in this exact order.
func moistureFromBalance(balance float64) float64 {
	switch {
	case balance > 50:
		return math.Min(95, 70+balance/10)
	case balance > 20:
		return 60 + balance/5
	case balance > -20:
		return 50 + balance/4
	case balance > -50:
		return math.Max(20, 40+balance/3)
	default:
		return math.Max(5, 20+balance/5)
	}
}

// historicalBaseline estimates the long-term expected moisture for the site,
// adjusted by latitude, average temperature, and average daily precipitation,
// clamped to [30,70].
func historicalBaseline(lat, avgTemp, avgDailyPrecip float64) float64 {
	base := 50.0
	base += (1 - math.Abs(lat)/90) * 10
	base += (avgDailyPrecip/3 - 1) * 15
	base -= math.Max(0, avgTemp-15) / 10 * 5
	return clamp(base, 30, 70)
}

func riskLevel(diff float64) string {
	switch {
	case diff < -20:
		return RiskHighDry
	case diff < -10:
		return RiskModerateDry
	case diff > 20:
		return RiskHighWet
	case diff > 10:
		return RiskModerateWet
	default:
		return RiskNormal
	}
}

func trailingPrecipitation(daily DailySeries, days int) float64 {
	n := len(daily.Precipitation)
	from := n - days
	if from < 0 {
		from = 0
	}
	return sumRange(daily.Precipitation, windowBounds{from: from, to: n})
}

// generateZones builds the 5×5 synthetic grid around the query point. Each
// cell scales the trailing-7-day precipitation by an independent factor in
// [0.8,1.2] and interpolates moisture from the relative precipitation.
func (m *MoistureModel) generateZones(lat, lon, current, diff, balance, precip7 float64) []MoistureZone {
	// Interpolation strength; empirically chosen, tunable.
	k := 15.0
	if math.Abs(diff) > zoneClassBand {
		if balance > 0 {
			k = 20
		} else {
			k = 10
		}
	}

	half := zoneGridSize / 2
	zones := make([]MoistureZone, 0, zoneGridSize*zoneGridSize)

	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			factor := 0.8 + m.rng.Float64()*0.4
			relative := factor
			if precip7 > 0 {
				relative = (precip7 * factor) / precip7
			}

			moisture := clamp(current+(relative-1)*k, 0, 100)
			class := classifyZone(moisture, current)

			zones = append(zones, MoistureZone{
				Latitude:  lat + float64(i)*zoneGridStep,
				Longitude: lon + float64(j)*zoneGridStep,
				Moisture:  moisture,
				Radius:    m.zoneRadius(class),
				Class:     class,
			})
		}
	}

	return m.ensureAllClasses(zones, lat, lon, current)
}

// GenerateFallbackZones allocates a fixed zone count per class from the sign
// and magnitude of the moisture difference, with randomized offsets. Used
// when the weather feed is unusable; it degrades but never fails.
func (m *MoistureModel) GenerateFallbackZones(lat, lon, current, diff float64) []MoistureZone {
	dryCount, normalCount, wetCount := 6, 12, 6
	switch {
	case diff < -zoneClassBand:
		dryCount, normalCount, wetCount = 12, 8, 5
	case diff > zoneClassBand:
		dryCount, normalCount, wetCount = 5, 8, 12
	}

	var zones []MoistureZone
	add := func(count int, class string) {
		for i := 0; i < count; i++ {
			zones = append(zones, m.syntheticZone(lat, lon, current, class, 0.05))
		}
	}
	add(dryCount, ZoneDry)
	add(normalCount, ZoneNormal)
	add(wetCount, ZoneWet)

	return zones
}

// ensureAllClasses appends one representative zone near the query point for
// every class missing after classification, so all three are non-empty.
func (m *MoistureModel) ensureAllClasses(zones []MoistureZone, lat, lon, current float64) []MoistureZone {
	present := map[string]bool{}
	for _, z := range zones {
		present[z.Class] = true
	}

	for _, class := range []string{ZoneDry, ZoneNormal, ZoneWet} {
		if !present[class] {
			zones = append(zones, m.syntheticZone(lat, lon, current, class, 0.01))
		}
	}
	return zones
}

func (m *MoistureModel) syntheticZone(lat, lon, current float64, class string, spread float64) MoistureZone {
	var moisture float64
	switch class {
	case ZoneDry:
		moisture = clamp(current-zoneClassBand-5, 0, 100)
	case ZoneWet:
		moisture = clamp(current+zoneClassBand+5, 0, 100)
	default:
		moisture = clamp(current, 0, 100)
	}

	return MoistureZone{
		Latitude:  lat + m.rng.Float64()*2*spread - spread,
		Longitude: lon + m.rng.Float64()*2*spread - spread,
		Moisture:  moisture,
		Radius:    m.zoneRadius(class),
		Class:     class,
	}
}

func classifyZone(moisture, current float64) string {
	switch {
	case moisture < current-zoneClassBand:
		return ZoneDry
	case moisture > current+zoneClassBand:
		return ZoneWet
	default:
		return ZoneNormal
	}
}

func (m *MoistureModel) zoneRadius(class string) float64 {
	switch class {
	case ZoneDry:
		return 500 + m.rng.Float64()*300
	case ZoneWet:
		return 400 + m.rng.Float64()*200
	default:
		return 600 + m.rng.Float64()*200
	}
}
