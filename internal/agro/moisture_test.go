package agro

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSeries builds a 31-day series with constant per-day values.
func testSeries(precip, et, tmin, tmax float64) DailySeries {
	const days = 31
	s := DailySeries{
		Dates:              make([]time.Time, days),
		Precipitation:      make([]float64, days),
		Evapotranspiration: make([]float64, days),
		TemperatureMin:     make([]float64, days),
		TemperatureMax:     make([]float64, days),
	}
	start := date(2025, time.May, 1)
	for i := 0; i < days; i++ {
		s.Dates[i] = start.AddDate(0, 0, i)
		s.Precipitation[i] = precip
		s.Evapotranspiration[i] = et
		s.TemperatureMin[i] = tmin
		s.TemperatureMax[i] = tmax
	}
	return s
}

func TestMoistureFromBalanceBands(t *testing.T) {
	cases := []struct {
		balance float64
		want    float64
	}{
		{100, 80},  // >50 band: 70 + 100/10
		{400, 95},  // >50 band capped at 95
		{40, 68},   // (20,50] band: 60 + 40/5
		{10, 52.5}, // (−20,20] band: 50 + 10/4
		{0, 50},    // neutral balance
		{-30, 30},  // (−50,−20] band: 40 − 10
		{-45, 25},  // (−50,−20] band: 40 − 15
		{-60, 8},   // ≤−50 band: max(5, 20 − 12)
		{-200, 5},  // ≤−50 band floored at 5
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, moistureFromBalance(tc.balance), 1e-9, "balance %.1f", tc.balance)
	}
}

func TestComputeSnapshotDryScenario(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(1)))

	// Zero precipitation and 2 mm/day ET over 30 trailing days: balance −60.
	daily := testSeries(0, 2.0, 10, 20)
	snap, err := model.ComputeSnapshot(50.45, 30.52, daily)
	require.NoError(t, err)

	assert.InDelta(t, -60.0, snap.MoistureBalance, 1e-9)
	assert.InDelta(t, 8.0, snap.CurrentMoisture, 1e-9, "balance −60 maps through the ≤−50 band")
	assert.GreaterOrEqual(t, snap.HistoricalAverage, 0.0)
	assert.LessOrEqual(t, snap.HistoricalAverage, 100.0)
	assert.Equal(t, RiskHighDry, snap.RiskLevel)
}

func TestComputeSnapshotEstimatesETFromTemperature(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(1)))

	daily := testSeries(1.0, 0, 10, 30)
	daily.Evapotranspiration = nil // force the temperature proxy

	snap, err := model.ComputeSnapshot(50.45, 30.52, daily)
	require.NoError(t, err)

	// 0.0023 × 20 × 1.5 per day over 30 days.
	wantET := 0.0023 * 20 * 1.5 * 30
	assert.InDelta(t, wantET, snap.EvapotranspirationSum30, 1e-9)
	assert.InDelta(t, 30.0-wantET, snap.MoistureBalance, 1e-9)
}

func TestComputeSnapshotMoistureAlwaysInRange(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(5)))

	for _, precip := range []float64{0, 0.5, 2, 5, 20} {
		for _, lat := range []float64{-60, -10, 0, 25, 50.45, 70} {
			snap, err := model.ComputeSnapshot(lat, 30.52, testSeries(precip, 1.0, 5, 25))
			require.NoError(t, err)

			assert.GreaterOrEqual(t, snap.CurrentMoisture, 0.0)
			assert.LessOrEqual(t, snap.CurrentMoisture, 100.0)
			assert.GreaterOrEqual(t, snap.HistoricalAverage, 30.0)
			assert.LessOrEqual(t, snap.HistoricalAverage, 70.0)

			for _, z := range snap.Zones {
				assert.GreaterOrEqual(t, z.Moisture, 0.0)
				assert.LessOrEqual(t, z.Moisture, 100.0)
			}
		}
	}
}

func TestRiskLevelBands(t *testing.T) {
	cases := map[float64]string{
		-25: RiskHighDry,
		-15: RiskModerateDry,
		-5:  RiskNormal,
		0:   RiskNormal,
		15:  RiskModerateWet,
		25:  RiskHighWet,
	}
	for diff, want := range cases {
		assert.Equal(t, want, riskLevel(diff), "difference %.0f", diff)
	}
}

func TestZonesAlwaysContainAllClasses(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		model := NewMoistureModel(rand.New(rand.NewSource(seed)))

		snap, err := model.ComputeSnapshot(50.45, 30.52, testSeries(2.0, 1.0, 10, 22))
		require.NoError(t, err)

		classes := map[string]int{}
		for _, z := range snap.Zones {
			classes[z.Class]++
		}
		assert.Positive(t, classes[ZoneDry], "seed %d missing dry zones", seed)
		assert.Positive(t, classes[ZoneNormal], "seed %d missing normal zones", seed)
		assert.Positive(t, classes[ZoneWet], "seed %d missing wet zones", seed)
	}
}

func TestZoneRadiiWithinClassRanges(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(9)))

	snap, err := model.ComputeSnapshot(50.45, 30.52, testSeries(2.0, 1.0, 10, 22))
	require.NoError(t, err)

	for _, z := range snap.Zones {
		switch z.Class {
		case ZoneDry:
			assert.GreaterOrEqual(t, z.Radius, 500.0)
			assert.LessOrEqual(t, z.Radius, 800.0)
		case ZoneNormal:
			assert.GreaterOrEqual(t, z.Radius, 600.0)
			assert.LessOrEqual(t, z.Radius, 800.0)
		case ZoneWet:
			assert.GreaterOrEqual(t, z.Radius, 400.0)
			assert.LessOrEqual(t, z.Radius, 600.0)
		}
	}
}

func TestFallbackZonesSkewWithMoistureDifference(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(2)))

	count := func(zones []MoistureZone, class string) int {
		n := 0
		for _, z := range zones {
			if z.Class == class {
				n++
			}
		}
		return n
	}

	dryLeaning := model.GenerateFallbackZones(50.45, 30.52, 30, -15)
	assert.Greater(t, count(dryLeaning, ZoneDry), count(dryLeaning, ZoneWet))

	wetLeaning := model.GenerateFallbackZones(50.45, 30.52, 70, 15)
	assert.Greater(t, count(wetLeaning, ZoneWet), count(wetLeaning, ZoneDry))

	balanced := model.GenerateFallbackZones(50.45, 30.52, 50, 0)
	assert.Positive(t, count(balanced, ZoneDry))
	assert.Positive(t, count(balanced, ZoneNormal))
	assert.Positive(t, count(balanced, ZoneWet))
}

func TestComputeSnapshotRejectsShortSeries(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(1)))

	short := testSeries(1, 1, 10, 20)
	short.Precipitation = short.Precipitation[:10]

	_, err := model.ComputeSnapshot(50.45, 30.52, short)
	require.ErrorIs(t, err, ErrDataProcessing)
}

func TestComputeSnapshotRejectsAllNaNSeries(t *testing.T) {
	model := NewMoistureModel(rand.New(rand.NewSource(1)))

	daily := testSeries(1, 1, 10, 20)
	for i := range daily.Precipitation {
		daily.Precipitation[i] = math.NaN()
	}

	_, err := model.ComputeSnapshot(50.45, 30.52, daily)
	require.ErrorIs(t, err, ErrDataProcessing)
}
