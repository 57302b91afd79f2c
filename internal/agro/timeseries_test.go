package agro

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateDailyBounds(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	points, err := gen.Generate(50.45, 30.52, date(2025, time.June, 1), date(2025, time.June, 30), ResolutionDay)
	require.NoError(t, err)
	require.Len(t, points, 30)

	for _, p := range points {
		assert.LessOrEqual(t, p.TemperatureMin, p.Temperature, "min above mean on %s", p.Date)
		assert.LessOrEqual(t, p.Temperature, p.TemperatureMax, "mean above max on %s", p.Date)
		assert.GreaterOrEqual(t, p.Humidity, 20.0)
		assert.LessOrEqual(t, p.Humidity, 95.0)
		assert.GreaterOrEqual(t, p.WindSpeed, 5.0)
		assert.LessOrEqual(t, p.WindSpeed, 15.0)
		assert.GreaterOrEqual(t, p.Precipitation, 0.0)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a, err := NewGenerator(rand.New(rand.NewSource(42))).
		Generate(48.0, 24.0, date(2025, time.May, 1), date(2025, time.May, 10), ResolutionDay)
	require.NoError(t, err)

	b, err := NewGenerator(rand.New(rand.NewSource(42))).
		Generate(48.0, 24.0, date(2025, time.May, 1), date(2025, time.May, 10), ResolutionDay)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateWeeklyAggregation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	gen := NewGenerator(rng)

	points, err := gen.Generate(50.45, 30.52, date(2025, time.July, 1), date(2025, time.July, 14), ResolutionWeek)
	require.NoError(t, err)
	require.Len(t, points, 2, "14 days should fold into two 7-day blocks")

	// Regenerate the dailies with the same seed and compare aggregates.
	daily, err := NewGenerator(rand.New(rand.NewSource(7))).
		Generate(50.45, 30.52, date(2025, time.July, 1), date(2025, time.July, 14), ResolutionDay)
	require.NoError(t, err)

	var precipFirstWeek float64
	maxTemp := daily[0].TemperatureMax
	for _, p := range daily[:7] {
		precipFirstWeek += p.Precipitation
		if p.TemperatureMax > maxTemp {
			maxTemp = p.TemperatureMax
		}
	}

	assert.InDelta(t, precipFirstWeek, points[0].Precipitation, 1e-9, "weekly precipitation must be the sum of dailies")
	assert.InDelta(t, maxTemp, points[0].TemperatureMax, 1e-9, "weekly max must be the max of dailies")
	assert.Equal(t, date(2025, time.July, 1), points[0].Date)
	assert.Equal(t, date(2025, time.July, 8), points[1].Date)
}

func TestGenerateMonthlyCalendarBoundaries(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3)))

	points, err := gen.Generate(50.45, 30.52, date(2025, time.January, 15), date(2025, time.March, 10), ResolutionMonth)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, time.January, points[0].Date.Month())
	assert.Equal(t, time.February, points[1].Date.Month())
	assert.Equal(t, time.March, points[2].Date.Month())
}

func TestGenerateRejectsInvertedRange(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	_, err := gen.Generate(50.45, 30.52, date(2025, time.June, 10), date(2025, time.June, 1), ResolutionDay)
	require.ErrorIs(t, err, ErrDataProcessing)
}

func TestGenerateRejectsUnknownResolution(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	_, err := gen.Generate(50.45, 30.52, date(2025, time.June, 1), date(2025, time.June, 2), Resolution("hour"))
	require.ErrorIs(t, err, ErrDataProcessing)
}

func TestBaselineUVPeaksNearLatitude25(t *testing.T) {
	at25 := BaselineUVIndex(time.June, 25)
	at0 := BaselineUVIndex(time.June, 0)
	at55 := BaselineUVIndex(time.June, 55)

	assert.Greater(t, at25, at0)
	assert.Greater(t, at25, at55)
}

func TestBaselineSouthernHemisphereSeasonShift(t *testing.T) {
	// July in the southern temperate band should look like January in the
	// northern one.
	north := BaselineTemperature(time.January, 50)
	south := BaselineTemperature(time.July, -50)

	assert.Equal(t, north, south)
}
