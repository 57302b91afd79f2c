package agro

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator synthesizes weather-grounded climate series from the seasonal
// baseline tables plus bounded random perturbation. It is a pure function of
// its inputs and the injected random source; seed the source for
// deterministic output in tests.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng falls back to a time-seeded
// source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate builds one ClimatePoint per calendar unit of the resolution over
// [start, end], inclusive of both endpoints. Weekly points are fixed 7-day
// blocks from the range start; monthly points follow calendar months.
func (g *Generator) Generate(lat, lon float64, start, end time.Time, res Resolution) ([]ClimatePoint, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", ErrDataProcessing, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	daily := g.generateDaily(lat, start, end)

	switch res {
	case ResolutionDay:
		return daily, nil
	case ResolutionWeek:
		return aggregateFixedBlocks(daily, 7), nil
	case ResolutionMonth:
		return aggregateCalendarMonths(daily), nil
	default:
		return nil, fmt.Errorf("%w: unknown resolution %q", ErrDataProcessing, res)
	}
}

func (g *Generator) generateDaily(lat float64, start, end time.Time) []ClimatePoint {
	var points []ClimatePoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		points = append(points, g.generateDay(lat, d))
	}
	return points
}

func (g *Generator) generateDay(lat float64, date time.Time) ClimatePoint {
	month := date.Month()

	temp := BaselineTemperature(month, lat) + g.rng.Float64()*10 - 5
	tmax := temp + 2 + g.rng.Float64()*4
	tmin := temp - 2 - g.rng.Float64()*4

	precip := BaselinePrecipitation(month, lat) * (0.3 + g.rng.Float64()*0.7)
	humidity := clamp(BaselineHumidity(month, lat)+g.rng.Float64()*20-10, 20, 95)

	return ClimatePoint{
		Date:           date,
		Temperature:    temp,
		TemperatureMax: tmax,
		TemperatureMin: tmin,
		Precipitation:  precip,
		Humidity:       humidity,
		WindSpeed:      5 + g.rng.Float64()*10,
		Pressure:       1013 + g.rng.Float64()*40 - 20,
		UVIndex:        BaselineUVIndex(month, lat),
	}
}

// aggregateFixedBlocks folds daily points into consecutive blocks of size n
// counted from the range start. The last block may be shorter.
func aggregateFixedBlocks(daily []ClimatePoint, n int) []ClimatePoint {
	var out []ClimatePoint
	for i := 0; i < len(daily); i += n {
		j := i + n
		if j > len(daily) {
			j = len(daily)
		}
		out = append(out, aggregatePoints(daily[i:j]))
	}
	return out
}

// aggregateCalendarMonths folds daily points into calendar-month buckets.
func aggregateCalendarMonths(daily []ClimatePoint) []ClimatePoint {
	var out []ClimatePoint
	i := 0
	for i < len(daily) {
		y, m := daily[i].Date.Year(), daily[i].Date.Month()
		j := i
		for j < len(daily) && daily[j].Date.Year() == y && daily[j].Date.Month() == m {
			j++
		}
		out = append(out, aggregatePoints(daily[i:j]))
		i = j
	}
	return out
}

// aggregatePoints combines daily points into one aggregate: mean for
// temperature, humidity, wind, pressure and UV; sum for precipitation;
// max/min of the underlying extremes. The aggregate takes the first point's
// date.
func aggregatePoints(points []ClimatePoint) ClimatePoint {
	agg := ClimatePoint{
		Date:           points[0].Date,
		TemperatureMax: points[0].TemperatureMax,
		TemperatureMin: points[0].TemperatureMin,
	}

	for _, p := range points {
		agg.Temperature += p.Temperature
		agg.Humidity += p.Humidity
		agg.WindSpeed += p.WindSpeed
		agg.Pressure += p.Pressure
		agg.UVIndex += p.UVIndex
		agg.Precipitation += p.Precipitation
		if p.TemperatureMax > agg.TemperatureMax {
			agg.TemperatureMax = p.TemperatureMax
		}
		if p.TemperatureMin < agg.TemperatureMin {
			agg.TemperatureMin = p.TemperatureMin
		}
	}

	n := float64(len(points))
	agg.Temperature /= n
	agg.Humidity /= n
	agg.WindSpeed /= n
	agg.Pressure /= n
	agg.UVIndex /= n

	return agg
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
