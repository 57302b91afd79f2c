package agro

import (
	"math"
	"time"
)

// climateNormals holds per-month expected values for one latitude band.
// Precipitation is mm per day.
type climateNormals struct {
	temperature   [12]float64
	precipitation [12]float64
	humidity      [12]float64
}

// latitudeBand maps an absolute-latitude range to its monthly normals.
// Bands are checked in order; the first band whose limit exceeds |lat| wins.
type latitudeBand struct {
	maxAbsLat float64
	normals   climateNormals
}

var latitudeBands = []latitudeBand{
	{
		// Tropical: up to the Tropic of Cancer/Capricorn.
		maxAbsLat: 23.5,
		normals: climateNormals{
			temperature:   [12]float64{26, 27, 27, 28, 28, 27, 27, 27, 27, 27, 26, 26},
			precipitation: [12]float64{5.0, 4.2, 4.5, 5.5, 7.0, 8.0, 7.5, 7.0, 6.5, 7.0, 6.5, 5.5},
			humidity:      [12]float64{80, 79, 79, 80, 82, 84, 84, 83, 83, 83, 82, 81},
		},
	},
	{
		// Subtropical.
		maxAbsLat: 35,
		normals: climateNormals{
			temperature:   [12]float64{10, 11, 14, 17, 21, 25, 28, 28, 24, 19, 14, 11},
			precipitation: [12]float64{2.5, 2.3, 2.0, 1.5, 1.0, 0.6, 0.4, 0.5, 1.0, 1.8, 2.4, 2.6},
			humidity:      [12]float64{70, 68, 65, 62, 58, 55, 52, 54, 60, 66, 70, 72},
		},
	},
	{
		// Temperate.
		maxAbsLat: 55,
		normals: climateNormals{
			temperature:   [12]float64{-4, -3, 2, 10, 16, 19, 21, 20, 15, 8, 2, -2},
			precipitation: [12]float64{1.5, 1.4, 1.3, 1.5, 1.7, 2.4, 2.6, 2.2, 1.8, 1.5, 1.6, 1.7},
			humidity:      [12]float64{85, 83, 77, 67, 64, 68, 70, 68, 74, 79, 85, 87},
		},
	},
	{
		// Subarctic and beyond.
		maxAbsLat: 91,
		normals: climateNormals{
			temperature:   [12]float64{-12, -11, -5, 2, 9, 14, 17, 14, 9, 2, -5, -10},
			precipitation: [12]float64{1.0, 0.9, 0.9, 1.0, 1.3, 1.8, 2.0, 1.9, 1.5, 1.2, 1.1, 1.0},
			humidity:      [12]float64{85, 84, 80, 72, 66, 68, 72, 75, 80, 84, 86, 87},
		},
	},
}

// uvBaseByMonth is the clear-sky UV index at the latitude of peak exposure.
var uvBaseByMonth = [12]float64{1.5, 2.5, 4.0, 6.0, 8.0, 9.0, 9.5, 8.5, 6.5, 4.5, 2.5, 1.5}

func normalsFor(lat float64) climateNormals {
	abs := math.Abs(lat)
	for _, band := range latitudeBands {
		if abs < band.maxAbsLat {
			return band.normals
		}
	}
	return latitudeBands[len(latitudeBands)-1].normals
}

// seasonMonth shifts the calendar month by half a year for the southern
// hemisphere so the tables stay seasonal rather than calendrical.
func seasonMonth(month time.Month, lat float64) int {
	idx := int(month) - 1
	if lat < 0 {
		idx = (idx + 6) % 12
	}
	return idx
}

// BaselineTemperature returns the expected mean temperature (°C) for the
// given month and latitude.
func BaselineTemperature(month time.Month, lat float64) float64 {
	return normalsFor(lat).temperature[seasonMonth(month, lat)]
}

// BaselinePrecipitation returns the expected precipitation (mm/day).
func BaselinePrecipitation(month time.Month, lat float64) float64 {
	return normalsFor(lat).precipitation[seasonMonth(month, lat)]
}

// BaselineHumidity returns the expected relative humidity (%).
func BaselineHumidity(month time.Month, lat float64) float64 {
	return normalsFor(lat).humidity[seasonMonth(month, lat)]
}

// BaselineUVIndex returns the expected UV index, scaling the per-month base
// by a latitude factor that peaks near |lat| = 25.
func BaselineUVIndex(month time.Month, lat float64) float64 {
	base := uvBaseByMonth[seasonMonth(month, lat)]
	factor := 1.0 - math.Abs(math.Abs(lat)-25)/90
	if factor < 0.2 {
		factor = 0.2
	}
	return base * factor
}
