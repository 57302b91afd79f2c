package agro

import "errors"

var (
	// ErrParamsMissing is returned when neither a place name nor coordinates
	// were supplied. Surfaced to the caller unchanged.
	ErrParamsMissing = errors.New("either place name or coordinates are required")

	// ErrLocationNotFound is returned when geocoding finds no match for the
	// requested place. Surfaced to the caller unchanged.
	ErrLocationNotFound = errors.New("location not found")

	// ErrWeatherFeed marks transport or malformed-payload failures of the raw
	// weather feed. Moisture and trend computations catch it internally and
	// degrade to a synthetic response instead of surfacing it.
	ErrWeatherFeed = errors.New("weather feed error")

	// ErrDataProcessing marks a malformed or insufficient series inside a
	// computation. Fatal to the single request only.
	ErrDataProcessing = errors.New("data processing error")
)
