package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	"github.com/taramuri/weather-platform-sub001/internal/geo"
	"github.com/taramuri/weather-platform-sub001/internal/meteo"
)

var validate = validator.New()

// LocationResolver resolves a place name to coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, name string) (geo.Place, error)
}

// AirQualityFeed exposes the collaborator's current air quality reading.
type AirQualityFeed interface {
	FetchAirQuality(ctx context.Context, lat, lon float64) (meteo.AirQuality, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. air may be nil,
// disabling the air quality endpoint.
func RegisterRoutes(app *fiber.App, service *agro.Service, resolver LocationResolver, air AirQualityFeed) {
	v1 := app.Group("/api/v1/agro")

	v1.Get("/trends", func(c *fiber.Ctx) error {
		coords, err := resolveCoordinates(c, resolver)
		if err != nil {
			return mapError(err)
		}

		var req trendsQuery
		req.Range = c.Query("range", "month")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := service.GetTrends(c.Context(), coords, req.Range)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/moisture", func(c *fiber.Ctx) error {
		coords, err := resolveCoordinates(c, resolver)
		if err != nil {
			return mapError(err)
		}

		snapshot, err := service.GetMoistureSnapshot(c.Context(), coords)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(snapshot)
	})

	v1.Get("/yield", func(c *fiber.Ctx) error {
		coords, err := resolveCoordinates(c, resolver)
		if err != nil {
			return mapError(err)
		}

		// Unknown crops fall back to the default band, so the crop name is
		// passed through unvalidated.
		crop := c.Query("crop", "wheat")

		prediction, err := service.GetYieldPrediction(c.Context(), crop, coords)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(prediction)
	})

	if air != nil {
		v1.Get("/air", func(c *fiber.Ctx) error {
			coords, err := resolveCoordinates(c, resolver)
			if err != nil {
				return mapError(err)
			}

			reading, err := air.FetchAirQuality(c.Context(), coords.Latitude, coords.Longitude)
			if err != nil {
				return mapError(err)
			}
			return c.JSON(reading)
		})
	}
}

// trendsQuery holds the validated trend query parameters.
type trendsQuery struct {
	Range string `validate:"required,oneof=week month season year"`
}

// coordsQuery holds optional explicit coordinates.
type coordsQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

// resolveCoordinates accepts either ?place= or ?lat=&lon=. Neither present is
// a missing-parameters error surfaced to the caller unchanged.
func resolveCoordinates(c *fiber.Ctx, resolver LocationResolver) (agro.Coordinates, error) {
	place := c.Query("place")
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if place == "" && (latStr == "" || lonStr == "") {
		return agro.Coordinates{}, agro.ErrParamsMissing
	}

	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return agro.Coordinates{}, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return agro.Coordinates{}, fiber.NewError(fiber.StatusBadRequest, "invalid lon")
		}

		q := coordsQuery{Lat: lat, Lon: lon}
		if err := validate.Struct(q); err != nil {
			return agro.Coordinates{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return agro.Coordinates{Latitude: lat, Longitude: lon}, nil
	}

	if resolver == nil {
		return agro.Coordinates{}, agro.ErrLocationNotFound
	}

	resolved, err := resolver.Resolve(c.Context(), place)
	if err != nil {
		return agro.Coordinates{}, err
	}
	return agro.Coordinates{Latitude: resolved.Latitude, Longitude: resolved.Longitude}, nil
}

// mapError converts core error kinds to HTTP responses.
func mapError(err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, agro.ErrParamsMissing):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, agro.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, agro.ErrWeatherFeed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute analytics")
	}
}
