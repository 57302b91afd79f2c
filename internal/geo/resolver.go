// Package geo resolves place names to coordinates. The primary source is the
// Open-Meteo geocoding API; a Google geocoder is used as fallback when an API
// key is configured. Resolved places are kept in a short-TTL cache so
// repeated lookups (and localized-name translations) are served locally.
package geo

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	"github.com/taramuri/weather-platform-sub001/internal/store"
	"github.com/taramuri/weather-platform-sub001/internal/webclient"
)

const defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// Place is a resolved location.
type Place struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Resolver maps place names to coordinates.
type Resolver struct {
	baseURL   string
	web       *webclient.Client
	googleKey string
	cache     *store.Cache[Place]
}

// NewResolver creates a Resolver. googleKey may be empty, disabling the
// fallback geocoder. cache may be nil, disabling memoization.
func NewResolver(web *webclient.Client, googleKey string, cache *store.Cache[Place]) *Resolver {
	return &Resolver{
		baseURL:   defaultGeocodingURL,
		web:       web,
		googleKey: googleKey,
		cache:     cache,
	}
}

// Resolve returns coordinates and a display name for the place, or
// agro.ErrLocationNotFound when no source has a match. Cache writes are
// last-writer-wins.
func (r *Resolver) Resolve(ctx context.Context, name string) (Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Place{}, agro.ErrParamsMissing
	}

	key := "place:" + strings.ToLower(name)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
	}

	place, err := r.resolveOpenMeteo(ctx, name)
	if err != nil {
		if r.googleKey == "" {
			return Place{}, err
		}
		log.Printf("geo: open-meteo lookup failed for %q: %v; trying google geocoder", name, err)
		place, err = r.resolveGoogle(name)
		if err != nil {
			return Place{}, err
		}
	}

	if r.cache != nil {
		r.cache.Put(key, place)
	}
	return place, nil
}

func (r *Resolver) resolveOpenMeteo(ctx context.Context, name string) (Place, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
			Country   string  `json:"country"`
		} `json:"results"`
	}
	if err := r.web.GetJSON(ctx, fmt.Sprintf("%s?%s", r.baseURL, values.Encode()), &payload); err != nil {
		return Place{}, fmt.Errorf("%w: %v", agro.ErrWeatherFeed, err)
	}

	if len(payload.Results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", agro.ErrLocationNotFound, name)
	}

	res := payload.Results[0]
	display := res.Name
	if res.Country != "" {
		display = fmt.Sprintf("%s, %s", res.Name, res.Country)
	}

	return Place{
		Latitude:    res.Latitude,
		Longitude:   res.Longitude,
		DisplayName: display,
	}, nil
}

func (r *Resolver) resolveGoogle(name string) (Place, error) {
	geocoder.ApiKey = r.googleKey

	loc, err := geocoder.Geocoding(geocoder.Address{City: name})
	if err != nil {
		return Place{}, fmt.Errorf("%w: %q", agro.ErrLocationNotFound, name)
	}

	return Place{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		DisplayName: name,
	}, nil
}
