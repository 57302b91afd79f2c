package agro

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/taramuri/weather-platform-sub001/internal/store"
)

// WeatherFeed is the raw weather collaborator the core consumes. FetchDaily
// returns historical daily series ending at the current day; FetchSeasonal is
// optional real forecast data preferred over synthesis for short horizons.
type WeatherFeed interface {
	FetchDaily(ctx context.Context, lat, lon float64, pastDays, forecastDays int) (DailySeries, error)
	FetchSeasonal(ctx context.Context, lat, lon float64, horizonDays int) ([]ClimatePoint, error)
}

// VegetationProvider supplies satellite vegetation indices for a point.
type VegetationProvider interface {
	FetchIndices(ctx context.Context, lat, lon float64) (VegetationIndices, error)
}

// Supported trend time ranges and their spans.
var timeRanges = map[string]struct {
	days       int
	resolution Resolution
}{
	"week":   {days: 7, resolution: ResolutionDay},
	"month":  {days: 30, resolution: ResolutionDay},
	"season": {days: 90, resolution: ResolutionWeek},
	"year":   {days: 365, resolution: ResolutionMonth},
}

// seasonalHorizonDays bounds how far the real seasonal forecast feed is asked
// to reach; longer ranges go straight to synthesis.
const seasonalHorizonDays = 16

// Service exposes the three analytics queries. All computations are pure and
// synchronous; the only suspension points are the collaborator calls, and a
// failing collaborator degrades the response instead of failing it.
type Service struct {
	feed       WeatherFeed
	vegetation VegetationProvider
	moisture   *store.Cache[MoistureSnapshot]
	seed       int64
}

// NewService creates a Service. feed and vegetation may be nil, in which case
// every response is synthesized. A zero seed makes each request use a
// time-seeded random source.
func NewService(feed WeatherFeed, vegetation VegetationProvider, moistureCache *store.Cache[MoistureSnapshot], seed int64) *Service {
	return &Service{
		feed:       feed,
		vegetation: vegetation,
		moisture:   moistureCache,
		seed:       seed,
	}
}

// newRand returns a request-scoped random source. Requests never share one,
// so no locking is needed.
func (s *Service) newRand() *rand.Rand {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GetTrends analyzes the climate series for the coordinates over the named
// time range. Real seasonal forecast data is preferred for short horizons;
// anything else, or a failing feed, falls back to the generator.
func (s *Service) GetTrends(ctx context.Context, coords Coordinates, timeRange string) (TrendAnalysisResult, error) {
	spec, ok := timeRanges[timeRange]
	if !ok {
		return TrendAnalysisResult{}, fmt.Errorf("%w: unknown time range %q", ErrDataProcessing, timeRange)
	}

	degraded := false
	var points []ClimatePoint

	if s.feed != nil && spec.days <= seasonalHorizonDays {
		fetched, err := s.feed.FetchSeasonal(ctx, coords.Latitude, coords.Longitude, spec.days)
		switch {
		case err != nil:
			log.Printf("trends: seasonal feed failed for %.2f,%.2f: %v; falling back to synthesis", coords.Latitude, coords.Longitude, err)
			degraded = true
		case len(fetched) < 2:
			log.Printf("trends: seasonal feed returned %d point(s) for %.2f,%.2f; falling back to synthesis", len(fetched), coords.Latitude, coords.Longitude)
			degraded = true
		default:
			points = fetched
		}
	}

	if points == nil {
		end := truncateDay(time.Now().UTC())
		start := end.AddDate(0, 0, -(spec.days - 1))

		generated, err := NewGenerator(s.newRand()).Generate(coords.Latitude, coords.Longitude, start, end, spec.resolution)
		if err != nil {
			return TrendAnalysisResult{}, err
		}
		points = generated
	}

	result := Analyze(points, timeRange)
	result.Degraded = degraded
	return result, nil
}

// GetMoistureSnapshot computes (or returns a cached) moisture snapshot for
// the coordinates. A failing or malformed weather feed degrades to a
// synthesized series; the response flags it and is never an error.
func (s *Service) GetMoistureSnapshot(ctx context.Context, coords Coordinates) (MoistureSnapshot, error) {
	key := moistureCacheKey(coords)
	if s.moisture != nil {
		if cached, ok := s.moisture.Get(key); ok {
			return cached, nil
		}
	}

	snapshot, err := s.computeMoisture(ctx, coords)
	if err != nil {
		return MoistureSnapshot{}, err
	}

	if s.moisture != nil {
		s.moisture.Put(key, snapshot)
	}
	return snapshot, nil
}

func (s *Service) computeMoisture(ctx context.Context, coords Coordinates) (MoistureSnapshot, error) {
	model := NewMoistureModel(s.newRand())

	if s.feed != nil {
		daily, err := s.feed.FetchDaily(ctx, coords.Latitude, coords.Longitude, moistureWindowDays+1, 0)
		if err == nil {
			snapshot, cerr := model.ComputeSnapshot(coords.Latitude, coords.Longitude, daily)
			if cerr == nil {
				return snapshot, nil
			}
			err = cerr
		}
		diagID := uuid.NewString()
		log.Printf("moisture: feed unusable for %.2f,%.2f (diagnostic %s): %v; degrading to synthetic series", coords.Latitude, coords.Longitude, diagID, err)
		return s.syntheticMoisture(coords, model, diagID)
	}

	return s.syntheticMoisture(coords, model, "")
}

// syntheticMoisture rebuilds the snapshot from a generated daily series. It
// only fails on internal aggregation bugs, which are request-fatal.
func (s *Service) syntheticMoisture(coords Coordinates, model *MoistureModel, diagID string) (MoistureSnapshot, error) {
	end := truncateDay(time.Now().UTC())
	start := end.AddDate(0, 0, -moistureWindowDays)

	points, err := NewGenerator(s.newRand()).Generate(coords.Latitude, coords.Longitude, start, end, ResolutionDay)
	if err != nil {
		return MoistureSnapshot{}, err
	}

	daily := DailySeries{
		Dates:          make([]time.Time, len(points)),
		Precipitation:  make([]float64, len(points)),
		TemperatureMin: make([]float64, len(points)),
		TemperatureMax: make([]float64, len(points)),
	}
	for i, p := range points {
		daily.Dates[i] = p.Date
		daily.Precipitation[i] = p.Precipitation
		daily.TemperatureMin[i] = p.TemperatureMin
		daily.TemperatureMax[i] = p.TemperatureMax
	}

	snapshot, err := model.ComputeSnapshot(coords.Latitude, coords.Longitude, daily)
	if err != nil {
		return MoistureSnapshot{}, err
	}

	if diagID != "" {
		snapshot.Degraded = true
		snapshot.DiagnosticID = diagID
		snapshot.Zones = model.GenerateFallbackZones(coords.Latitude, coords.Longitude, snapshot.CurrentMoisture, snapshot.MoistureDifference)
	}
	return snapshot, nil
}

// GetYieldPrediction combines the seasonal trend and the moisture snapshot
// into a yield estimate for the crop, attaching vegetation indices when a
// provider is configured.
func (s *Service) GetYieldPrediction(ctx context.Context, crop string, coords Coordinates) (YieldPrediction, error) {
	trend, err := s.GetTrends(ctx, coords, "season")
	if err != nil {
		return YieldPrediction{}, err
	}

	snapshot, err := s.GetMoistureSnapshot(ctx, coords)
	if err != nil {
		return YieldPrediction{}, err
	}

	prediction := PredictYield(crop, trend, snapshot)

	if s.vegetation != nil {
		indices, err := s.vegetation.FetchIndices(ctx, coords.Latitude, coords.Longitude)
		if err != nil {
			log.Printf("yield: vegetation indices unavailable for %.2f,%.2f: %v", coords.Latitude, coords.Longitude, err)
		} else {
			prediction.Vegetation = &indices
		}
	}

	return prediction, nil
}

// moistureCacheKey rounds coordinates to two decimals so nearby queries share
// an entry. Concurrent recomputation for the same key is acceptable; cache
// writes are last-writer-wins.
func moistureCacheKey(coords Coordinates) string {
	return fmt.Sprintf("moisture:%.2f:%.2f", coords.Latitude, coords.Longitude)
}
