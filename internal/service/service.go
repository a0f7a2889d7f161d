// Package service orchestrates a fetch cycle: resolve the applicable day's
// schedule, obtain a forecast per referenced location (cache first), run the
// decision core per location, and merge into the combined result.
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jiten-project/umbrella-app/internal/forecast"
	"github.com/jiten-project/umbrella-app/internal/reminder"
	"github.com/jiten-project/umbrella-app/internal/schedule"
	"github.com/jiten-project/umbrella-app/internal/types"
	"github.com/jiten-project/umbrella-app/internal/umbrella"
)

// Service wires the injected collaborators into the decision pipeline.
// A new fetch cycle never aborts a prior in-flight one; the latest caller to
// finish wins by overwriting whatever was rendered before.
type Service struct {
	fetcher  types.PayloadFetcher
	cache    types.PayloadCache
	resolver types.LocationResolver
	store    types.SettingsStore
	planner  reminder.Planner
	logger   *slog.Logger

	// defaults is the process-level threshold rule applied when a caller
	// supplies no criteria. Per-user criteria from settings take precedence.
	defaults types.UmbrellaCriteria

	// nowFn allows tests to control the clock.
	nowFn func() time.Time
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithDefaultCriteria overrides the documented default threshold rule for
// criteria-less calls.
func WithDefaultCriteria(c types.UmbrellaCriteria) Option {
	return func(s *Service) {
		s.defaults = c
	}
}

// New creates a Service. The resolver may be nil when GPS-based origins are
// not supported by the deployment.
func New(fetcher types.PayloadFetcher, cache types.PayloadCache, resolver types.LocationResolver, store types.SettingsStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		cache:    cache,
		resolver: resolver,
		store:    store,
		planner:  reminder.NewPlanner(),
		logger:   logger,
		defaults: types.DefaultCriteria(),
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckResult is the outcome of a full fetch cycle.
type CheckResult struct {
	// When reports whether the result was computed for today's or tomorrow's
	// schedule, so the caller can frame it accordingly.
	When     types.ScheduleDay     `json:"when"`
	Weekday  types.Weekday         `json:"weekday"`
	NoOuting bool                  `json:"no_outing"`
	Combined *types.CombinedResult `json:"combined,omitempty"`
}

// Check runs a full fetch cycle for the stored settings: schedule resolution
// with the one-day rollover rule, per-location forecasts, per-location
// decisions, and the combined reduction.
//
// A destination failure is non-fatal and simply yields no destination result.
// An origin failure fails the cycle with its typed error; no partial decision
// is returned.
func (s *Service) Check(ctx context.Context) (*CheckResult, error) {
	settings, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	res := schedule.Resolve(settings.Week, now)
	out := &CheckResult{When: res.When, Weekday: res.Weekday}

	if res.Schedule == nil {
		out.NoOuting = true
		return out, nil
	}

	day := res.Schedule
	window := types.Window{Start: day.Start, End: day.End}

	origin, err := s.originLocation(ctx, settings, day)
	if err != nil {
		return nil, err
	}

	var originResult, destResult *types.LocationResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lr, err := s.evaluateLocation(gctx, origin, window, &settings.Criteria)
		if err != nil {
			return err
		}
		originResult = lr
		return nil
	})
	if day.DestinationID != nil {
		dest := settings.LocationByID(*day.DestinationID)
		if dest == nil {
			s.logger.Warn("destination reference points at a deleted location",
				"location_id", *day.DestinationID,
			)
		} else {
			g.Go(func() error {
				lr, err := s.evaluateLocation(gctx, dest, window, &settings.Criteria)
				if err != nil {
					// The destination is optional: degrade to no result.
					s.logger.Warn("destination forecast unavailable",
						"area_code", dest.AreaCode,
						"error", err,
					)
					return nil
				}
				destResult = lr
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := umbrella.Combine(originResult, destResult)
	out.Combined = &combined
	return out, nil
}

// originLocation resolves the cycle's origin: the referenced saved location,
// or the device position when the day has no origin reference.
func (s *Service) originLocation(ctx context.Context, settings *types.Settings, day *types.DaySchedule) (*types.Location, error) {
	if day.OriginID != nil {
		loc := settings.LocationByID(*day.OriginID)
		if loc == nil {
			return nil, types.NewAppError(types.ErrCodeNotFoundLocation,
				"origin references a deleted location", nil)
		}
		return loc, nil
	}

	if s.resolver == nil {
		return nil, types.NewAppError(types.ErrCodeLocationManual,
			"no origin configured and device location is unavailable", nil)
	}
	resolved, err := s.resolver.ResolveCurrentLocation(ctx)
	if err != nil {
		return nil, err
	}
	return &types.Location{
		ID:       types.GPSLocationID,
		Name:     resolved.AreaName,
		AreaCode: resolved.AreaCode,
		IsGPS:    true,
	}, nil
}

// evaluateLocation fetches and normalizes the forecast for one location and
// runs the decision engine over the outing window.
func (s *Service) evaluateLocation(ctx context.Context, loc *types.Location, window types.Window, criteria *types.UmbrellaCriteria) (*types.LocationResult, error) {
	fc, err := s.forecastFor(ctx, loc.AreaCode)
	if err != nil {
		return nil, err
	}
	result, err := umbrella.Determine(fc, window, criteria)
	if err != nil {
		return nil, err
	}
	return &types.LocationResult{Location: *loc, Result: result}, nil
}

// forecastFor returns the normalized forecast for an area, consulting the
// payload cache before the network. A cached payload that no longer passes
// structural validation is treated as absent, not as an error. Freshly
// fetched payloads are cached only after they normalize successfully.
func (s *Service) forecastFor(ctx context.Context, areaCode string) (*types.Forecast, error) {
	if cached := s.cache.Load(areaCode); cached != nil {
		fc, err := forecast.Normalize(cached, areaCode)
		if err == nil {
			return fc, nil
		}
		s.logger.Warn("cached payload failed validation, refetching",
			"area_code", areaCode,
			"error", err,
		)
	}

	raw, err := s.fetcher.FetchForecastPayload(ctx, areaCode)
	if err != nil {
		return nil, err
	}
	fc, err := forecast.Normalize(raw, areaCode)
	if err != nil {
		return nil, err
	}
	s.cache.Save(areaCode, raw)
	return fc, nil
}

// Hourly exposes the window sampler for one area without running the
// decision engine.
func (s *Service) Hourly(ctx context.Context, areaCode string, window types.Window) ([]types.HourlySample, error) {
	fc, err := s.forecastFor(ctx, areaCode)
	if err != nil {
		return nil, err
	}
	return umbrella.ExtractHourlySamples(fc, window)
}

// Temperature exposes the best-effort min/max extraction for one area.
func (s *Service) Temperature(ctx context.Context, areaCode string) (types.TemperatureRange, error) {
	fc, err := s.forecastFor(ctx, areaCode)
	if err != nil {
		return types.TemperatureRange{}, err
	}
	return forecast.ExtractTemperature(fc), nil
}

// Decide runs the decision engine for a single explicit area and window,
// bypassing the schedule. Used by the CLI and ad-hoc API queries. A nil
// criteria applies the process-level defaults.
func (s *Service) Decide(ctx context.Context, areaCode string, window types.Window, criteria *types.UmbrellaCriteria) (types.UmbrellaResult, error) {
	fc, err := s.forecastFor(ctx, areaCode)
	if err != nil {
		return types.UmbrellaResult{}, err
	}
	if criteria == nil {
		criteria = &s.defaults
	}
	return umbrella.Determine(fc, window, criteria)
}

// Settings returns the stored settings document.
func (s *Service) Settings(ctx context.Context) (*types.Settings, error) {
	return s.store.Load(ctx)
}

// UpdateSettings validates and persists a full settings document.
func (s *Service) UpdateSettings(ctx context.Context, settings *types.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings.SchemaVersion = types.SettingsSchemaVersion
	settings.UpdatedAt = s.nowFn()
	return s.store.Save(ctx, settings)
}

// NextReminders returns the upcoming reminder instants for the stored
// settings.
func (s *Service) NextReminders(ctx context.Context) ([]reminder.Plan, error) {
	settings, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.planner.Next(settings, s.nowFn()), nil
}
