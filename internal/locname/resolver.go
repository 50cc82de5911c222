// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package locname resolves listing coordinates into short, human-readable place names.
//
// The Resolver never fails: every error ends in FallbackName. Callers therefore cannot tell a
// genuinely unknown location from a geocoder outage. The fallbacks metric and the warn level
// logs carry that distinction for monitoring.
package locname

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/estatehub/placename/internal/geo"
	"github.com/estatehub/placename/internal/geocode"
	"github.com/estatehub/placename/internal/http"
	"github.com/estatehub/placename/internal/logger"
)

const (
	// FreshnessWindow is how long a resolved name is served from the cache.
	FreshnessWindow = 24 * time.Hour

	// FallbackName is returned whenever no place name can be determined.
	FallbackName = "Unknown Location"

	// DefaultTimeout bounds a single reverse geocoding lookup.
	DefaultTimeout = 8 * time.Second
)

// Resolver maps coordinates to short place names. Results are cached for FreshnessWindow and
// concurrent lookups for the same coordinates share one geocoder request.
type Resolver struct {
	coder   geocode.Geocoder
	store   Store
	logger  *logger.Logger
	limiter *rate.Limiter
	metrics *Metrics
	timeout time.Duration

	group singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the upper bound for a single geocoder lookup.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithRateLimit throttles outbound geocoder requests.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(r *Resolver) {
		r.limiter = limiter
	}
}

// WithMetrics records cache and fallback statistics.
func WithMetrics(metrics *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = metrics
	}
}

// New returns a Resolver using coder for cache misses and store as cache.
func New(coder geocode.Geocoder, store Store, log *logger.Logger, opts ...Option) *Resolver {
	resolver := &Resolver{
		coder:   coder,
		store:   store,
		logger:  log,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Resolve returns a short place name for the given coordinates. Fresh cache entries are served
// without contacting the geocoder. Failed lookups return FallbackName and are not cached, so
// the next call for the same coordinates retries.
//
// Concurrent misses for the same coordinates share one geocoder request. That request is bound
// by the resolver timeout, not by the context of the caller that started it. A caller whose
// context ends first receives FallbackName.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	coords := geo.Coordinate{Lat: lat, Lon: lon}
	if !coords.Valid() {
		r.metrics.fallback(reasonInvalidCoordinates)
		r.logger.Debug("refusing to resolve invalid coordinates", slog.Float64("lat", lat),
			slog.Float64("lon", lon))
		return FallbackName
	}

	key := coords.String()
	if name, ok := r.store.Get(ctx, key); ok {
		r.metrics.hit()
		return name
	}
	r.metrics.miss()

	result := r.group.DoChan(key, func() (any, error) {
		return r.lookup(ctx, key, coords)
	})
	select {
	case <-ctx.Done():
		r.metrics.fallback(reasonCanceled)
		r.logger.Debug("place name lookup abandoned by caller", logger.Err(ctx.Err()),
			slog.String("coordinates", key))
		return FallbackName
	case res := <-result:
		if res.Err != nil {
			return FallbackName
		}
		return res.Val.(string)
	}
}

// EvictExpired removes stale cache entries and returns how many were removed.
func (r *Resolver) EvictExpired(ctx context.Context) int {
	evicted := r.store.EvictExpired(ctx)
	r.metrics.evicted(evicted)
	if evicted > 0 {
		r.logger.Debug("evicted expired place names", slog.Int("count", evicted))
	}
	return evicted
}

// Clear empties the cache.
func (r *Resolver) Clear(ctx context.Context) {
	if err := r.store.Clear(ctx); err != nil {
		r.logger.Error("failed to clear place name cache", logger.Err(err))
		return
	}
	r.logger.Debug("place name cache cleared")
}

func (r *Resolver) lookup(ctx context.Context, key string, coords geo.Coordinate) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.fail(reasonRateLimited, key, err)
			return "", err
		}
	}

	start := time.Now()
	result, err := r.coder.Reverse(ctx, coords)
	r.metrics.observe(time.Since(start))
	if err != nil {
		r.fail(classify(err), key, err)
		return "", err
	}

	name, ok := geocode.SelectName(result.Components)
	if !ok {
		r.fail(reasonNoComponent, key, geocode.ErrNoComponent)
		return "", geocode.ErrNoComponent
	}

	if err = r.store.Set(ctx, key, name); err != nil {
		r.logger.Warn("failed to cache place name", logger.Err(err), slog.String("coordinates", key))
	}
	r.logger.Debug("place name resolved", slog.String("coordinates", key), slog.String("name", name),
		slog.String("geocoder", r.coder.Name()))
	return name, nil
}

func (r *Resolver) fail(reason, key string, err error) {
	r.metrics.fallback(reason)

	level := slog.LevelWarn
	if reason == reasonNoResults || reason == reasonNoComponent {
		level = slog.LevelDebug
	}
	r.logger.Log(context.Background(), level, "falling back to default place name", logger.Err(err),
		slog.String("reason", reason), slog.String("coordinates", key), slog.String("geocoder", r.coder.Name()))
}

func classify(err error) string {
	switch {
	case errors.Is(err, geocode.ErrNoResults):
		return reasonNoResults
	case errors.Is(err, geocode.ErrProviderStatus):
		return reasonProviderStatus
	case errors.Is(err, http.ErrUnexpectedStatus):
		return reasonHTTPStatus
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	default:
		return reasonRequestFailed
	}
}
