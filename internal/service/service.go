// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	stdhttp "net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/estatehub/placename/internal/config"
	"github.com/estatehub/placename/internal/geocode"
	"github.com/estatehub/placename/internal/label"
	"github.com/estatehub/placename/internal/locname"
	"github.com/estatehub/placename/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Service is the place name lookup service. It owns the resolver, the HTTP API and the
// scheduled cache maintenance.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	registry  *prometheus.Registry
	resolver  *locname.Resolver
	labeler   *label.Labeler
	scheduler gocron.Scheduler
	server    *stdhttp.Server
	store     locname.Store

	closeOnce sync.Once
	closeErr  error

	// SignalSrc delivers the cache maintenance signals
	SignalSrc signalSource
}

// New creates the service with the geocoder and cache backend selected in conf.
func New(ctx context.Context, conf *config.Config, log *logger.Logger, lang language.Tag) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger must not be nil")
	}
	coder, err := selectGeocodeProvider(conf, log, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode provider: %w", err)
	}
	store, err := selectCacheStore(ctx, conf, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}
	return newService(conf, log, coder, store)
}

func newService(conf *config.Config, log *logger.Logger, coder geocode.Geocoder, store locname.Store) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []locname.Option{
		locname.WithTimeout(conf.GeoCoder.Timeout),
		locname.WithMetrics(locname.NewMetrics(registry)),
	}
	if conf.GeoCoder.RequestsPerSecond > 0 {
		opts = append(opts, locname.WithRateLimit(rate.NewLimiter(rate.Limit(conf.GeoCoder.RequestsPerSecond), 1)))
	}
	resolver := locname.New(coder, store, log, opts...)

	labeler, err := label.New(resolver, conf.Label.Template, conf.Label.MaxWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		registry:  registry,
		resolver:  resolver,
		labeler:   labeler,
		scheduler: scheduler,
		store:     store,
		SignalSrc: stdLibSignalSource{},
	}
	service.server = &stdhttp.Server{
		Addr:              conf.Listen,
		Handler:           service.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	log.Debug("lookup service created", slog.String("geocoder", coder.Name()),
		slog.String("cache", conf.Cache.Backend))
	return service, nil
}

// Label resolves the label for a single "lat,lng" string. Unparsable input is returned unchanged.
func (s *Service) Label(ctx context.Context, coords string) (string, error) {
	return s.labeler.Label(ctx, coords, coords)
}

// Run starts the cache sweep job and the HTTP API and blocks until ctx is cancelled or the
// server fails.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Cache.SweepInterval, s.sweepCache,
		"cache_sweep_job"); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err), s.Close())
	}
	s.scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGHUP, syscall.SIGUSR1)
	defer s.SignalSrc.Stop(sigChan)
	go s.HandleSignals(ctx, sigChan)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.Serve(listener)
	}()
	s.logger.Info("lookup service listening", slog.String("address", listener.Addr().String()))

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if !errors.Is(err, stdhttp.ErrServerClosed) {
			return errors.Join(fmt.Errorf("lookup service failed: %w", err), s.Close())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err = s.server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed to shut down lookup service: %w", err)
	}
	s.logger.Info("lookup service stopped")
	return errors.Join(err, s.Close())
}

// Close stops the scheduler and releases the cache backend. It is safe to call Close more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down scheduler: %w", err))
		}
		if closer, ok := s.store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close cache store: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// sweepCache removes stale place names from the cache.
func (s *Service) sweepCache(ctx context.Context) {
	evicted := s.resolver.EvictExpired(ctx)
	s.logger.Debug("cache sweep finished", slog.Int("evicted", evicted))
}
