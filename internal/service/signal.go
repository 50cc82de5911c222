// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type signalSource interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// stdLibSignalSource is the production signalSource, backed by os/signal.
type stdLibSignalSource struct{}

func (stdLibSignalSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (stdLibSignalSource) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// HandleSignals clears the cache on SIGHUP and sweeps stale entries on SIGUSR1
func (s *Service) HandleSignals(ctx context.Context, sigChan chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			switch sig {
			case syscall.SIGHUP:
				s.resolver.Clear(ctx)
				s.logger.Info("place name cache cleared on signal", slog.String("signal", sig.String()))
			case syscall.SIGUSR1:
				evicted := s.resolver.EvictExpired(ctx)
				s.logger.Info("place name cache swept on signal", slog.String("signal", sig.String()),
					slog.Int("evicted", evicted))
			}
		}
	}
}
