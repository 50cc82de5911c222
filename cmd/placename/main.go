// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build unix

// Package main implements the placename lookup service and command line resolver.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/estatehub/placename/internal/config"
	"github.com/estatehub/placename/internal/i18n"
	"github.com/estatehub/placename/internal/logger"
	"github.com/estatehub/placename/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.NewLogger(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [lat,lng ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Read the config file given on the command line or found in the default location,
	// fall back to the environment only
	var conf *config.Config
	var err error
	if path, file := configFile(*confPath); file != "" {
		conf, err = config.NewFromFile(path, file)
	} else {
		conf, err = config.New()
	}
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log = logger.NewLogger(conf.LogLevel)

	// Initialize the service
	serv, err := service.New(ctx, conf, log, i18n.Language(conf.Locale))
	if err != nil {
		log.Error("failed to initialize placename service", logger.Err(err))
		os.Exit(1)
	}

	// Resolve coordinates given on the command line
	if flag.NArg() > 0 {
		os.Exit(resolveArgs(ctx, serv, log, flag.Args()))
	}

	// Start the service loop
	log.Info("starting placename service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to run placename service", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down placename service")
}

func resolveArgs(ctx context.Context, serv *service.Service, log *logger.Logger, args []string) int {
	defer func() {
		if err := serv.Close(); err != nil {
			log.Error("failed to close placename service", logger.Err(err))
		}
	}()
	for _, arg := range args {
		name, err := serv.Label(ctx, arg)
		if err != nil {
			log.Error("failed to resolve location label", logger.Err(err), slog.String("coordinates", arg))
			return 1
		}
		fmt.Println(name)
	}
	return 0
}

func configFile(confPath string) (string, string) {
	if confPath != "" {
		return filepath.Dir(confPath), filepath.Base(confPath)
	}
	return findConfigFile()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "placename", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
