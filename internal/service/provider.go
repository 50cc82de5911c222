// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/estatehub/placename/internal/config"
	"github.com/estatehub/placename/internal/geocode"
	geocodeearth "github.com/estatehub/placename/internal/geocode/provider/geocode-earth"
	"github.com/estatehub/placename/internal/geocode/provider/google"
	"github.com/estatehub/placename/internal/geocode/provider/opencage"
	nominatim "github.com/estatehub/placename/internal/geocode/provider/osm-nominatim"
	"github.com/estatehub/placename/internal/http"
	"github.com/estatehub/placename/internal/locname"
	"github.com/estatehub/placename/internal/logger"
)

func selectGeocodeProvider(conf *config.Config, log *logger.Logger, lang language.Tag) (geocode.Geocoder, error) {
	var geocoder geocode.Geocoder

	switch strings.ToLower(conf.GeoCoder.Provider) {
	case config.ProviderGoogle:
		if conf.GeoCoder.APIKey == "" {
			return nil, fmt.Errorf("google geocoder requires an API key")
		}
		geocoder = google.New(http.New(log), lang, conf.GeoCoder.APIKey)
	case config.ProviderNominatim:
		geocoder = nominatim.New(http.New(log), lang)
	case config.ProviderOpenCage:
		if conf.GeoCoder.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		geocoder = opencage.New(http.New(log), lang, conf.GeoCoder.APIKey)
	case config.ProviderGeocodeEarth:
		if conf.GeoCoder.APIKey == "" {
			return nil, fmt.Errorf("geocode-earth geocoder requires an API key")
		}
		geocoder = geocodeearth.New(http.New(log), lang, conf.GeoCoder.APIKey)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", conf.GeoCoder.Provider)
	}

	return geocoder, nil
}

func selectCacheStore(ctx context.Context, conf *config.Config, log *logger.Logger) (locname.Store, error) {
	switch strings.ToLower(conf.Cache.Backend) {
	case config.BackendMemory:
		return locname.NewMemoryStore(locname.FreshnessWindow, nil), nil
	case config.BackendRedis:
		store, err := locname.NewRedisStoreFromURL(ctx, conf.Cache.RedisURL, log, locname.FreshnessWindow,
			conf.Cache.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", conf.Cache.Backend)
	}
}
