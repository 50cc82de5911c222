// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package i18n determines the language geocoding providers are asked to answer in.
package i18n

import (
	"github.com/Xuanwo/go-locale"
	"golang.org/x/text/language"
)

// Language returns the language tag for loc. An empty loc is detected from the environment
// and falls back to English if detection fails. Unparsable values fall back to English too.
func Language(loc string) language.Tag {
	if loc == "" {
		tag, err := locale.Detect()
		if err != nil || tag == language.Und {
			return language.English
		}
		return tag
	}
	tag, err := language.Parse(loc)
	if err != nil {
		return language.English
	}
	return tag
}
