// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locname

import "context"

// Store is a place name cache keyed by the "lat,lng" string of a coordinate. Implementations
// must only return entries younger than their freshness window and must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached name for key, or false if there is no fresh entry.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores name for key with the current time.
	Set(ctx context.Context, key, name string) error

	// EvictExpired removes all stale entries and returns how many were removed.
	EvictExpired(ctx context.Context) int

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
