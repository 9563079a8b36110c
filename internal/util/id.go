// Package util holds small helpers shared by screenmesh packages. It lives in
// internal to avoid committing to public API stability prematurely.
package util

import "github.com/google/uuid"

// NewID returns a random identifier for screens and host operations.
func NewID() string { return uuid.NewString() }

// ShortID returns the first eight characters of id, for log readability.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
