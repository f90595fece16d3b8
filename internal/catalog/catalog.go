// Package catalog provides access to the track catalog collaborator.
package catalog

import (
	"context"
	"errors"

	"github.com/mpellerin/reel/internal/queue"
)

// ErrUnavailable is returned when the catalog cannot be reached or answers
// with an unexpected status. Not auto-retried; surfaced to the user.
var ErrUnavailable = errors.New("catalog unavailable")

// ErrEmpty is returned when the catalog answers successfully but holds no
// tracks. Distinct from a transport failure: there is simply nothing to play.
var ErrEmpty = errors.New("catalog is empty")

// Catalog fetches track records, optionally filtered by id.
type Catalog interface {
	// Fetch returns the tracks for the given ids, or the full catalog when
	// ids is empty.
	Fetch(ctx context.Context, ids []string) ([]queue.Track, error)
}
