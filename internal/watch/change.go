// Package watch provides change-polling collections: given a function that
// returns the current full list of records for a query, a Collection exposes
// the latest items plus a feed of tagged add/remove changes computed by
// periodic re-fetch and diff by record id.
package watch

import (
	"context"
	"time"
)

// Record is any entity with a stable numeric identity. Diffing observes only
// presence or absence of an id between polls; field-level changes on a
// persisting id are not reported.
type Record interface {
	RecordID() int
}

// FetchFunc returns the current full result set for the collection's query.
type FetchFunc[T Record] func(ctx context.Context) ([]T, error)

type ChangeType int

const (
	// Added is emitted for an id present in the new poll but not the previous one.
	Added ChangeType = iota

	// Removed is emitted for an id present in the previous poll but not the new one.
	Removed

	// PollFailed is emitted once for a background poll whose fetch failed.
	// The collection's contents are unchanged and polling continues.
	PollFailed
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case PollFailed:
		return "poll_failed"
	default:
		return "unknown"
	}
}

// Change is one entry on a collection's change feed. Added carries the new
// record, Removed carries the record as last seen, PollFailed carries the error.
type Change[T Record] struct {
	Type   ChangeType
	Record T
	Err    error
	At     time.Time
}
