package store

import "context"

// Store persists the whole profile snapshot. Both operations are
// whole-snapshot; there are no incremental writes.
//
// Load must never fail the process on a corrupt or missing backing
// document: implementations fall back to an empty snapshot and report
// the condition through the returned error, which callers log and ignore.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}
