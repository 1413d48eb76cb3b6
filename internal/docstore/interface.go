package docstore

import (
	"context"

	"github.com/mverde/game-record/internal/gamerecord"
)

// DocumentStore defines the interface for the per-user app data documents.
type DocumentStore interface {
	// Get returns the normalized document for a user. The bool is false when
	// no document exists.
	Get(ctx context.Context, userID string) (gamerecord.AppData, bool, error)
	// Put writes a document, enforcing the stale-write, destructive-write and
	// blank-overwrite guards. Guard rejections come back in the PutResult,
	// not as errors.
	Put(ctx context.Context, userID string, data gamerecord.AppData, allowDestructive bool) (PutResult, error)
	// Upload upserts a document unconditionally, bypassing every guard.
	// Only the one-time local-to-remote migration uses it.
	Upload(ctx context.Context, userID string, data gamerecord.AppData) error
	// DeleteEntry removes a single game entry and bumps the document version.
	DeleteEntry(ctx context.Context, userID, setID, entryID string) (DeleteEntryResult, error)
	Ping(ctx context.Context) error
}
