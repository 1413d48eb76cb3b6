package persistence

import (
	"context"

	"github.com/mverde/game-record/internal/gamerecord"
)

// Client is the persistence contract shared by the local file store and the
// remote API store. LoadAppData never fails: any problem resolves to the
// default empty structure so the app always starts.
type Client interface {
	LoadAppData(ctx context.Context) gamerecord.AppData
	SaveAppData(ctx context.Context, data gamerecord.AppData, opts SaveOptions) SaveResult
	DeleteGameEntry(ctx context.Context, setID, entryID string) DeleteResult
}
