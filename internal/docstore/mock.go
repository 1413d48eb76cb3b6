package docstore

import (
	"context"
	"sync"

	"github.com/mverde/game-record/internal/gamerecord"
)

// MockStore is a mock implementation of the DocumentStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetFunc         func(ctx context.Context, userID string) (gamerecord.AppData, bool, error)
	PutFunc         func(ctx context.Context, userID string, data gamerecord.AppData, allowDestructive bool) (PutResult, error)
	UploadFunc      func(ctx context.Context, userID string, data gamerecord.AppData) error
	DeleteEntryFunc func(ctx context.Context, userID, setID, entryID string) (DeleteEntryResult, error)
	PingFunc        func(ctx context.Context) error

	// Call records
	GetCalls []string
	PutCalls []struct {
		UserID           string
		Data             gamerecord.AppData
		AllowDestructive bool
	}
	UploadCalls []struct {
		UserID string
		Data   gamerecord.AppData
	}
	DeleteEntryCalls []struct {
		UserID  string
		SetID   string
		EntryID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

var _ DocumentStore = (*MockStore)(nil)

func (m *MockStore) Get(ctx context.Context, userID string) (gamerecord.AppData, bool, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, userID)
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return gamerecord.Default(), false, nil
}

func (m *MockStore) Put(ctx context.Context, userID string, data gamerecord.AppData, allowDestructive bool) (PutResult, error) {
	m.mu.Lock()
	m.PutCalls = append(m.PutCalls, struct {
		UserID           string
		Data             gamerecord.AppData
		AllowDestructive bool
	}{userID, data, allowDestructive})
	m.mu.Unlock()
	if m.PutFunc != nil {
		return m.PutFunc(ctx, userID, data, allowDestructive)
	}
	return PutResult{OK: true, DataVersion: data.DataVersion, TotalGameEntries: gamerecord.TotalGameEntries(data)}, nil
}

func (m *MockStore) Upload(ctx context.Context, userID string, data gamerecord.AppData) error {
	m.mu.Lock()
	m.UploadCalls = append(m.UploadCalls, struct {
		UserID string
		Data   gamerecord.AppData
	}{userID, data})
	m.mu.Unlock()
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, userID, data)
	}
	return nil
}

func (m *MockStore) DeleteEntry(ctx context.Context, userID, setID, entryID string) (DeleteEntryResult, error) {
	m.mu.Lock()
	m.DeleteEntryCalls = append(m.DeleteEntryCalls, struct {
		UserID  string
		SetID   string
		EntryID string
	}{userID, setID, entryID})
	m.mu.Unlock()
	if m.DeleteEntryFunc != nil {
		return m.DeleteEntryFunc(ctx, userID, setID, entryID)
	}
	return DeleteEntryResult{OK: true}, nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
