package persistence

import (
	"context"
	"sync"

	"github.com/mverde/game-record/internal/gamerecord"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	LoadAppDataFunc     func(ctx context.Context) gamerecord.AppData
	SaveAppDataFunc     func(ctx context.Context, data gamerecord.AppData, opts SaveOptions) SaveResult
	DeleteGameEntryFunc func(ctx context.Context, setID, entryID string) DeleteResult

	// Call records
	LoadCalls int
	SaveCalls []struct {
		Data gamerecord.AppData
		Opts SaveOptions
	}
	DeleteCalls []struct {
		SetID   string
		EntryID string
	}
}

var _ Client = (*MockClient)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) LoadAppData(ctx context.Context) gamerecord.AppData {
	m.mu.Lock()
	m.LoadCalls++
	m.mu.Unlock()
	if m.LoadAppDataFunc != nil {
		return m.LoadAppDataFunc(ctx)
	}
	return gamerecord.Default()
}

func (m *MockClient) SaveAppData(ctx context.Context, data gamerecord.AppData, opts SaveOptions) SaveResult {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, struct {
		Data gamerecord.AppData
		Opts SaveOptions
	}{data, opts})
	m.mu.Unlock()
	if m.SaveAppDataFunc != nil {
		return m.SaveAppDataFunc(ctx, data, opts)
	}
	return SaveResult{OK: true, ServerVersion: data.DataVersion}
}

func (m *MockClient) DeleteGameEntry(ctx context.Context, setID, entryID string) DeleteResult {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, struct {
		SetID   string
		EntryID string
	}{setID, entryID})
	m.mu.Unlock()
	if m.DeleteGameEntryFunc != nil {
		return m.DeleteGameEntryFunc(ctx, setID, entryID)
	}
	return DeleteResult{OK: true}
}
