package syncer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/persistence"
	"github.com/mverde/game-record/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusRecorder collects state transitions from the OnStatus callback.
type statusRecorder struct {
	mu     sync.Mutex
	states []syncer.SaveState
}

func (r *statusRecorder) record(state syncer.SaveState, message string) {
	r.mu.Lock()
	r.states = append(r.states, state)
	r.mu.Unlock()
}

func (r *statusRecorder) all() []syncer.SaveState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]syncer.SaveState(nil), r.states...)
}

func saveCount(m *persistence.MockClient) func() bool {
	return func() bool { return len(m.SaveCalls) > 0 }
}

func TestLoadAdoptsServerState(t *testing.T) {
	mock := persistence.NewMock()
	mock.LoadAppDataFunc = func(ctx context.Context) gamerecord.AppData {
		return gamerecord.AppData{
			Sets:        []gamerecord.PlayerSet{{ID: "s1"}},
			DataVersion: 7,
		}
	}

	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	data := s.Load(context.Background())

	assert.Equal(t, int64(7), data.DataVersion)
	assert.Equal(t, int64(7), s.Data().DataVersion)
	assert.Equal(t, 1, mock.LoadCalls)
}

func TestUpdateDebouncesRapidEdits(t *testing.T) {
	mock := persistence.NewMock()
	clock := clockwork.NewFakeClock()
	s := syncer.New(mock, syncer.Options{Clock: clock})

	s.Update(gamerecord.AppData{DataVersion: 1}, "s1")
	s.Update(gamerecord.AppData{DataVersion: 2}, "s1")
	s.Update(gamerecord.AppData{DataVersion: 3}, "s1")

	assert.Empty(t, mock.SaveCalls, "nothing is saved inside the debounce window")

	clock.Advance(syncer.DefaultDebounce)
	require.Eventually(t, saveCount(mock), time.Second, time.Millisecond)

	require.Len(t, mock.SaveCalls, 1, "rapid edits collapse into one save")
	assert.Equal(t, int64(3), mock.SaveCalls[0].Data.DataVersion, "the latest edit is the one saved")
}

func TestUpdateRestartsDebounceWindow(t *testing.T) {
	mock := persistence.NewMock()
	clock := clockwork.NewFakeClock()
	s := syncer.New(mock, syncer.Options{Clock: clock})

	s.Update(gamerecord.AppData{DataVersion: 1})
	clock.Advance(200 * time.Millisecond)
	s.Update(gamerecord.AppData{DataVersion: 2})
	clock.Advance(200 * time.Millisecond)

	assert.Empty(t, mock.SaveCalls, "the second edit restarted the window")

	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, saveCount(mock), time.Second, time.Millisecond)
	require.Len(t, mock.SaveCalls, 1)
	assert.Equal(t, int64(2), mock.SaveCalls[0].Data.DataVersion)
}

func TestFlushSuccessNotifiesSaved(t *testing.T) {
	mock := persistence.NewMock()
	rec := &statusRecorder{}
	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock(), OnStatus: rec.record})

	s.Update(gamerecord.AppData{DataVersion: 5}, "s1")
	res := s.Flush(context.Background())

	require.True(t, res.OK)
	assert.Equal(t, []syncer.SaveState{syncer.StateSaving, syncer.StateSaved}, rec.all())
}

func TestFlushStaleWriteMergesAndRetries(t *testing.T) {
	mock := persistence.NewMock()
	serverDoc := gamerecord.AppData{
		Sets:        []gamerecord.PlayerSet{{ID: "remote", Name: "from another device"}},
		DataVersion: 9,
	}
	mock.LoadAppDataFunc = func(ctx context.Context) gamerecord.AppData { return serverDoc }

	calls := 0
	mock.SaveAppDataFunc = func(ctx context.Context, data gamerecord.AppData, opts persistence.SaveOptions) persistence.SaveResult {
		calls++
		if calls == 1 {
			return persistence.SaveResult{Code: persistence.CodeStaleWrite, ServerVersion: 9}
		}
		return persistence.SaveResult{OK: true, ServerVersion: data.DataVersion}
	}

	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	s.Update(gamerecord.AppData{
		Sets:        []gamerecord.PlayerSet{{ID: "local", Name: "edited here"}},
		DataVersion: 4,
	}, "local")

	res := s.Flush(context.Background())

	require.True(t, res.OK, "the merged retry succeeds")
	require.Len(t, mock.SaveCalls, 2)

	retried := mock.SaveCalls[1].Data
	assert.Equal(t, int64(10), retried.DataVersion, "merge jumps past the server version")
	ids := []string{}
	for _, set := range retried.Sets {
		ids = append(ids, set.ID)
	}
	assert.ElementsMatch(t, []string{"remote", "local"}, ids)

	assert.Equal(t, int64(10), s.Data().DataVersion, "the merged document is adopted in memory")
}

func TestFlushDoubleStaleSurfacesConflict(t *testing.T) {
	mock := persistence.NewMock()
	mock.SaveAppDataFunc = func(ctx context.Context, data gamerecord.AppData, opts persistence.SaveOptions) persistence.SaveResult {
		return persistence.SaveResult{Code: persistence.CodeStaleWrite, ServerVersion: 20}
	}

	rec := &statusRecorder{}
	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock(), OnStatus: rec.record})
	s.Update(gamerecord.AppData{DataVersion: 1}, "s1")

	res := s.Flush(context.Background())

	assert.False(t, res.OK)
	assert.Equal(t, persistence.CodeStaleWrite, res.Code)
	require.Len(t, mock.SaveCalls, 2, "exactly one automatic retry, never a loop")

	states := rec.all()
	require.NotEmpty(t, states)
	assert.Equal(t, syncer.StateConflict, states[len(states)-1])
}

func TestFlushDestructiveRetriesWithOverride(t *testing.T) {
	mock := persistence.NewMock()
	calls := 0
	mock.SaveAppDataFunc = func(ctx context.Context, data gamerecord.AppData, opts persistence.SaveOptions) persistence.SaveResult {
		calls++
		if calls == 1 {
			return persistence.SaveResult{Code: persistence.CodeDestructiveWrite}
		}
		return persistence.SaveResult{OK: true, ServerVersion: data.DataVersion}
	}

	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	s.Update(gamerecord.AppData{DataVersion: 2})

	res := s.Flush(context.Background())

	require.True(t, res.OK)
	require.Len(t, mock.SaveCalls, 2)
	assert.False(t, mock.SaveCalls[0].Opts.AllowDestructive)
	assert.True(t, mock.SaveCalls[1].Opts.AllowDestructive, "the retry carries the explicit override")
}

func TestFlushDiscardsSupersededResponse(t *testing.T) {
	mock := persistence.NewMock()
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	mock.SaveAppDataFunc = func(ctx context.Context, data gamerecord.AppData, opts persistence.SaveOptions) persistence.SaveResult {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
		}
		return persistence.SaveResult{OK: true, ServerVersion: data.DataVersion}
	}

	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	s.Update(gamerecord.AppData{DataVersion: 1}, "s1")

	done := make(chan struct{})
	go func() {
		s.Flush(context.Background())
		close(done)
	}()
	<-started

	// A newer edit plus a newer save complete while the first is in flight.
	s.Update(gamerecord.AppData{DataVersion: 2}, "s1")
	s.Flush(context.Background())
	assert.Equal(t, int64(2), s.Data().DataVersion)

	close(release)
	<-done

	assert.Equal(t, int64(2), s.Data().DataVersion, "the slow first response must not resurrect old state")
}

func TestDeleteSetTombstonesAndSavesImmediately(t *testing.T) {
	mock := persistence.NewMock()
	clock := clockwork.NewFakeClock()
	s := syncer.New(mock, syncer.Options{Clock: clock})
	s.Update(gamerecord.AppData{
		Sets:        []gamerecord.PlayerSet{{ID: "s1"}, {ID: "s2"}},
		DataVersion: 3,
	})
	mock.SaveCalls = nil

	res := s.DeleteSet(context.Background(), "s1")

	require.True(t, res.OK)
	require.Len(t, mock.SaveCalls, 1, "deletion saves without waiting for the debounce window")

	saved := mock.SaveCalls[0].Data
	assert.Equal(t, int64(4), saved.DataVersion)
	assert.Equal(t, []string{"s1"}, saved.DeletedSetIDs)
	require.Len(t, saved.Sets, 1)
	assert.Equal(t, "s2", saved.Sets[0].ID)
}

func TestDeleteSetTombstoneIsNotDuplicated(t *testing.T) {
	mock := persistence.NewMock()
	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	s.Update(gamerecord.AppData{
		Sets:          []gamerecord.PlayerSet{{ID: "s1"}},
		DeletedSetIDs: []string{"s1"},
		DataVersion:   3,
	})

	s.DeleteSet(context.Background(), "s1")

	assert.Equal(t, []string{"s1"}, s.Data().DeletedSetIDs)
}

func TestDeleteEntryAdoptsServerVersion(t *testing.T) {
	mock := persistence.NewMock()
	mock.DeleteGameEntryFunc = func(ctx context.Context, setID, entryID string) persistence.DeleteResult {
		return persistence.DeleteResult{OK: true, TotalGameEntries: 1, DataVersion: 12}
	}

	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock()})
	s.Update(gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "s1", GameEntries: []gamerecord.GameEntry{{ID: "e1"}, {ID: "e2"}}},
		},
		DataVersion: 3,
	})

	res := s.DeleteEntry(context.Background(), "s1", "e1")

	require.True(t, res.OK)
	require.Len(t, mock.DeleteCalls, 1)
	assert.Equal(t, "s1", mock.DeleteCalls[0].SetID)

	data := s.Data()
	assert.Equal(t, int64(12), data.DataVersion, "the server version is authoritative after a narrow delete")
	require.Len(t, data.Sets[0].GameEntries, 1)
	assert.Equal(t, "e2", data.Sets[0].GameEntries[0].ID)
}

func TestDeleteEntryFailureLeavesStateUntouched(t *testing.T) {
	mock := persistence.NewMock()
	mock.DeleteGameEntryFunc = func(ctx context.Context, setID, entryID string) persistence.DeleteResult {
		return persistence.DeleteResult{Code: persistence.CodeEntryNotFound}
	}

	rec := &statusRecorder{}
	s := syncer.New(mock, syncer.Options{Clock: clockwork.NewFakeClock(), OnStatus: rec.record})
	s.Update(gamerecord.AppData{
		Sets:        []gamerecord.PlayerSet{{ID: "s1", GameEntries: []gamerecord.GameEntry{{ID: "e1"}}}},
		DataVersion: 3,
	})

	res := s.DeleteEntry(context.Background(), "s1", "missing")

	assert.False(t, res.OK)
	assert.Equal(t, int64(3), s.Data().DataVersion)
	require.Len(t, s.Data().Sets[0].GameEntries, 1)

	states := rec.all()
	require.NotEmpty(t, states)
	assert.Equal(t, syncer.StateError, states[len(states)-1])
}
