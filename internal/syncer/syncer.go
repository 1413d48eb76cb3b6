// Package syncer implements the client side of the app data synchronization
// protocol: debounced saves, bounded retry with merge on version conflicts,
// and immediate guarded saves for destructive operations like set deletion.
package syncer

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/persistence"
)

// New creates a Syncer around a persistence client.
func New(client persistence.Client, opts Options) *Syncer {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Syncer{
		client:         client,
		clock:          opts.Clock,
		debounce:       opts.Debounce,
		onStatus:       opts.OnStatus,
		data:           gamerecord.Default(),
		modifiedSetIDs: make(map[string]bool),
	}
}

// Load fetches the current document and adopts it as the baseline state.
func (s *Syncer) Load(ctx context.Context) gamerecord.AppData {
	data := s.client.LoadAppData(ctx)

	s.mu.Lock()
	s.data = data
	s.modifiedSetIDs = make(map[string]bool)
	s.mu.Unlock()

	return data
}

// Data returns the current in-memory document.
func (s *Syncer) Data() gamerecord.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Update replaces the in-memory document, records which sets the edit
// touched, and (re)starts the debounce window. Rapid successive updates
// collapse into a single save.
func (s *Syncer) Update(data gamerecord.AppData, modifiedSetIDs ...string) {
	s.mu.Lock()
	s.data = data
	s.updateSeq++
	for _, id := range modifiedSetIDs {
		s.modifiedSetIDs[id] = true
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.debounce, func() {
		s.Flush(context.Background())
	})
	s.mu.Unlock()
}

// Flush saves the current state immediately, running the full conflict
// retry ladder. It is called by the debounce timer and directly for
// non-debounced critical saves.
func (s *Syncer) Flush(ctx context.Context) persistence.SaveResult {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	upd := s.updateSeq
	data := s.data
	modified := make(map[string]bool, len(s.modifiedSetIDs))
	for id := range s.modifiedSetIDs {
		modified[id] = true
	}
	s.mu.Unlock()

	s.notify(StateSaving, "")
	res, saved := s.attempt(ctx, data, modified)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.issuedSeq {
		// A newer save was issued while this one was in flight; its outcome
		// supersedes ours, whatever it was.
		log.Debug("Discarding superseded save response", "seq", seq, "latest", s.issuedSeq)
		return res
	}

	switch {
	case res.OK:
		// Adopt what was actually written: a conflict retry may have merged
		// the document and bumped its version. If an edit landed while the
		// save was in flight, keep the newer in-memory state and only adopt
		// the version.
		if s.updateSeq == upd {
			s.data = saved
			s.modifiedSetIDs = make(map[string]bool)
		} else if saved.DataVersion > s.data.DataVersion {
			s.data.DataVersion = saved.DataVersion
		}
		s.notifyLocked(StateSaved, "")
	case res.Code == persistence.CodeStaleWrite, res.Code == persistence.CodeDestructiveWrite, res.Code == persistence.CodeBlankOverwrite:
		s.notifyLocked(StateConflict, string(res.Code))
	default:
		s.notifyLocked(StateError, string(res.Code))
	}
	return res
}

// attempt runs one save plus at most one automatic recovery retry. It
// returns the final result and the payload that was (or would have been)
// written, so the caller can adopt a merged document.
func (s *Syncer) attempt(ctx context.Context, data gamerecord.AppData, modified map[string]bool) (persistence.SaveResult, gamerecord.AppData) {
	res := s.client.SaveAppData(ctx, data, persistence.SaveOptions{})
	if res.OK {
		return res, data
	}

	switch res.Code {
	case persistence.CodeStaleWrite:
		log.Warn("Save rejected as stale, merging with server state", "serverVersion", res.ServerVersion)
		server := s.client.LoadAppData(ctx)
		merged := Merge(server, data, modified)
		retry := s.client.SaveAppData(ctx, merged, persistence.SaveOptions{})
		return retry, merged
	case persistence.CodeDestructiveWrite:
		// The shrink is intentional (an edit or an explicit delete), so
		// retry once with the override after surfacing a warning.
		log.Warn("Save blocked as destructive, retrying with explicit override")
		s.notify(StateSaving, string(persistence.CodeDestructiveWrite))
		retry := s.client.SaveAppData(ctx, data, persistence.SaveOptions{AllowDestructive: true})
		return retry, data
	default:
		return res, data
	}
}

// DeleteSet removes a set immediately: tombstone it, bump the version and
// save synchronously, bypassing the debounce window.
func (s *Syncer) DeleteSet(ctx context.Context, setID string) persistence.SaveResult {
	s.mu.Lock()
	sets := make([]gamerecord.PlayerSet, 0, len(s.data.Sets))
	for _, set := range s.data.Sets {
		if set.ID != setID {
			sets = append(sets, set)
		}
	}
	s.data.Sets = sets

	tombstoned := false
	for _, id := range s.data.DeletedSetIDs {
		if id == setID {
			tombstoned = true
			break
		}
	}
	if !tombstoned {
		s.data.DeletedSetIDs = append(s.data.DeletedSetIDs, setID)
	}
	s.data.DataVersion++
	s.updateSeq++
	delete(s.modifiedSetIDs, setID)
	s.mu.Unlock()

	log.Info("Deleting set", "setID", setID)
	return s.Flush(ctx)
}

// DeleteEntry removes a single game entry through the narrow server
// endpoint and adopts the returned authoritative version.
func (s *Syncer) DeleteEntry(ctx context.Context, setID, entryID string) persistence.DeleteResult {
	res := s.client.DeleteGameEntry(ctx, setID, entryID)
	if !res.OK {
		s.notify(StateError, string(res.Code))
		return res
	}

	s.mu.Lock()
	for i := range s.data.Sets {
		if s.data.Sets[i].ID != setID {
			continue
		}
		entries := s.data.Sets[i].GameEntries
		for j := range entries {
			if entries[j].ID == entryID {
				s.data.Sets[i].GameEntries = append(entries[:j:j], entries[j+1:]...)
				break
			}
		}
		break
	}
	s.data.DataVersion = res.DataVersion
	s.updateSeq++
	s.mu.Unlock()

	s.notify(StateSaved, "")
	return res
}

func (s *Syncer) notify(state SaveState, message string) {
	if s.onStatus != nil {
		s.onStatus(state, message)
	}
}

// notifyLocked exists for call sites already holding s.mu; the callback
// itself must not touch the Syncer.
func (s *Syncer) notifyLocked(state SaveState, message string) {
	if s.onStatus != nil {
		s.onStatus(state, message)
	}
}
