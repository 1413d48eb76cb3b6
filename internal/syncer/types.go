package syncer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/persistence"
)

// DefaultDebounce coalesces rapid successive edits into one save attempt.
// It trades a small latency window for reduced write volume; it is not a
// correctness mechanism.
const DefaultDebounce = 300 * time.Millisecond

// SaveState is the coarse status surfaced to the UI while saves run.
type SaveState string

const (
	StateSaving SaveState = "saving"
	StateSaved  SaveState = "saved"
	StateError  SaveState = "error"
	// StateConflict means both the save and its single automatic retry were
	// rejected; the user has to refresh manually.
	StateConflict SaveState = "conflict"
)

// StatusFunc receives save state transitions.
type StatusFunc func(state SaveState, message string)

// Options configures a Syncer.
type Options struct {
	Clock    clockwork.Clock
	Debounce time.Duration
	OnStatus StatusFunc
}

// Syncer owns the client side of the synchronization protocol: the last
// known dataVersion, the tombstone list, which sets were touched since the
// last successful save, and the request sequence counter that keeps slow
// responses from clobbering newer state.
type Syncer struct {
	client   persistence.Client
	clock    clockwork.Clock
	debounce time.Duration
	onStatus StatusFunc

	mu             sync.Mutex
	data           gamerecord.AppData
	modifiedSetIDs map[string]bool
	timer          clockwork.Timer
	issuedSeq      uint64
	updateSeq      uint64
}
