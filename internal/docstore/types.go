package docstore

import (
	"database/sql"
	"sync"
)

// Code identifies why a write or delete was refused.
type Code string

const (
	// CodeStaleWrite means the incoming dataVersion is behind the stored one.
	CodeStaleWrite Code = "stale_write_rejected"
	// CodeDestructiveWrite means the write would shrink the stored game entry
	// count without the caller opting in.
	CodeDestructiveWrite Code = "destructive_write_blocked"
	// CodeBlankOverwrite means a blank template tried to replace a document
	// that has real game history.
	CodeBlankOverwrite Code = "blocked_blank_overwrite"

	CodeNotFound      Code = "not_found"
	CodeSetNotFound   Code = "set_not_found"
	CodeEntryNotFound Code = "entry_not_found"
)

// PutResult reports the outcome of a guarded document write.
type PutResult struct {
	OK               bool
	Code             Code
	ServerVersion    int64
	DataVersion      int64
	TotalGameEntries int
}

// DeleteEntryResult reports the outcome of removing a single game entry.
type DeleteEntryResult struct {
	OK               bool
	Code             Code
	TotalGameEntries int
	DataVersion      int64
}

// store handles all database operations for per-user app documents.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
