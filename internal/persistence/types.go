package persistence

// Code classifies an expected save/delete failure. Both backends use the
// same tagged-result contract, so callers only ever handle one shape.
type Code string

const (
	CodeStaleWrite       Code = "stale_write_rejected"
	CodeDestructiveWrite Code = "destructive_write_blocked"
	CodeBlankOverwrite   Code = "blocked_blank_overwrite"
	CodeInvalidPayload   Code = "invalid_payload"
	CodeDBUnavailable    Code = "db_unavailable"
	CodeNetworkError     Code = "network_error"
	// CodeQuotaExceeded means the local store ran out of space even after
	// stripping player photos.
	CodeQuotaExceeded Code = "quota_exceeded"
	// CodeEntryDropGuard means the client refused to send a payload whose
	// normalization would silently drop every game entry.
	CodeEntryDropGuard Code = "entry_drop_guard"
	CodeNotFound       Code = "not_found"
	CodeSetNotFound    Code = "set_not_found"
	CodeEntryNotFound  Code = "entry_not_found"
)

// SaveOptions tweaks a single save attempt.
type SaveOptions struct {
	// AllowDestructive lets the write shrink the stored game entry count.
	AllowDestructive bool
}

// SaveResult is the outcome of a save attempt. Expected failures come back
// as OK=false with a Code, never as an error.
type SaveResult struct {
	OK               bool
	Code             Code
	ServerVersion    int64
	TotalGameEntries int
	Message          string
}

// DeleteResult is the outcome of a single-entry delete.
type DeleteResult struct {
	OK               bool
	Code             Code
	TotalGameEntries int
	DataVersion      int64
}
