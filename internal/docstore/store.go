package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mverde/game-record/internal/gamerecord"
)

// New creates a new DocumentStore backed by the given database.
func New(db *sql.DB) DocumentStore {
	return &store{
		db: db,
	}
}

func (s *store) Get(ctx context.Context, userID string) (gamerecord.AppData, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT data_json FROM app_documents WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return gamerecord.Default(), false, nil
	}
	if err != nil {
		return gamerecord.AppData{}, false, fmt.Errorf("failed to load document for %q: %w", userID, err)
	}

	var data gamerecord.AppData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return gamerecord.AppData{}, false, fmt.Errorf("failed to decode document for %q: %w", userID, err)
	}

	// Tombstoned sets are filtered at read time; they stay in the stored
	// document so other devices still learn about the delete.
	return gamerecord.Normalize(data), true, nil
}

// Put writes the document with every guard folded into the UPDATE's WHERE
// clause, so the version check and the commit are a single atomic statement.
// Zero rows affected means either the document does not exist yet or a guard
// held; a follow-up read only classifies the rejection.
func (s *store) Put(ctx context.Context, userID string, data gamerecord.AppData, allowDestructive bool) (PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data = gamerecord.Normalize(data)
	total := gamerecord.TotalGameEntries(data)
	blank := gamerecord.IsBlankTemplate(data)

	raw, err := json.Marshal(data)
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to encode document for %q: %w", userID, err)
	}
	now := time.Now().Unix()

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_documents
		SET data_json = ?, data_version = ?, total_game_entries = ?, updated_at = ?
		WHERE user_id = ?
		  AND data_version <= ?
		  AND (? OR total_game_entries <= ?)
		  AND NOT (? AND total_game_entries > 0)
	`, string(raw), data.DataVersion, total, now, userID, data.DataVersion, allowDestructive, total, blank)
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to update document for %q: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return PutResult{}, err
	}
	if affected == 1 {
		log.Debug("Document updated", "userID", userID, "dataVersion", data.DataVersion, "totalGameEntries", total)
		return PutResult{OK: true, DataVersion: data.DataVersion, TotalGameEntries: total}, nil
	}

	var storedVersion int64
	var storedTotal int
	err = s.db.QueryRowContext(ctx,
		"SELECT data_version, total_game_entries FROM app_documents WHERE user_id = ?", userID,
	).Scan(&storedVersion, &storedTotal)
	if err == sql.ErrNoRows {
		return s.insert(ctx, userID, string(raw), data.DataVersion, total, now)
	}
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to read stored document for %q: %w", userID, err)
	}

	switch {
	case storedVersion > data.DataVersion:
		log.Warn("Rejected stale write", "userID", userID, "incoming", data.DataVersion, "stored", storedVersion)
		return PutResult{Code: CodeStaleWrite, ServerVersion: storedVersion}, nil
	case !allowDestructive && total < storedTotal:
		log.Warn("Blocked destructive write", "userID", userID, "incoming_entries", total, "stored_entries", storedTotal)
		return PutResult{Code: CodeDestructiveWrite, ServerVersion: storedVersion}, nil
	case blank && storedTotal > 0:
		log.Warn("Blocked blank template overwrite", "userID", userID, "stored_entries", storedTotal)
		return PutResult{Code: CodeBlankOverwrite, ServerVersion: storedVersion}, nil
	default:
		// A concurrent writer slipped in between the UPDATE and the
		// classifying read. Report stale so the client refetches and merges.
		return PutResult{Code: CodeStaleWrite, ServerVersion: storedVersion}, nil
	}
}

func (s *store) insert(ctx context.Context, userID, raw string, version int64, total int, now int64) (PutResult, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO app_documents (user_id, data_json, data_version, total_game_entries, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, userID, raw, version, total, now)
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to insert document for %q: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return PutResult{}, err
	}
	if affected == 0 {
		// Another first-writer won the race; treat as stale.
		var storedVersion int64
		if err := s.db.QueryRowContext(ctx,
			"SELECT data_version FROM app_documents WHERE user_id = ?", userID,
		).Scan(&storedVersion); err != nil {
			return PutResult{}, err
		}
		return PutResult{Code: CodeStaleWrite, ServerVersion: storedVersion}, nil
	}
	log.Info("Created document", "userID", userID, "dataVersion", version, "totalGameEntries", total)
	return PutResult{OK: true, DataVersion: version, TotalGameEntries: total}, nil
}

// Upload upserts the document unconditionally. The migration path relies on
// this bypassing the version and destructive guards.
func (s *store) Upload(ctx context.Context, userID string, data gamerecord.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data = gamerecord.Normalize(data)
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document for %q: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_documents (user_id, data_json, data_version, total_game_entries, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data_json = excluded.data_json,
			data_version = excluded.data_version,
			total_game_entries = excluded.total_game_entries,
			updated_at = excluded.updated_at
	`, userID, string(raw), data.DataVersion, gamerecord.TotalGameEntries(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upload document for %q: %w", userID, err)
	}
	log.Info("Uploaded document", "userID", userID, "dataVersion", data.DataVersion)
	return nil
}

// DeleteEntry removes one game entry inside a transaction and bumps the
// document version, returning the new authoritative version so the client
// can adopt it without a full round trip.
func (s *store) DeleteEntry(ctx context.Context, userID, setID, entryID string) (DeleteEntryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeleteEntryResult{}, err
	}
	defer tx.Rollback()

	var raw string
	var version int64
	err = tx.QueryRowContext(ctx,
		"SELECT data_json, data_version FROM app_documents WHERE user_id = ?", userID,
	).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return DeleteEntryResult{Code: CodeNotFound}, nil
	}
	if err != nil {
		return DeleteEntryResult{}, fmt.Errorf("failed to load document for %q: %w", userID, err)
	}

	var data gamerecord.AppData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return DeleteEntryResult{}, fmt.Errorf("failed to decode document for %q: %w", userID, err)
	}

	setIdx := -1
	for i, set := range data.Sets {
		if set.ID == setID {
			setIdx = i
			break
		}
	}
	if setIdx == -1 {
		return DeleteEntryResult{Code: CodeSetNotFound}, nil
	}

	entries := data.Sets[setIdx].GameEntries
	entryIdx := -1
	for i, entry := range entries {
		if entry.ID == entryID {
			entryIdx = i
			break
		}
	}
	if entryIdx == -1 {
		return DeleteEntryResult{Code: CodeEntryNotFound}, nil
	}

	data.Sets[setIdx].GameEntries = append(entries[:entryIdx:entryIdx], entries[entryIdx+1:]...)
	data.DataVersion = version + 1
	total := gamerecord.TotalGameEntries(data)

	updated, err := json.Marshal(data)
	if err != nil {
		return DeleteEntryResult{}, fmt.Errorf("failed to encode document for %q: %w", userID, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE app_documents
		SET data_json = ?, data_version = ?, total_game_entries = ?, updated_at = ?
		WHERE user_id = ?
	`, string(updated), data.DataVersion, total, time.Now().Unix(), userID)
	if err != nil {
		return DeleteEntryResult{}, fmt.Errorf("failed to store document for %q: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteEntryResult{}, err
	}

	log.Info("Deleted game entry", "userID", userID, "setID", setID, "entryID", entryID, "dataVersion", data.DataVersion)
	return DeleteEntryResult{OK: true, TotalGameEntries: total, DataVersion: data.DataVersion}, nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
