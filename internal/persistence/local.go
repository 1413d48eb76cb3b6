package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mverde/game-record/internal/gamerecord"
)

// LocalClient persists the whole document as one JSON file, the offline
// counterpart of the remote API store. Version and destructive guards do not
// apply here; there is only one writer.
type LocalClient struct {
	path string
	// quotaBytes caps the serialized document size; 0 means unlimited.
	// Player photos are by far the largest payloads, so an oversize write is
	// retried once with photos stripped before giving up.
	quotaBytes int64
}

var _ Client = (*LocalClient)(nil)

// NewLocal creates a file-backed client storing the document at
// dir/app-data.json.
func NewLocal(dir string, quotaBytes int64) *LocalClient {
	return &LocalClient{
		path:       filepath.Join(dir, "app-data.json"),
		quotaBytes: quotaBytes,
	}
}

func (c *LocalClient) LoadAppData(ctx context.Context) gamerecord.AppData {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("Failed to read local app data, starting fresh", "path", c.path, "error", err)
		}
		return gamerecord.Default()
	}

	var data gamerecord.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn("Failed to decode local app data, starting fresh", "path", c.path, "error", err)
		return gamerecord.Default()
	}
	return gamerecord.Normalize(data)
}

func (c *LocalClient) SaveAppData(ctx context.Context, data gamerecord.AppData, opts SaveOptions) SaveResult {
	data = gamerecord.Normalize(data)

	raw, err := json.Marshal(data)
	if err != nil {
		return SaveResult{Code: CodeInvalidPayload, Message: err.Error()}
	}

	if c.quotaBytes > 0 && int64(len(raw)) > c.quotaBytes {
		log.Warn("Local app data over quota, stripping player photos", "size", len(raw), "quota", c.quotaBytes)
		raw, err = json.Marshal(gamerecord.StripPhotos(data))
		if err != nil {
			return SaveResult{Code: CodeInvalidPayload, Message: err.Error()}
		}
		if int64(len(raw)) > c.quotaBytes {
			return SaveResult{Code: CodeQuotaExceeded, Message: "document exceeds local storage quota even without photos"}
		}
	}

	if err := c.writeAtomic(raw); err != nil {
		log.Error("Failed to write local app data", "path", c.path, "error", err)
		return SaveResult{Code: CodeQuotaExceeded, Message: err.Error()}
	}

	return SaveResult{
		OK:               true,
		ServerVersion:    data.DataVersion,
		TotalGameEntries: gamerecord.TotalGameEntries(data),
	}
}

func (c *LocalClient) DeleteGameEntry(ctx context.Context, setID, entryID string) DeleteResult {
	data := c.LoadAppData(ctx)

	setIdx := -1
	for i, set := range data.Sets {
		if set.ID == setID {
			setIdx = i
			break
		}
	}
	if setIdx == -1 {
		return DeleteResult{Code: CodeSetNotFound}
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
		return DeleteResult{Code: CodeEntryNotFound}
	}

	data.Sets[setIdx].GameEntries = append(entries[:entryIdx:entryIdx], entries[entryIdx+1:]...)
	data.DataVersion++

	if res := c.SaveAppData(ctx, data, SaveOptions{AllowDestructive: true}); !res.OK {
		return DeleteResult{Code: res.Code}
	}
	return DeleteResult{
		OK:               true,
		TotalGameEntries: gamerecord.TotalGameEntries(data),
		DataVersion:      data.DataVersion,
	}
}

// writeAtomic writes via a temp file plus rename so a crash mid-write never
// leaves a truncated document behind.
func (c *LocalClient) writeAtomic(raw []byte) error {
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
