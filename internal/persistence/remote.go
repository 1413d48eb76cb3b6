package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mverde/game-record/internal/gamerecord"
)

// loadTimeout bounds the initial document fetch; past it the client falls
// back to the default structure rather than blocking the app.
const loadTimeout = 30 * time.Second

// RemoteClient talks to the app-data API. All expected failures are folded
// into the tagged result types; the caller never sees a raw transport error.
type RemoteClient struct {
	httpClient *http.Client
	BaseURL    string
	UserID     string
}

var _ Client = (*RemoteClient)(nil)

// NewRemote creates a client for the given API base URL and user.
func NewRemote(baseURL, userID string) *RemoteClient {
	return &RemoteClient{
		httpClient: &http.Client{Timeout: loadTimeout},
		BaseURL:    baseURL,
		UserID:     userID,
	}
}

func (c *RemoteClient) LoadAppData(ctx context.Context) gamerecord.AppData {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/app-data?userId=%s", c.BaseURL, url.QueryEscape(c.UserID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gamerecord.Default()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Failed to load app data from API, falling back to empty", "error", err)
		return gamerecord.Default()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Unexpected status loading app data, falling back to empty", "status", resp.StatusCode)
		return gamerecord.Default()
	}

	var data gamerecord.AppData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Warn("Failed to decode app data from API, falling back to empty", "error", err)
		return gamerecord.Default()
	}
	return gamerecord.Normalize(data)
}

func (c *RemoteClient) SaveAppData(ctx context.Context, data gamerecord.AppData, opts SaveOptions) SaveResult {
	inMemoryEntries := gamerecord.TotalGameEntries(data)
	data = gamerecord.Normalize(data)

	// Normalization filters tombstoned sets; if that filtering would wipe a
	// nonzero entry count the payload is wrong, not the history. Abort
	// instead of letting the server see an empty document.
	if gamerecord.TotalGameEntries(data) == 0 && inMemoryEntries > 0 {
		log.Error("Refusing to save: normalization dropped all game entries", "in_memory", inMemoryEntries)
		return SaveResult{Code: CodeEntryDropGuard, Message: "normalized payload lost all game entries"}
	}

	body, err := json.Marshal(map[string]any{
		"userId":           c.UserID,
		"data":             data,
		"allowDestructive": opts.AllowDestructive,
	})
	if err != nil {
		return SaveResult{Code: CodeInvalidPayload, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/api/app-data", bytes.NewReader(body))
	if err != nil {
		return SaveResult{Code: CodeNetworkError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Failed to save app data", "error", err)
		return SaveResult{Code: CodeNetworkError, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ok struct {
			Stats struct {
				TotalGameEntries int   `json:"totalGameEntries"`
				DataVersion      int64 `json:"dataVersion"`
			} `json:"stats"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
			log.Warn("Save succeeded but response was unreadable", "error", err)
		}
		return SaveResult{
			OK:               true,
			ServerVersion:    ok.Stats.DataVersion,
			TotalGameEntries: ok.Stats.TotalGameEntries,
		}
	case http.StatusConflict:
		var rej struct {
			Error         string `json:"error"`
			Code          string `json:"code"`
			ServerVersion int64  `json:"serverVersion"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rej); err != nil {
			return SaveResult{Code: CodeStaleWrite, Message: "conflict with unreadable body"}
		}
		return SaveResult{Code: Code(rej.Code), ServerVersion: rej.ServerVersion, Message: rej.Error}
	case http.StatusBadRequest:
		return SaveResult{Code: CodeInvalidPayload, Message: readError(resp.Body)}
	case http.StatusServiceUnavailable:
		return SaveResult{Code: CodeDBUnavailable, Message: readError(resp.Body)}
	default:
		return SaveResult{Code: CodeNetworkError, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
}

func (c *RemoteClient) DeleteGameEntry(ctx context.Context, setID, entryID string) DeleteResult {
	endpoint := fmt.Sprintf("%s/api/app-data/sets/%s/entries/%s?userId=%s",
		c.BaseURL, url.PathEscape(setID), url.PathEscape(entryID), url.QueryEscape(c.UserID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return DeleteResult{Code: CodeNetworkError}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Failed to delete game entry", "setID", setID, "entryID", entryID, "error", err)
		return DeleteResult{Code: CodeNetworkError}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ok struct {
			TotalGameEntries int   `json:"totalGameEntries"`
			DataVersion      int64 `json:"dataVersion"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
			return DeleteResult{Code: CodeNetworkError}
		}
		return DeleteResult{OK: true, TotalGameEntries: ok.TotalGameEntries, DataVersion: ok.DataVersion}
	case http.StatusNotFound:
		var rej struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rej); err != nil || rej.Code == "" {
			return DeleteResult{Code: CodeNotFound}
		}
		return DeleteResult{Code: Code(rej.Code)}
	case http.StatusServiceUnavailable:
		return DeleteResult{Code: CodeDBUnavailable}
	default:
		return DeleteResult{Code: CodeNetworkError}
	}
}

func readError(r io.Reader) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return "unreadable error body"
	}
	return resp.Error
}
