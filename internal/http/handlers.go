package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mverde/game-record/internal/docstore"
)

const defaultUserID = "default"

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		// PingContext re-establishes the connection when it is down, so a
		// health probe doubles as a reconnect attempt.
		dbStatus := "connected"
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.Store.Ping(ctx); err != nil {
			log.Warn("Health check: database unreachable", "error", err)
			dbStatus = "disconnected"
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			DB:        dbStatus,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) GetAppDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			userID = defaultUserID
		}

		// Unknown users get the default empty structure with a 200, never a
		// 404; the client treats first load and missing document the same.
		data, _, err := s.Store.Get(r.Context(), userID)
		if err != nil {
			s.writeStoreError(w, r, err, "Failed to load app data")
			return
		}

		s.Metrics.IncDocumentLoads()
		writeJSON(w, http.StatusOK, data)
	}
}

func (s *Server) SaveAppDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payload", "malformed request body")
			return
		}
		if req.Data == nil || req.Data.AllPlayers == nil || req.Data.Sets == nil {
			writeError(w, http.StatusBadRequest, "invalid_payload", "data with allPlayers and sets arrays is required")
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = defaultUserID
		}

		start := time.Now()
		res, err := s.Store.Put(r.Context(), userID, *req.Data, req.AllowDestructive)
		if err != nil {
			s.writeStoreError(w, r, err, "Failed to save app data")
			return
		}
		s.Metrics.ObserveSaveDuration(time.Since(start).Seconds())

		if !res.OK {
			s.Metrics.IncSaveRejections(string(res.Code))
			writeJSON(w, http.StatusConflict, errorResponse{
				Error:         rejectionMessage(res.Code),
				Code:          string(res.Code),
				ServerVersion: res.ServerVersion,
			})
			return
		}

		s.Metrics.IncDocumentSaves()
		writeJSON(w, http.StatusOK, saveResponse{
			Success: true,
			Stats: saveStats{
				TotalGameEntries: res.TotalGameEntries,
				DataVersion:      res.DataVersion,
			},
		})
	}
}

func (s *Server) UploadAppDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payload", "malformed request body")
			return
		}
		if req.Data == nil {
			writeError(w, http.StatusBadRequest, "invalid_payload", "data is required")
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = defaultUserID
		}

		if err := s.Store.Upload(r.Context(), userID, *req.Data); err != nil {
			s.writeStoreError(w, r, err, "Failed to upload app data")
			return
		}

		s.Metrics.IncUploads()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) DeleteEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setID := r.PathValue("setID")
		entryID := r.PathValue("entryID")
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			userID = defaultUserID
		}

		res, err := s.Store.DeleteEntry(r.Context(), userID, setID, entryID)
		if err != nil {
			s.writeStoreError(w, r, err, "Failed to delete game entry")
			return
		}
		if !res.OK {
			writeError(w, http.StatusNotFound, string(res.Code), "no such game entry")
			return
		}

		s.Metrics.IncEntryDeletions()
		writeJSON(w, http.StatusOK, deleteEntryResponse{
			TotalGameEntries: res.TotalGameEntries,
			DataVersion:      res.DataVersion,
		})
	}
}

// writeStoreError distinguishes an unreachable database (503) from any other
// store failure (500).
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.Error(msg, "error", err)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if pingErr := s.Store.Ping(ctx); pingErr != nil {
		writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func rejectionMessage(code docstore.Code) string {
	switch code {
	case docstore.CodeStaleWrite:
		return "a newer version of the document exists"
	case docstore.CodeDestructiveWrite:
		return "write would remove existing game entries"
	case docstore.CodeBlankOverwrite:
		return "refusing to overwrite game history with a blank document"
	default:
		return "write rejected"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
