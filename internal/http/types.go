package http

import (
	"net/http"

	"github.com/mverde/game-record/internal/config"
	"github.com/mverde/game-record/internal/docstore"
	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/metrics"
	"github.com/rs/cors"
)

type Server struct {
	Store          docstore.DocumentStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	cors           *cors.Cors
}

// saveRequest is the PUT /api/app-data body. Data is a pointer so a missing
// or null document is distinguishable from an empty one; the slices inside
// stay nil on a null/absent field, which the handler rejects with a 400.
type saveRequest struct {
	UserID           string              `json:"userId"`
	Data             *gamerecord.AppData `json:"data"`
	AllowDestructive bool                `json:"allowDestructive"`
}

// uploadRequest is the POST /api/app-data/upload body.
type uploadRequest struct {
	UserID string              `json:"userId"`
	Data   *gamerecord.AppData `json:"data"`
}

type saveStats struct {
	TotalGameEntries int   `json:"totalGameEntries"`
	DataVersion      int64 `json:"dataVersion"`
}

type saveResponse struct {
	Success bool      `json:"success"`
	Stats   saveStats `json:"stats"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code,omitempty"`
	ServerVersion int64  `json:"serverVersion,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	DB        string `json:"db"`
	Timestamp string `json:"timestamp"`
}

type deleteEntryResponse struct {
	TotalGameEntries int   `json:"totalGameEntries"`
	DataVersion      int64 `json:"dataVersion"`
}
