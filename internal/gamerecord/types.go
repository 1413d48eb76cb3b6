package gamerecord

// DefaultWinScoreLimit is used when a set carries no (or an invalid) limit.
const DefaultWinScoreLimit = 50

// MaxWinScoreLimit bounds the configurable win score limit.
const MaxWinScoreLimit = 9999

// PlayerScore is one player's result within a single game entry.
// Lower scores win.
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Fatt     int    `json:"fatt"`
}

// GameEntry is one completed round.
type GameEntry struct {
	ID           string        `json:"id"`
	Timestamp    int64         `json:"timestamp"`
	PlayerScores []PlayerScore `json:"playerScores"`
}

// Player holds identity plus the per-set-scoped stats. The stat fields are
// recomputed views over a set's game entries, never authoritative storage.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Photo    string `json:"photo,omitempty"`
	Points   int    `json:"points"`
	Fatts    int    `json:"fatts"`
	Gold     int    `json:"gold"`
	Silver   int    `json:"silver"`
	Bronze   int    `json:"bronze"`
	Tomatoes int    `json:"tomatoes"`
}

// PlayerSet is a named grouping of players with its own game history.
type PlayerSet struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	PlayerIDs     []string    `json:"playerIds"`
	GameEntries   []GameEntry `json:"gameEntries"`
	WinScoreLimit int         `json:"winScoreLimit"`
	CreatedAt     int64       `json:"createdAt"`
}

// AppData is the root aggregate persisted as one document per user.
type AppData struct {
	AllPlayers              []Player       `json:"allPlayers"`
	Sets                    []PlayerSet    `json:"sets"`
	DeletedSetIDs           []string       `json:"deletedSetIds"`
	DataVersion             int64          `json:"dataVersion"`
	LegacySetWinsByPlayerID map[string]int `json:"legacySetWinsByPlayerId,omitempty"`
}
