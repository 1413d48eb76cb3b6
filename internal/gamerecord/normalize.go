package gamerecord

// Default returns the empty structure handed out when no document exists
// for a user, or when a load fails.
func Default() AppData {
	return AppData{
		AllPlayers:    []Player{},
		Sets:          []PlayerSet{},
		DeletedSetIDs: []string{},
	}
}

// ClampWinScoreLimit forces the limit into [1, MaxWinScoreLimit], falling
// back to the default for zero, negative or out-of-range values.
func ClampWinScoreLimit(limit int) int {
	if limit < 1 || limit > MaxWinScoreLimit {
		return DefaultWinScoreLimit
	}
	return limit
}

// Normalize coerces a payload into the guaranteed shape callers rely on:
// no nil slices anywhere, clamped win score limits, and no sets whose id
// is tombstoned. It returns a shallow-ish copy; entries are re-sliced but
// not deep-copied.
func Normalize(data AppData) AppData {
	out := data
	if out.AllPlayers == nil {
		out.AllPlayers = []Player{}
	}
	if out.DeletedSetIDs == nil {
		out.DeletedSetIDs = []string{}
	}

	deleted := make(map[string]bool, len(out.DeletedSetIDs))
	for _, id := range out.DeletedSetIDs {
		deleted[id] = true
	}

	sets := make([]PlayerSet, 0, len(out.Sets))
	for _, set := range out.Sets {
		if deleted[set.ID] {
			continue
		}
		if set.PlayerIDs == nil {
			set.PlayerIDs = []string{}
		}
		if set.GameEntries == nil {
			set.GameEntries = []GameEntry{}
		}
		for i := range set.GameEntries {
			if set.GameEntries[i].PlayerScores == nil {
				set.GameEntries[i].PlayerScores = []PlayerScore{}
			}
		}
		set.WinScoreLimit = ClampWinScoreLimit(set.WinScoreLimit)
		sets = append(sets, set)
	}
	out.Sets = sets
	return out
}

// TotalGameEntries counts game entries across all sets.
func TotalGameEntries(data AppData) int {
	total := 0
	for _, set := range data.Sets {
		total += len(set.GameEntries)
	}
	return total
}

// IsBlankTemplate reports whether a payload looks like a freshly created,
// never-played document: zero game entries and every player stat zero.
// Used by the server to refuse overwriting real history with a blank slate.
func IsBlankTemplate(data AppData) bool {
	if TotalGameEntries(data) != 0 {
		return false
	}
	for _, p := range data.AllPlayers {
		if p.Points != 0 || p.Fatts != 0 || p.Gold != 0 || p.Silver != 0 || p.Bronze != 0 || p.Tomatoes != 0 {
			return false
		}
	}
	return true
}

// StripPhotos removes all player photo payloads. The local client uses this
// as a fallback when a save exceeds the storage quota.
func StripPhotos(data AppData) AppData {
	players := make([]Player, len(data.AllPlayers))
	copy(players, data.AllPlayers)
	for i := range players {
		players[i].Photo = ""
	}
	data.AllPlayers = players
	return data
}
