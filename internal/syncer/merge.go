package syncer

import (
	"github.com/mverde/game-record/internal/gamerecord"
)

// Merge reconciles the authoritative server document with the local state
// after a stale-write rejection. Tombstones are unioned, server sets win
// unless they were modified locally, locally modified sets survive unless
// tombstoned, and the merged version jumps past both sides so the retry is
// not stale again.
func Merge(server, local gamerecord.AppData, locallyModified map[string]bool) gamerecord.AppData {
	deleted := make(map[string]bool, len(server.DeletedSetIDs)+len(local.DeletedSetIDs))
	tombstones := make([]string, 0, len(server.DeletedSetIDs)+len(local.DeletedSetIDs))
	for _, id := range server.DeletedSetIDs {
		if !deleted[id] {
			deleted[id] = true
			tombstones = append(tombstones, id)
		}
	}
	for _, id := range local.DeletedSetIDs {
		if !deleted[id] {
			deleted[id] = true
			tombstones = append(tombstones, id)
		}
	}

	localSets := make(map[string]gamerecord.PlayerSet, len(local.Sets))
	for _, set := range local.Sets {
		localSets[set.ID] = set
	}

	sets := make([]gamerecord.PlayerSet, 0, len(server.Sets)+len(local.Sets))
	seen := make(map[string]bool, len(server.Sets))
	for _, set := range server.Sets {
		if deleted[set.ID] {
			continue
		}
		seen[set.ID] = true
		if locallyModified[set.ID] {
			if localSet, ok := localSets[set.ID]; ok {
				sets = append(sets, localSet)
				continue
			}
		}
		sets = append(sets, set)
	}
	// Locally created or modified sets the server has never seen.
	for _, set := range local.Sets {
		if seen[set.ID] || deleted[set.ID] || !locallyModified[set.ID] {
			continue
		}
		sets = append(sets, set)
	}

	// Local players win; server players missing locally are kept so another
	// device's roster additions survive the merge.
	players := make([]gamerecord.Player, 0, len(local.AllPlayers)+len(server.AllPlayers))
	knownPlayers := make(map[string]bool, len(local.AllPlayers))
	for _, p := range local.AllPlayers {
		knownPlayers[p.ID] = true
		players = append(players, p)
	}
	for _, p := range server.AllPlayers {
		if !knownPlayers[p.ID] {
			players = append(players, p)
		}
	}

	version := server.DataVersion
	if local.DataVersion > version {
		version = local.DataVersion
	}

	legacy := local.LegacySetWinsByPlayerID
	if legacy == nil {
		legacy = server.LegacySetWinsByPlayerID
	}

	return gamerecord.AppData{
		AllPlayers:              players,
		Sets:                    sets,
		DeletedSetIDs:           tombstones,
		DataVersion:             version + 1,
		LegacySetWinsByPlayerID: legacy,
	}
}
