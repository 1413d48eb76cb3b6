// Package scoring computes medals, points, ranks and set wins from the raw
// game entry log. Everything here is a pure function: stats are always
// recomputed from entries rather than trusted from stored counters.
package scoring

import (
	"sort"

	"github.com/mverde/game-record/internal/gamerecord"
)

// Medal points: gold 3, silver 2, bronze 1. Tomatoes never score.
const (
	goldPoints   = 3
	silverPoints = 2
	bronzePoints = 1
)

// RecalculateMedals awards medals for every game entry and accumulates them
// onto the given players, then recomputes points from the medal totals.
// Within an entry the scores are stable-sorted ascending (lower score wins),
// so tied scores keep their original order. Position 0/1/2 earn
// gold/silver/bronze; position 3 earns a tomato, but only when the entry has
// at least four scores.
func RecalculateMedals(players []gamerecord.Player, entries []gamerecord.GameEntry) []gamerecord.Player {
	out := make([]gamerecord.Player, len(players))
	copy(out, players)

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.ID] = i
	}

	for _, entry := range entries {
		scores := make([]gamerecord.PlayerScore, len(entry.PlayerScores))
		copy(scores, entry.PlayerScores)
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].Score < scores[j].Score
		})

		for pos, ps := range scores {
			i, ok := index[ps.PlayerID]
			if !ok {
				continue
			}
			switch pos {
			case 0:
				out[i].Gold++
			case 1:
				out[i].Silver++
			case 2:
				out[i].Bronze++
			case 3:
				if len(scores) >= 4 {
					out[i].Tomatoes++
				}
			}
		}
	}

	for i := range out {
		out[i].Points = goldPoints*out[i].Gold + silverPoints*out[i].Silver + bronzePoints*out[i].Bronze
	}
	return out
}

// applyGameEntry accumulates an entry's fatt counts onto the players.
func applyGameEntry(players []gamerecord.Player, entry gamerecord.GameEntry) {
	for _, ps := range entry.PlayerScores {
		for i := range players {
			if players[i].ID == ps.PlayerID {
				players[i].Fatts += ps.Fatt
				break
			}
		}
	}
}

// CalculatePlayerStatsForSet recomputes the full stat block for the players
// of one set from that set's entry log. Stats are reset to zero first, so
// calling it twice with the same inputs yields identical output.
func CalculatePlayerStatsForSet(playerIDs []string, allPlayers []gamerecord.Player, entries []gamerecord.GameEntry) []gamerecord.Player {
	member := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		member[id] = true
	}

	players := make([]gamerecord.Player, 0, len(playerIDs))
	for _, p := range allPlayers {
		if !member[p.ID] {
			continue
		}
		p.Points = 0
		p.Fatts = 0
		p.Gold = 0
		p.Silver = 0
		p.Bronze = 0
		p.Tomatoes = 0
		players = append(players, p)
	}

	players = RecalculateMedals(players, entries)
	for _, entry := range entries {
		applyGameEntry(players, entry)
	}
	return players
}

// Rank assigns a rank number per player id: points descending, ties broken
// by gold then silver count. Players still tied after that share the same
// rank number.
func Rank(players []gamerecord.Player) map[string]int {
	sorted := make([]gamerecord.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		return a.Silver > b.Silver
	})

	ranks := make(map[string]int, len(sorted))
	for i, p := range sorted {
		if i > 0 && samePosition(p, sorted[i-1]) {
			ranks[p.ID] = ranks[sorted[i-1].ID]
			continue
		}
		ranks[p.ID] = i + 1
	}
	return ranks
}

func samePosition(a, b gamerecord.Player) bool {
	return a.Points == b.Points && a.Gold == b.Gold && a.Silver == b.Silver
}

// SetWinsByPlayerID awards one set win per set to every player tied at the
// maximum total score across that set's entries. Sets without entries
// contribute nothing. Counts are seeded from the legacy migration carry-over
// so pre-history wins survive.
func SetWinsByPlayerID(data gamerecord.AppData) map[string]int {
	wins := make(map[string]int, len(data.LegacySetWinsByPlayerID))
	for id, n := range data.LegacySetWinsByPlayerID {
		wins[id] = n
	}

	for _, set := range data.Sets {
		if len(set.GameEntries) == 0 {
			continue
		}

		totals := make(map[string]int)
		for _, entry := range set.GameEntries {
			for _, ps := range entry.PlayerScores {
				totals[ps.PlayerID] += ps.Score
			}
		}

		max := 0
		first := true
		for _, total := range totals {
			if first || total > max {
				max = total
				first = false
			}
		}
		for id, total := range totals {
			if total == max {
				wins[id]++
			}
		}
	}
	return wins
}
