package syncer_test

import (
	"testing"

	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUnionsTombstones(t *testing.T) {
	server := gamerecord.AppData{DeletedSetIDs: []string{"a", "b"}}
	local := gamerecord.AppData{DeletedSetIDs: []string{"b", "c"}}

	merged := syncer.Merge(server, local, nil)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, merged.DeletedSetIDs)
}

func TestMergeVersionJumpsPastBothSides(t *testing.T) {
	server := gamerecord.AppData{DataVersion: 9}
	local := gamerecord.AppData{DataVersion: 4}

	merged := syncer.Merge(server, local, nil)
	assert.Equal(t, int64(10), merged.DataVersion)

	merged = syncer.Merge(local, server, nil)
	assert.Equal(t, int64(10), merged.DataVersion)
}

func TestMergePrefersServerSetsUnlessLocallyModified(t *testing.T) {
	server := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "s1", Name: "server s1"},
			{ID: "s2", Name: "server s2"},
		},
	}
	local := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "s1", Name: "local s1"},
			{ID: "s2", Name: "local s2"},
		},
	}

	merged := syncer.Merge(server, local, map[string]bool{"s2": true})

	names := map[string]string{}
	for _, set := range merged.Sets {
		names[set.ID] = set.Name
	}
	assert.Equal(t, "server s1", names["s1"], "untouched sets come from the server")
	assert.Equal(t, "local s2", names["s2"], "locally modified sets win")
}

func TestMergeKeepsLocallyCreatedSets(t *testing.T) {
	server := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{{ID: "s1"}},
	}
	local := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{{ID: "s1"}, {ID: "new-local"}},
	}

	merged := syncer.Merge(server, local, map[string]bool{"new-local": true})

	require.Len(t, merged.Sets, 2)
	assert.Equal(t, "new-local", merged.Sets[1].ID)
}

func TestMergeDropsTombstonedSetsFromBothSides(t *testing.T) {
	server := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{{ID: "kept"}, {ID: "deleted-here"}},
	}
	local := gamerecord.AppData{
		Sets:          []gamerecord.PlayerSet{{ID: "kept"}, {ID: "deleted-there"}},
		DeletedSetIDs: []string{"deleted-here"},
	}
	server.DeletedSetIDs = []string{"deleted-there"}

	merged := syncer.Merge(server, local, map[string]bool{"deleted-there": true})

	require.Len(t, merged.Sets, 1)
	assert.Equal(t, "kept", merged.Sets[0].ID)
}

func TestMergeUnionsPlayers(t *testing.T) {
	server := gamerecord.AppData{
		AllPlayers: []gamerecord.Player{
			{ID: "p1", Name: "server Anna"},
			{ID: "p3", Name: "Carol"},
		},
	}
	local := gamerecord.AppData{
		AllPlayers: []gamerecord.Player{
			{ID: "p1", Name: "local Anna"},
			{ID: "p2", Name: "Ben"},
		},
	}

	merged := syncer.Merge(server, local, nil)

	names := map[string]string{}
	for _, p := range merged.AllPlayers {
		names[p.ID] = p.Name
	}
	assert.Equal(t, "local Anna", names["p1"], "local edits win for known players")
	assert.Equal(t, "Ben", names["p2"])
	assert.Equal(t, "Carol", names["p3"], "players added on another device survive")
}
