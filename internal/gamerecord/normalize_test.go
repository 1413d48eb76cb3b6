package gamerecord_test

import (
	"testing"

	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCoercesNilSlices(t *testing.T) {
	data := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "s1", Name: "Friday night"},
		},
	}

	out := gamerecord.Normalize(data)

	assert.NotNil(t, out.AllPlayers)
	assert.NotNil(t, out.DeletedSetIDs)
	assert.NotNil(t, out.Sets[0].PlayerIDs)
	assert.NotNil(t, out.Sets[0].GameEntries)
}

func TestNormalizeClampsWinScoreLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero defaults", 0, 50},
		{"negative defaults", -3, 50},
		{"too large defaults", 10000, 50},
		{"lower bound kept", 1, 1},
		{"upper bound kept", 9999, 9999},
		{"valid kept", 120, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := gamerecord.Normalize(gamerecord.AppData{
				Sets: []gamerecord.PlayerSet{{ID: "s1", WinScoreLimit: tt.limit}},
			})
			assert.Equal(t, tt.want, out.Sets[0].WinScoreLimit)
		})
	}
}

func TestNormalizeFiltersTombstonedSets(t *testing.T) {
	data := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "keep"},
			{ID: "gone"},
		},
		DeletedSetIDs: []string{"gone"},
	}

	out := gamerecord.Normalize(data)

	assert.Len(t, out.Sets, 1)
	assert.Equal(t, "keep", out.Sets[0].ID)
	// The tombstone itself survives so other devices learn about the delete.
	assert.Equal(t, []string{"gone"}, out.DeletedSetIDs)
}

func TestTotalGameEntries(t *testing.T) {
	data := gamerecord.AppData{
		Sets: []gamerecord.PlayerSet{
			{ID: "s1", GameEntries: []gamerecord.GameEntry{{ID: "e1"}, {ID: "e2"}}},
			{ID: "s2", GameEntries: []gamerecord.GameEntry{{ID: "e3"}}},
			{ID: "s3"},
		},
	}
	assert.Equal(t, 3, gamerecord.TotalGameEntries(data))
}

func TestIsBlankTemplate(t *testing.T) {
	blank := gamerecord.AppData{
		AllPlayers: []gamerecord.Player{{ID: "p1", Name: "Anna"}},
		Sets:       []gamerecord.PlayerSet{{ID: "s1"}},
	}
	assert.True(t, gamerecord.IsBlankTemplate(blank))

	withStats := blank
	withStats.AllPlayers = []gamerecord.Player{{ID: "p1", Gold: 2}}
	assert.False(t, gamerecord.IsBlankTemplate(withStats))

	withEntries := blank
	withEntries.Sets = []gamerecord.PlayerSet{
		{ID: "s1", GameEntries: []gamerecord.GameEntry{{ID: "e1"}}},
	}
	assert.False(t, gamerecord.IsBlankTemplate(withEntries))
}

func TestStripPhotos(t *testing.T) {
	data := gamerecord.AppData{
		AllPlayers: []gamerecord.Player{
			{ID: "p1", Photo: "data:image/png;base64,AAAA"},
			{ID: "p2"},
		},
	}

	out := gamerecord.StripPhotos(data)

	assert.Empty(t, out.AllPlayers[0].Photo)
	// Original slice is untouched.
	assert.NotEmpty(t, data.AllPlayers[0].Photo)
}
