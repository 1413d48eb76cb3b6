package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mverde/game-record/internal/config"
	"github.com/mverde/game-record/internal/database"
	"github.com/mverde/game-record/internal/docstore"
	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/scoring"
)

const (
	numSets          = 3
	entriesPerSet    = 25
	playersPerSet    = 4
	targetUserID     = "default"
	seededScoreRange = 30
)

func main() {
	log.Info("Starting document seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	players := []gamerecord.Player{
		{ID: uuid.NewString(), Name: "Seeder Player A"},
		{ID: uuid.NewString(), Name: "Seeder Player B"},
		{ID: uuid.NewString(), Name: "Seeder Player C"},
		{ID: uuid.NewString(), Name: "Seeder Player D"},
	}
	playerIDs := make([]string, len(players))
	for i, p := range players {
		playerIDs[i] = p.ID
	}

	data := gamerecord.Default()
	startTime := time.Now()

	for i := 0; i < numSets; i++ {
		set := gamerecord.PlayerSet{
			ID:            uuid.NewString(),
			Name:          "Seeded Set " + string(rune('A'+i)),
			PlayerIDs:     playerIDs,
			WinScoreLimit: gamerecord.DefaultWinScoreLimit,
			CreatedAt:     time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour).Unix(),
			GameEntries:   make([]gamerecord.GameEntry, 0, entriesPerSet),
		}

		for j := 0; j < entriesPerSet; j++ {
			entry := gamerecord.GameEntry{
				ID:        uuid.NewString(),
				Timestamp: time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour).Unix(),
			}
			for _, id := range playerIDs[:playersPerSet] {
				entry.PlayerScores = append(entry.PlayerScores, gamerecord.PlayerScore{
					PlayerID: id,
					Score:    rand.Intn(seededScoreRange),
					Fatt:     rand.Intn(3),
				})
			}
			set.GameEntries = append(set.GameEntries, entry)
		}
		data.Sets = append(data.Sets, set)
	}

	// Derive medal and point totals from the generated entries so the seeded
	// document is internally consistent.
	allEntries := make([]gamerecord.GameEntry, 0, numSets*entriesPerSet)
	for _, set := range data.Sets {
		allEntries = append(allEntries, set.GameEntries...)
	}
	data.AllPlayers = scoring.RecalculateMedals(players, allEntries)
	data.DataVersion = 1

	store := docstore.New(db)
	if err := store.Upload(context.Background(), targetUserID, data); err != nil {
		log.Fatalf("Failed to upload seeded document: %s", err)
	}

	log.Info("Successfully seeded document.",
		"user", targetUserID,
		"sets", len(data.Sets),
		"entries", gamerecord.TotalGameEntries(data),
		"duration", time.Since(startTime))
}
