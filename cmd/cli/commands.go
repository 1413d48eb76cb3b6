package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/mverde/game-record/internal/gamerecord"
	"github.com/mverde/game-record/internal/persistence"
	"github.com/mverde/game-record/internal/scoring"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

var forceSave bool

func init() {
	saveCmd.Flags().BoolVar(&forceSave, "force", false, "Allow a save that removes game entries")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(deleteSetCmd)
	rootCmd.AddCommand(deleteEntryCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the user's full score document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := persistence.NewRemote(host, userID).LoadAppData(cmd.Context())
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the ranked player standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := persistence.NewRemote(host, userID).LoadAppData(cmd.Context())
		ranks := scoring.Rank(data.AllPlayers)
		wins := scoring.SetWinsByPlayerID(data)

		players := make([]gamerecord.Player, len(data.AllPlayers))
		copy(players, data.AllPlayers)
		sort.SliceStable(players, func(i, j int) bool {
			return ranks[players[i].ID] < ranks[players[j].ID]
		})

		fmt.Printf("%-4s %-20s %6s %4s %6s %6s %7s %4s\n", "#", "Player", "Points", "Wins", "Gold", "Silver", "Bronze", "Fatt")
		for _, p := range players {
			fmt.Printf("%-4d %-20s %6d %4d %6d %6d %7d %4d\n",
				ranks[p.ID], p.Name, p.Points, wins[p.ID], p.Gold, p.Silver, p.Bronze, p.Fatts)
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <file.json>",
	Short: "Save a JSON document to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		var data gamerecord.AppData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}

		res := persistence.NewRemote(host, userID).SaveAppData(cmd.Context(), data, persistence.SaveOptions{AllowDestructive: forceSave})
		if !res.OK {
			return fmt.Errorf("save rejected (%s): %s", res.Code, res.Message)
		}
		fmt.Printf("Saved: version %d, %d game entries\n", res.ServerVersion, res.TotalGameEntries)
		return nil
	},
}

var deleteSetCmd = &cobra.Command{
	Use:   "delete-set <setID>",
	Short: "Delete a set and tombstone its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := persistence.NewRemote(host, userID)
		data := client.LoadAppData(cmd.Context())

		sets := make([]gamerecord.PlayerSet, 0, len(data.Sets))
		found := false
		for _, set := range data.Sets {
			if set.ID == args[0] {
				found = true
				continue
			}
			sets = append(sets, set)
		}
		if !found {
			return fmt.Errorf("no set with ID %q", args[0])
		}
		data.Sets = sets
		data.DeletedSetIDs = append(data.DeletedSetIDs, args[0])
		data.DataVersion++

		res := client.SaveAppData(cmd.Context(), data, persistence.SaveOptions{AllowDestructive: true})
		if !res.OK {
			return fmt.Errorf("delete rejected (%s): %s", res.Code, res.Message)
		}
		fmt.Printf("Deleted set %s: version %d\n", args[0], res.ServerVersion)
		return nil
	},
}

var deleteEntryCmd = &cobra.Command{
	Use:   "delete-entry <setID> <entryID>",
	Short: "Delete a single game entry from a set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := persistence.NewRemote(host, userID).DeleteGameEntry(cmd.Context(), args[0], args[1])
		if !res.OK {
			return fmt.Errorf("delete rejected: %s", res.Code)
		}
		fmt.Printf("Deleted entry %s: version %d, %d game entries left\n", args[1], res.DataVersion, res.TotalGameEntries)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upload the local app-data.json to the server, replacing the server copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := persistence.NewLocal(dataDir, 0).LoadAppData(cmd.Context())
		if gamerecord.TotalGameEntries(data) == 0 && len(data.Sets) == 0 {
			return fmt.Errorf("local document in %s is empty, refusing to migrate", dataDir)
		}
		return performUpload(data)
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Download the user's document into a msgpack snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := persistence.NewRemote(host, userID).LoadAppData(cmd.Context())
		blob, err := msgpack.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := os.WriteFile(args[0], blob, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Printf("Backed up version %d (%d bytes) to %s\n", data.DataVersion, len(blob), args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Upload a msgpack snapshot, replacing the server copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		var data gamerecord.AppData
		if err := msgpack.Unmarshal(blob, &data); err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}
		return performUpload(data)
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

// performUpload hits the unconditional upload endpoint, which bypasses the
// version and destructive-write guards.
func performUpload(data gamerecord.AppData) error {
	payload, err := json.Marshal(map[string]any{"userId": userID, "data": data})
	if err != nil {
		return fmt.Errorf("failed to encode upload: %w", err)
	}

	resp, err := http.Post(host+"/api/app-data/upload", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	fmt.Printf("Uploaded version %d with %d sets\n", data.DataVersion, len(data.Sets))
	return nil
}
