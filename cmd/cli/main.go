package main

import (
	"fmt"
	"os"

	"github.com/mverde/game-record/internal/config"
	"github.com/spf13/cobra"
)

var (
	host    string
	userID  string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "record-cli",
	Short: "A CLI to interact with the game-record server",
	Long: `A command-line interface for inspecting and editing the score-tracking
document, either against a running game-record server or a local data file.`,
}

func init() {
	// Flag defaults come from the environment (.env included) so the CLI can
	// be pointed at a deployment without repeating flags on every command.
	cfg := config.Load()
	defaultHost := cfg.Client.APIURL
	if defaultHost == "" {
		defaultHost = "http://localhost:" + cfg.Port
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", defaultHost, "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&userID, "user", cfg.Client.UserID, "The user whose document to operate on")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", cfg.Client.DataDir, "Directory holding the local app-data.json")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
