package main

import (
	"fmt"
	"os"

	"github.com/angewomoon/masetero/internal/config"
	"github.com/angewomoon/masetero/internal/remote"
	"github.com/angewomoon/masetero/internal/store"
	"github.com/angewomoon/masetero/internal/ui"
)

// loadConfig reads the config file named by --config, or the defaults.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStore opens the local database and initializes its schema.
func openStore(cfg *config.Config) *store.Store {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return db
}

// newRemote builds the remote client from config. Exits when no remote is
// configured, since every caller needs one.
func newRemote(cfg *config.Config) remote.Store {
	if cfg.RemoteURL == "" {
		fmt.Fprintf(os.Stderr, "Error: no remote_url configured\n")
		fmt.Fprintf(os.Stderr, "Set remote_url in masetero.yaml or MASETERO_REMOTE_URL\n")
		os.Exit(1)
	}
	return remote.NewClient(cfg.RemoteURL, cfg.RemoteToken, nil, nil)
}

// cliReporter prints transfer callbacks as terminal output.
type cliReporter struct{}

func (cliReporter) OnProgress(table string, current, total int) {
	fmt.Printf("   %s %s: %d/%d\n", ui.RenderDim("…"), table, current, total)
}

func (cliReporter) OnTableComplete(table string, succeeded, failed int) {
	marker := ui.RenderPass("✓")
	if failed > 0 {
		marker = ui.RenderWarn("⚠")
	}
	fmt.Printf("%s %s: %d synced, %d failed\n", marker, table, succeeded, failed)
}

func (cliReporter) OnError(table string, message string) {
	fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.RenderFail("✗"), table, message)
}

func (cliReporter) OnComplete(totalSucceeded, totalFailed int) {
	// Totals are printed by the command itself, with timing
}
