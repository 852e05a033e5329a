// Command masetero is the plant-monitoring client's sync CLI.
//
// It moves records between the local SQLite database and the remote
// document tree, shows the state of both tiers, and can run as a daemon
// that exports local changes automatically.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "masetero",
	Short: "Plant-monitoring sync client",
	Long: `masetero keeps the plant-monitoring data on this device in sync with
the remote tree.

The local tier is an embedded SQLite database holding users, plants,
sensor readings, and alerts. The remote tier is a path-addressed JSON
tree shared by all of an account's devices. Transfers run table by
table in dependency order, so a failure in one table never blocks the
others.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default masetero.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
