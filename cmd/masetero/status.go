package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/angewomoon/masetero/internal/catalog"
	"github.com/angewomoon/masetero/internal/sync"
	"github.com/angewomoon/masetero/internal/ui"
)

var statusRemote bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local and remote table counts",
	Long: `Display the state of both persistence tiers.

Shows the local database location and per-table row counts. With
--remote, also queries the remote tree for per-path document counts;
differences between the two columns indicate unsynced data.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		info, err := os.Stat(cfg.DBPath)
		if os.IsNotExist(err) {
			fmt.Printf("\n%s Local database not initialized\n", ui.RenderWarn("⚠"))
			fmt.Printf("   Run 'masetero import' to pull your data\n\n")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking database: %v\n", err)
			os.Exit(1)
		}

		db := openStore(cfg)
		defer db.Close()

		ctx := context.Background()
		if err := db.InitSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing schema: %v\n", err)
			os.Exit(1)
		}

		local, err := db.TableCounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error counting local rows: %v\n", err)
			os.Exit(1)
		}

		var remoteCounts map[string]int
		if statusRemote {
			engine := sync.New(db, newRemote(cfg), nil, nil)
			remoteCounts, err = engine.RemoteTableCounts(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error counting remote documents: %v\n", err)
				os.Exit(1)
			}
		}

		size := info.Size()
		sizeStr := fmt.Sprintf("%d bytes", size)
		if size > 1024*1024 {
			sizeStr = fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
		} else if size > 1024 {
			sizeStr = fmt.Sprintf("%.1f KB", float64(size)/1024)
		}

		fmt.Printf("\n%s Masetero Status\n\n", ui.RenderAccent("🌱"))
		fmt.Printf("Database: %s (%s)\n", cfg.DBPath, sizeStr)
		fmt.Printf("Modified: %s\n\n", info.ModTime().Format("2006-01-02 15:04:05"))

		for _, spec := range catalog.All() {
			line := fmt.Sprintf("%-16s %6d local", string(spec.Kind), local[spec.LocalTable])
			if remoteCounts != nil {
				line += fmt.Sprintf(" %6d remote", remoteCounts[string(spec.Kind)])
			}
			fmt.Println(line)
		}
		fmt.Println()
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusRemote, "remote", false, "also query remote document counts")
	rootCmd.AddCommand(statusCmd)
}
