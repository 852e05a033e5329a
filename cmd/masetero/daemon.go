package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angewomoon/masetero/internal/daemon"
	"github.com/angewomoon/masetero/internal/dashboard"
	"github.com/angewomoon/masetero/internal/sync"
	"github.com/angewomoon/masetero/internal/ui"
)

var (
	daemonLogFile   string
	daemonDashboard bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the local database and export changes automatically",
	Long: `Run in the foreground, watching the local database file.

After an initial full export, every local change is debounced and
exported to the remote tree, with a periodic full export as a safety
net. With --dashboard, a WebSocket server broadcasts live progress to
connected clients.

Stop with Ctrl-C; the daemon finishes any in-flight export before
exiting.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.RemoteURL == "" {
			fmt.Fprintln(os.Stderr, "Error: remote_url is not configured")
			os.Exit(1)
		}

		db := openStore(cfg)
		defer db.Close()

		if err := db.InitSchema(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing schema: %v\n", err)
			os.Exit(1)
		}

		logFile := daemonLogFile
		if logFile == "" {
			logFile = cfg.DaemonLogFile
		}
		var logger *log.Logger
		if logFile != "" {
			logger = daemon.FileLogger(logFile)
		} else {
			logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
		}

		var reporter sync.ProgressReporter = sync.NewLogReporter(logger)
		var dash *dashboard.Server
		if daemonDashboard {
			dash = dashboard.NewServer(&dashboard.Config{
				Port:   cfg.DashboardPort,
				Logger: logger,
			})
			if err := dash.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Error starting dashboard: %v\n", err)
				os.Exit(1)
			}
			defer dash.Stop()
			fmt.Printf("%s Dashboard listening on %s\n", ui.RenderAccent("▸"), dash.GetAddr())
			reporter = dashboard.NewReporter(dash, logger)
		}

		engine := sync.New(db, newRemote(cfg), reporter, &sync.Config{
			TablePause:    cfg.TablePause,
			ImportTimeout: cfg.ImportTimeout,
			Logger:        logger,
		})

		d, err := daemon.New(engine, cfg.DBPath, &daemon.Config{
			Debounce: cfg.DaemonDebounce,
			Interval: cfg.DaemonInterval,
			Logger:   logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating daemon: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("%s Watching %s (Ctrl-C to stop)\n", ui.RenderAccent("▸"), cfg.DBPath)
		if err := d.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Daemon error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	daemonCmd.Flags().StringVar(&daemonLogFile, "log-file", "", "write daemon logs to a rotating file")
	daemonCmd.Flags().BoolVar(&daemonDashboard, "dashboard", false, "serve a live progress dashboard over WebSocket")
	rootCmd.AddCommand(daemonCmd)
}
