package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/daemon"
	"github.com/winkeep/winkeep/internal/database"
	"github.com/winkeep/winkeep/internal/geometry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status and the stored geometry",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
	} else {
		fmt.Println("Status: Not running")
	}
	fmt.Printf("Window: %s\n", cfg.Target.Title)
	fmt.Printf("Poll Interval: %v\n", cfg.Tracker.PollInterval)

	store := geometry.NewStore(cfg.Storage.GeometryPath)
	rect, ok, err := store.Load()
	switch {
	case err != nil:
		fmt.Printf("Stored Geometry: unreadable (%v)\n", err)
	case !ok:
		fmt.Println("Stored Geometry: none")
	default:
		saved := ""
		if fi, err := os.Stat(store.Path()); err == nil {
			saved = fmt.Sprintf(" (saved %s)", humanize.Time(fi.ModTime()))
		}
		fmt.Printf("Stored Geometry: %s%s\n", rect, saved)
	}

	if !cfg.Journal.Enabled {
		return nil
	}

	db, err := database.Connect(cfg.Journal.Path)
	if err != nil {
		fmt.Printf("Journal: unavailable (%v)\n", err)
		return nil
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		fmt.Printf("Journal: unavailable (%v)\n", err)
		return nil
	}

	latest, err := database.NewRepository(db).GetLatest()
	if err == nil && latest != nil {
		fmt.Printf("\nLast Event (%s):\n  %s\n", humanize.Time(latest.Timestamp), latest.Message)
	}
	return nil
}
