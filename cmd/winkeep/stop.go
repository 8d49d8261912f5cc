package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/daemon"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the tracking daemon",
	Long: `Stop the tracking daemon and wait for it to exit, so that a window that
is currently tracked has its geometry written first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dm := daemon.New(cfg.Daemon.PIDFile)

		running, pid, err := dm.IsRunning()
		if err != nil {
			return fmt.Errorf("failed to check daemon status: %w", err)
		}

		if !running {
			fmt.Println("Daemon is not running")
			return nil
		}

		fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
		if err := dm.Stop(shutdownTimeout); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}

		fmt.Println("Daemon stopped successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
