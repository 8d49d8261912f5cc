package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/daemon"
)

var runOpts struct {
	web  bool
	port int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track the window in the foreground",
	Long: `Track the window in the foreground until interrupted.

The stored geometry is applied each time the window appears and the last
observed geometry is saved each time it disappears. Ctrl-C stops tracking.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTracking(runOpts.web, runOpts.port)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracking daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(false)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tracking daemon with the web API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(true)
	},
}

func init() {
	rootCmd.AddCommand(runCmd, startCmd, serveCmd)

	runCmd.Flags().BoolVar(&runOpts.web, "web", false, "Also serve the web API")
	runCmd.Flags().IntVar(&runOpts.port, "port", 0, "Web API port (overrides config)")
	serveCmd.Flags().IntVar(&runOpts.port, "port", 0, "Web API port (overrides config)")
}

// runDaemon re-executes winkeep in the background. The child process,
// marked by daemon.ChildEnv, owns the PID file and does the tracking.
func runDaemon(withWeb bool) error {
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	if !daemon.IsChild() {
		process, err := daemon.Spawn(os.Args[1:], cfg.Daemon.LogFile)
		if err != nil {
			return err
		}

		fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
		fmt.Printf("Tracking window: %s\n", cfg.Target.Title)
		if withWeb {
			port := cfg.Web.Port
			if runOpts.port > 0 {
				port = runOpts.port
			}
			fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, port)
		}
		fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
		return process.Release()
	}

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer func() {
		if err := dm.RemovePID(); err != nil {
			logger.Warn("failed to remove PID file", "error", err)
		}
	}()

	logger.Info("daemon started", "pid", os.Getpid(), "title", cfg.Target.Title)
	return runTracking(withWeb, runOpts.port)
}
