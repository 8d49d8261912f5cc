package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/pkg/backend"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Look for the window once and print what the backend sees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Display Server: %s\n", backend.DetectDisplayServer())

		be, err := backend.New(cfg.Backend.Prefer, logger)
		if err != nil {
			return err
		}
		defer be.Close()

		fmt.Print(be.GetStatus())

		h, found, err := be.FindVisibleWindow(cfg.Target.Title)
		if err != nil {
			return fmt.Errorf("window query failed: %w", err)
		}
		if !found {
			fmt.Printf("\nWindow '%s' is not visible.\n", cfg.Target.Title)
			return nil
		}

		fmt.Printf("\nWindow '%s' found (handle 0x%x)\n", cfg.Target.Title, uint64(h))

		rect, ok, err := be.GetRect(h)
		switch {
		case err != nil:
			return fmt.Errorf("failed to read geometry: %w", err)
		case !ok:
			fmt.Println("  Window closed while probing")
		default:
			fmt.Printf("  Geometry: %s\n", rect)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
