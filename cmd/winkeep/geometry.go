package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/winkeep/winkeep/internal/geometry"
)

var geometryOpts struct {
	clear bool
}

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Print the stored window geometry",
	Long: `Print the geometry that will be applied the next time the window appears.
With --clear the record is deleted and the window keeps whatever geometry
the window manager gives it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := geometry.NewStore(cfg.Storage.GeometryPath)

		if geometryOpts.clear {
			if err := os.Remove(store.Path()); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove geometry record: %w", err)
			}
			fmt.Printf("Removed %s\n", store.Path())
			return nil
		}

		rect, ok, err := store.Load()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "No geometry stored at %s\n", store.Path())
			return nil
		}

		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(rect)
	},
}

func init() {
	rootCmd.AddCommand(geometryCmd)
	geometryCmd.Flags().BoolVar(&geometryOpts.clear, "clear", false, "Delete the stored geometry")
}
