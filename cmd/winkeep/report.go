package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/reporter"
)

var reportOpts struct {
	json bool
}

var historyOpts struct {
	limit int
}

var clearOpts struct {
	yes       bool
	olderThan time.Duration
}

var reportCmd = &cobra.Command{
	Use:       "report [day|week|month|all]",
	Short:     "Summarize when the window was visible",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"day", "week", "month", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		period := "day"
		if len(args) > 0 {
			period = args[0]
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		rep := reporter.New(cfg.Target.Title, repo)
		report, err := rep.GenerateReport(period)
		if err != nil {
			return err
		}

		if reportOpts.json {
			out, err := rep.FormatReportJSON(report)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		fmt.Print(rep.FormatReportText(report))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent journaled events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		events, err := repo.Recent(historyOpts.limit)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No events recorded")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-16s %-12s %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				humanize.Time(e.Timestamp),
				e.Kind,
				e.Message)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete journaled events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		what := "all journaled events"
		if clearOpts.olderThan > 0 {
			what = fmt.Sprintf("events older than %v", clearOpts.olderThan)
		}

		if !clearOpts.yes && !confirm(fmt.Sprintf("This will delete %s. Are you sure? (yes/no): ", what)) {
			fmt.Println("Operation cancelled")
			return nil
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		if clearOpts.olderThan > 0 {
			n, err := repo.DeleteOldEvents(time.Now().Add(-clearOpts.olderThan))
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s events\n", humanize.Comma(n))
			return nil
		}

		if err := repo.Clear(); err != nil {
			return err
		}
		fmt.Println("Journal cleared successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd, historyCmd, clearCmd)

	reportCmd.Flags().BoolVar(&reportOpts.json, "json", false, "Output the report as JSON")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20, "Number of events to show")
	clearCmd.Flags().BoolVarP(&clearOpts.yes, "yes", "y", false, "Do not ask for confirmation")
	clearCmd.Flags().DurationVar(&clearOpts.olderThan, "older-than", 0, "Only delete events older than this")
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "yes" || response == "y"
}
