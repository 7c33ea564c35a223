package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"toggl-report/internal/app"
	"toggl-report/internal/usecase"
)

var (
	entriesFrom string
	entriesTo   string
	entriesOpen bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Print time entries and the projects they reference",
	Long: `Fetch time entries (default: the last 24 hours), print them ordered by start,
then fetch and print each referenced project, one request per second.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		win, err := app.ParseWindow(entriesFrom, entriesTo, entriesOpen, time.Now().UTC())
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), log, cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.RunOnce(cmd.Context(), win)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects in the configured workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), log, cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.Projects(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range projects {
			fmt.Fprintf(out, "%s\n\n", p)
		}
		return nil
	},
}

func init() {
	entriesCmd.Flags().StringVar(&entriesFrom, "from", "", "Start time, RFC3339/ISO8601 or YYYY-MM-DD (default: to - 24h)")
	entriesCmd.Flags().StringVar(&entriesTo, "to", "", "End time, RFC3339/ISO8601 or YYYY-MM-DD inclusive (default: now)")
	entriesCmd.Flags().BoolVar(&entriesOpen, "open", false, "Without --from, fetch everything before --to instead of the last 24h")
}

func printReport(w io.Writer, rep usecase.Report) {
	for _, e := range rep.Entries {
		fmt.Fprintf(w, "%s\n\n", e)
	}
	for _, p := range rep.Projects {
		fmt.Fprintf(w, "%s\n\n", p)
	}
}
