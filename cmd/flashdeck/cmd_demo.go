package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/flashdeck/backend/internal/models"
	"github.com/spf13/cobra"
)

// errNoGuestID is returned when a result is submitted without a stored guest identity
var errNoGuestID = errors.New("demo results need a stored guest identity, run without --no-store")

// demoCmd works with the demo challenge
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Demo challenge results and leaderboard",
}

var demoSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a demo challenge result as the guest",
	Args:  cobra.NoArgs,
	RunE:  runDemoSubmit,
}

var demoLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the demo leaderboard",
	Args:  cobra.NoArgs,
	RunE:  runDemoLeaderboard,
}

func newClient() *apiClient {
	return newAPIClient(apiURL, &http.Client{Timeout: timeout})
}

func runDemoSubmit(cmd *cobra.Command, args []string) error {
	totalTime, err := cmd.Flags().GetInt("time-ms")
	if err != nil {
		return err
	}
	incorrect, err := cmd.Flags().GetInt("incorrect")
	if err != nil {
		return err
	}
	if totalTime < 0 || incorrect < 0 {
		return fmt.Errorf("time-ms and incorrect must not be negative")
	}

	identity, err := guestService().Identity()
	if err != nil {
		return err
	}
	if identity.ID == "" {
		return errNoGuestID
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = newClient().SubmitDemoResult(ctx, &models.CreateDemoResultRequest{
		GuestID:     identity.ID,
		GuestName:   identity.Name,
		TotalTimeMs: &totalTime,
		Incorrect:   &incorrect,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Result submitted as %s\n", identity.Name)
	return nil
}

func runDemoLeaderboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := newClient().DemoLeaderboard(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tTIME\tMISTAKES")
	fmt.Fprintln(tw, strings.Repeat("-", 2)+"\t"+strings.Repeat("-", 4)+"\t"+strings.Repeat("-", 4)+"\t"+strings.Repeat("-", 8))
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.Rank, e.GuestName, formatDuration(e.TotalTimeMs), e.Incorrect)
	}
	return tw.Flush()
}

// formatDuration renders milliseconds as m:ss.mmm
func formatDuration(ms int) string {
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
