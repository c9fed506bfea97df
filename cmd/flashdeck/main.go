// Command flashdeck is a command line client for the guest identity and the demo challenge
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flashdeck/backend/internal/guest"
	"github.com/spf13/cobra"
)

var (
	apiURL    string
	guestFile string
	noStore   bool
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "flashdeck",
	Short:         "Flashdeck command line client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envDefault("FLASHDECK_API", "http://localhost:8080"), "Base URL of the Flashdeck API")
	rootCmd.PersistentFlags().StringVar(&guestFile, "guest-file", defaultGuestFile(), "File the guest identity is stored in")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Do not read or persist the guest identity")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP request timeout")

	guestCmd.AddCommand(guestShowCmd, guestRenameCmd, guestRegenerateCmd)
	demoSubmitCmd.Flags().Int("time-ms", 0, "Total time of the run in milliseconds")
	demoSubmitCmd.Flags().Int("incorrect", 0, "Number of incorrect answers")
	_ = demoSubmitCmd.MarkFlagRequired("time-ms")
	demoCmd.AddCommand(demoSubmitCmd, demoLeaderboardCmd)
	rootCmd.AddCommand(guestCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// guestService builds the guest service over the configured storage
func guestService() *guest.Service {
	if noStore {
		return guest.NewService(guest.NoopStorage{})
	}
	return guest.NewService(guest.NewFileStorage(guestFile))
}

func defaultGuestFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "flashdeck", "guest.yaml")
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
