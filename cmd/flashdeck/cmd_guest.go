package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// guestCmd manages the local guest identity
var guestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Manage the guest identity used for the demo challenge",
	RunE:  runGuestShow,
}

var guestShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the guest identity, creating it on first use",
	Args:  cobra.NoArgs,
	RunE:  runGuestShow,
}

var guestRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Set the guest display name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGuestRename,
}

var guestRegenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Pick a new random display name, keeping the id",
	Args:  cobra.NoArgs,
	RunE:  runGuestRegenerate,
}

func runGuestShow(cmd *cobra.Command, args []string) error {
	identity, err := guestService().Identity()
	if err != nil {
		return err
	}

	id := identity.ID
	if id == "" {
		id = "(not stored)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ID:   %s\nName: %s\n", id, identity.Name)
	return nil
}

func runGuestRename(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len([]rune(name)) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}

	if err := guestService().UpdateName(name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", name)
	return nil
}

func runGuestRegenerate(cmd *cobra.Command, args []string) error {
	name, err := guestService().RegenerateName()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", name)
	return nil
}
