package main

import (
	"fmt"
	"os"

	"github.com/notedrop/notedrop/internal/app"
	"github.com/notedrop/notedrop/internal/config"
	"github.com/notedrop/notedrop/internal/logger"
	"github.com/spf13/cobra"
)

// admin is an offline management CLI operating directly on the
// datastore, for when the web panel is unreachable or scripting is
// easier than clicking.
func main() {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Offline user management for notedrop",
	}

	rootCmd.AddCommand(listUsersCmd())
	rootCmd.AddCommand(addUserCmd())
	rootCmd.AddCommand(deleteUserCmd())
	rootCmd.AddCommand(resetPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "")
	return app.New(cfg)
}

func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			users, err := a.UserService.All()
			if err != nil {
				return err
			}

			for _, u := range users {
				role := ""
				if u.IsAdmin {
					role = " (admin)"
				}
				fmt.Printf("%s%s\n", u.ID, role)
			}
			return nil
		},
	}
}

func addUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <password>",
		Short: "Create a regular user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return a.UserService.Add(args[0], args[1])
		},
	}
}

func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return a.UserService.DeleteCascade(args[0])
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id> <password>",
		Short: "Set a new password for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return a.UserService.SetPassword(args[0], args[1])
		},
	}
}
