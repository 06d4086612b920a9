package main

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/config"
	"github.com/spf13/cobra"
)

var adminName, adminEmail, adminPassword string

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote and reset an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}
		a, err := newApp(cmd.Context(), config.Load())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		u, err := a.auth.EnsureAdmin(cmd.Context(), adminName, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Admin %s (%s) ready\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 6 characters")
}
