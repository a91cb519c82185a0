package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/spf13/cobra"
)

var createMasterFlags struct {
	name     string
	email    string
	password string
}

var createMasterCmd = &cobra.Command{
	Use:   "create-master",
	Short: "Create a master admin account",
	Long:  "Create a master admin account. The password is read from --password or,\nwhen omitted, from the PORTAL_MASTER_PASSWORD environment variable.",
	Args:  cobra.NoArgs,
	RunE:  runCreateMaster,
}

func init() {
	f := createMasterCmd.Flags()
	f.StringVar(&createMasterFlags.name, "name", "", "Display name (required)")
	f.StringVar(&createMasterFlags.email, "email", "", "Login email (required)")
	f.StringVar(&createMasterFlags.password, "password", "", "Password, at least 8 characters")

	_ = createMasterCmd.MarkFlagRequired("name")
	_ = createMasterCmd.MarkFlagRequired("email")
}

func runCreateMaster(cmd *cobra.Command, _ []string) error {
	password := createMasterFlags.password
	if password == "" {
		password = os.Getenv("PORTAL_MASTER_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required: pass --password or set PORTAL_MASTER_PASSWORD")
	}

	if _, err := connect(); err != nil {
		return err
	}
	defer database.Close()

	admins := services.NewAdminService(database.DB)
	admin, err := admins.CreateMaster(cmd.Context(), createMasterFlags.name, createMasterFlags.email, password)
	if err != nil {
		return fmt.Errorf("create master: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "master admin %s created (%s)\n", admin.Email, admin.ID)
	return nil
}
