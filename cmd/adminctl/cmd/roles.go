package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jpk1234556/machacoshostels/authz"
)

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <user-id>",
	Short: "Grant the super_admin role to a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db := openDB()
		defer db.Close()

		roles := authz.NewRoleStore(db)
		if err := roles.Assign(context.Background(), args[0], authz.RoleSuperAdmin); err != nil {
			log.Fatalf("Failed to grant super_admin: %v", err)
		}
		fmt.Printf("Granted super_admin to %s\n", args[0])
	},
}

var revokeAdminCmd = &cobra.Command{
	Use:   "revoke-admin <user-id>",
	Short: "Revoke the super_admin role from a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db := openDB()
		defer db.Close()

		roles := authz.NewRoleStore(db)
		if err := roles.Remove(context.Background(), args[0], authz.RoleSuperAdmin); err != nil {
			log.Fatalf("Failed to revoke super_admin: %v", err)
		}
		fmt.Printf("Revoked super_admin from %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(grantAdminCmd)
	rootCmd.AddCommand(revokeAdminCmd)
}
