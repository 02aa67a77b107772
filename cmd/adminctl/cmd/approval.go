package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

func decide(targetID string, status db.ApprovalStatus) {
	pg := openDB()
	defer pg.Close()

	approvals := services.NewApprovalService(pg, nil)
	entry, err := approvals.SetApprovalStatus(context.Background(), actorID, targetID, status)
	if err != nil {
		log.Fatalf("Failed to set approval status: %v", err)
	}
	fmt.Printf("%s: %s -> %s\n", entry.TargetUserEmail, entry.Action, status)
}

var approveCmd = &cobra.Command{
	Use:   "approve <user-id>",
	Short: "Approve a pending owner account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decide(args[0], db.ApprovalApproved)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <user-id>",
	Short: "Reject an owner account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decide(args[0], db.ApprovalRejected)
	},
}

var listPendingCmd = &cobra.Command{
	Use:   "list-pending",
	Short: "List owner accounts awaiting approval",
	Run: func(cmd *cobra.Command, args []string) {
		pg := openDB()
		defer pg.Close()

		profiles := services.NewProfileService(pg, nil)
		pending, err := profiles.List(context.Background(), db.ApprovalPending)
		if err != nil {
			log.Fatalf("Failed to list pending profiles: %v", err)
		}

		if len(pending) == 0 {
			fmt.Println("No pending accounts")
			return
		}
		for _, p := range pending {
			fmt.Printf("%s  %-30s  %s  (since %s)\n", p.ID, p.Email, p.FullName, p.CreatedAt.Format("2006-01-02"))
		}
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(listPendingCmd)
}
