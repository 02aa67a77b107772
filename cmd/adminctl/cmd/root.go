package cmd

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// adminctl is the out-of-band administration tool. Super admin grants only
// happen here; the HTTP API has no endpoint that can mint one.
var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Hostel platform administration CLI",
	Long: `Operator tool for role grants and approval decisions.

Environment Variables Required:
  DATABASE_URL    - PostgreSQL connection string`,
}

var actorID string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&actorID, "as", "adminctl", "Actor id recorded in the audit log")
}

func openDB() *sql.DB {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}
	return db
}
