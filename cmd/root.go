package cmd

import (
	"log"
	"os"

	"github.com/CookiePawn/lawtracker/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lawtracker",
	Short: "LawTracker bill data pipeline",
	Long: `LawTracker ingests legislative bill data from the National Assembly
OpenAPI into a JSON snapshot, serves search over it, and seeds the
Firestore collections backing the mobile app.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Load()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
