package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CookiePawn/lawtracker/internal/config"
	"github.com/CookiePawn/lawtracker/internal/service"
	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/spf13/cobra"
)

var importSnapshotPath string
var importPageSize int
var importMaxPages int
var importConcurrency int

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import bill data from the National Assembly OpenAPI",
	Long: `Import pages through the National Assembly bill list endpoint, fetches
detail records for bills not yet in the snapshot, and rewrites the
snapshot with the merged collection.

Bills already present are never re-fetched, so repeated runs only pull
what is new. The API key comes from ASSEMBLY_API_KEY.

Examples:
  # Incremental import into the default snapshot
  ./lawtracker import

  # First pull with a small page budget
  ./lawtracker import --max-pages 5 --page-size 50`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importSnapshotPath, "snapshot", "s", "", "Snapshot file path (default from config)")
	importCmd.Flags().IntVar(&importPageSize, "page-size", 0, "Rows per list page (default from config)")
	importCmd.Flags().IntVar(&importMaxPages, "max-pages", 0, "Stop after N pages (0 = until exhausted)")
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 8, "Concurrent detail requests")
}

func runImport(cmd *cobra.Command, args []string) {
	apiKey := config.Cfg.AssemblyAPIKey
	if apiKey == "" {
		log.Fatal("ASSEMBLY_API_KEY is required")
	}

	snapshotPath := importSnapshotPath
	if snapshotPath == "" {
		snapshotPath = config.Cfg.SnapshotPath
	}
	pageSize := importPageSize
	if pageSize <= 0 {
		pageSize = config.Cfg.PageSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	client := service.NewAssemblyClient(config.Cfg.AssemblyBaseURL, apiKey)
	snapshots := store.NewSnapshotStore(snapshotPath)
	importer := service.NewImporter(client, snapshots, pageSize, importMaxPages, importConcurrency)

	log.Printf("Starting import into %s", snapshotPath)
	stats, err := importer.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Import cancelled")
			os.Exit(1)
		}
		log.Fatalf("Import failed: %v", err)
	}
	importer.PrintSummary(stats)

	if stats.DetailFailed > 0 {
		os.Exit(1)
	}
}
