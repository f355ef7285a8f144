package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CookiePawn/lawtracker/internal/config"
	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/spf13/cobra"
)

var syncSnapshotPath string
var syncConcurrency int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Seed the Firestore bills collection from the snapshot",
	Long: `Sync pushes every snapshot record into the Firestore bills collection.
Documents that already exist are skipped, so runtime vote and view
counters are never clobbered by a re-run.`,
	Run: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncSnapshotPath, "snapshot", "s", "", "Snapshot file path (default from config)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 8, "Concurrent Firestore writes")
}

func runSync(cmd *cobra.Command, args []string) {
	if config.Cfg.GCPProject == "" {
		log.Fatal("GCP_PROJECT is required")
	}

	snapshotPath := syncSnapshotPath
	if snapshotPath == "" {
		snapshotPath = config.Cfg.SnapshotPath
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

	snap, err := store.NewSnapshotStore(snapshotPath).Load()
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	log.Printf("Loaded %d bills from %s", snap.Len(), snapshotPath)

	client, err := store.NewFirestoreClient(ctx, config.Cfg.GCPProject)
	if err != nil {
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer client.Close()

	community := store.NewCommunityStore(client, config.Cfg.PostsCollection, config.Cfg.BillsCollection)

	stats, err := community.SeedBills(ctx, snap.Bills(), syncConcurrency)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Sync cancelled")
			os.Exit(1)
		}
		log.Fatalf("Sync failed: %v", err)
	}

	log.Println("")
	log.Println("=== Sync Summary ===")
	log.Printf("Created:  %d", stats.Created)
	log.Printf("Skipped:  %d (already seeded)", stats.Skipped)
	log.Printf("Failed:   %d", stats.Failed)

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
