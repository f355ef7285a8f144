package cmd

import (
	"context"
	"log"
	"os"

	"github.com/CookiePawn/lawtracker/internal/config"
	"github.com/CookiePawn/lawtracker/internal/handlers"
	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"
)

var servePort string
var serveSnapshotPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LawTracker API server",
	Long: `Start the JSON API server over the bill snapshot. Bill search and
sorting always run from the snapshot; community and vote routes mount
only when GCP_PROJECT is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		if envPort := os.Getenv("PORT"); envPort != "" && servePort == "8080" {
			servePort = envPort
		}

		snapshotPath := serveSnapshotPath
		if snapshotPath == "" {
			snapshotPath = config.Cfg.SnapshotPath
		}

		snap, err := store.NewSnapshotStore(snapshotPath).Load()
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		log.Printf("Loaded %d bills from %s", snap.Len(), snapshotPath)
		cache := store.NewBillCache(snap.Bills())

		var community *store.CommunityStore
		if config.Cfg.GCPProject != "" {
			client, err := store.NewFirestoreClient(context.Background(), config.Cfg.GCPProject)
			if err != nil {
				log.Fatalf("Failed to connect to Firestore: %v", err)
			}
			defer client.Close()
			community = store.NewCommunityStore(client, config.Cfg.PostsCollection, config.Cfg.BillsCollection)
		}

		app := fiber.New(fiber.Config{
			AppName: "LawTracker API",
		})

		app.Use(logger.New())

		app.Get("/api/bills", handlers.ListBillsHandler(cache))
		app.Get("/api/bills/:id", handlers.BillDetailHandler(cache, community))

		if community != nil {
			app.Post("/api/bills/:id/vote", handlers.VoteBillHandler(cache, community))

			app.Get("/api/posts", handlers.ListPostsHandler(community))
			app.Post("/api/posts", handlers.CreatePostHandler(community))
			app.Get("/api/posts/:id", handlers.GetPostHandler(community))
			app.Post("/api/posts/:id/comments", handlers.AddCommentHandler(community))
			app.Post("/api/posts/:id/ballot", handlers.CastBallotHandler(community))
			app.Post("/api/posts/:id/like", handlers.LikePostHandler(community))
		} else {
			log.Println("GCP_PROJECT not set; community and vote routes disabled")
		}

		log.Printf("Starting server on :%s", servePort)
		if err := app.Listen(":" + servePort); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to run the server on")
	serveCmd.Flags().StringVarP(&serveSnapshotPath, "snapshot", "s", "", "Snapshot file path (default from config)")
}
