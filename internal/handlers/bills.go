package handlers

import (
	"context"
	"log"

	"github.com/CookiePawn/lawtracker/internal/service"
	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/gofiber/fiber/v2"
)

// ListBillsHandler serves the filtered, sorted bill list. Query params:
// q, committee, status, from, to (YYYY-MM-DD, inclusive), sort
// (recency|popularity).
func ListBillsHandler(cache *store.BillCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		criteria := service.Criteria{
			Query:     c.Query("q"),
			From:      c.Query("from"),
			To:        c.Query("to"),
			Committee: c.Query("committee"),
			Status:    c.Query("status"),
		}
		mode := service.ParseSortMode(c.Query("sort"))

		bills := service.Filter(cache.Bills(), criteria)
		bills = service.Sort(bills, mode, cache.ViewCount)

		return c.JSON(fiber.Map{
			"total": len(bills),
			"bills": bills,
		})
	}
}

// BillDetailHandler serves one bill and counts the view. When the
// community store is configured the view is mirrored to Firestore on a
// best-effort basis.
func BillDetailHandler(cache *store.BillCache, community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		bill, ok := cache.Get(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bill not found"})
		}

		views := cache.RecordView(id)
		if community != nil {
			if err := community.RecordBillView(context.Background(), id); err != nil {
				log.Printf("Failed to mirror view for bill %s: %v", id, err)
			}
		}

		return c.JSON(fiber.Map{
			"bill":      bill,
			"viewCount": views,
		})
	}
}

type billVoteRequest struct {
	Choice string `json:"choice"` // "approve" or "reject"
}

// VoteBillHandler records an approve/reject vote in Firestore.
func VoteBillHandler(cache *store.BillCache, community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, ok := cache.Get(id); !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bill not found"})
		}

		var req billVoteRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if req.Choice != "approve" && req.Choice != "reject" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "choice must be approve or reject"})
		}

		if err := community.VoteBill(context.Background(), id, req.Choice == "approve"); err != nil {
			log.Printf("Failed to record vote for bill %s: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record vote"})
		}

		return c.JSON(fiber.Map{"status": "ok"})
	}
}
