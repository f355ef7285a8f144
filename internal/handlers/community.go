package handlers

import (
	"context"
	"log"

	"github.com/CookiePawn/lawtracker/internal/model"
	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/gofiber/fiber/v2"
)

const defaultPostLimit = 50

// ListPostsHandler serves the newest community posts.
func ListPostsHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultPostLimit)
		if limit < 1 || limit > 200 {
			limit = defaultPostLimit
		}

		posts, err := community.ListPosts(context.Background(), limit)
		if err != nil {
			log.Printf("Failed to list posts: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list posts"})
		}

		return c.JSON(fiber.Map{"posts": posts})
	}
}

// CreatePostHandler stores a new post, optionally with a poll.
func CreatePostHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var post model.Post
		if err := c.BodyParser(&post); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if post.AuthorID == "" || post.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "authorId and title are required"})
		}

		if post.Poll != nil {
			if err := post.Poll.Validate(); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
		}

		if err := community.CreatePost(context.Background(), &post); err != nil {
			log.Printf("Failed to create post: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create post"})
		}

		return c.Status(fiber.StatusCreated).JSON(post)
	}
}

// GetPostHandler serves one post with its comments and poll tallies.
func GetPostHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		id := c.Params("id")

		post, err := community.GetPost(ctx, id)
		if err != nil {
			log.Printf("Failed to get post %s: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get post"})
		}
		if post == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
		}

		comments, err := community.ListComments(ctx, id)
		if err != nil {
			log.Printf("Failed to list comments for %s: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list comments"})
		}

		resp := fiber.Map{
			"post":     post,
			"comments": comments,
		}
		if post.Poll != nil {
			resp["pollCounts"] = post.Poll.Counts()
		}
		return c.JSON(resp)
	}
}

// AddCommentHandler appends a comment to a post.
func AddCommentHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var comment model.Comment
		if err := c.BodyParser(&comment); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if comment.AuthorID == "" || comment.Content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "authorId and content are required"})
		}

		if err := community.AddComment(context.Background(), c.Params("id"), &comment); err != nil {
			log.Printf("Failed to add comment: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add comment"})
		}

		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

type ballotRequest struct {
	UserID string `json:"userId"`
	Option int    `json:"option"`
}

// CastBallotHandler records a poll vote; voting again switches the
// user's choice.
func CastBallotHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ballotRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if req.UserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
		}

		if err := community.CastBallot(context.Background(), c.Params("id"), req.UserID, req.Option); err != nil {
			log.Printf("Failed to cast ballot: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// LikePostHandler bumps a post's like counter.
func LikePostHandler(community *store.CommunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := community.LikePost(context.Background(), c.Params("id")); err != nil {
			log.Printf("Failed to like post: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to like post"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
