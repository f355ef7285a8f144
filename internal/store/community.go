package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/CookiePawn/lawtracker/internal/model"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewFirestoreClient creates a Firestore client for the given project.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// CommunityStore owns the app's mutable runtime data in Firestore: the
// community forum (posts, comments, poll ballots) and the per-bill vote
// and view counters layered over the seeded snapshot.
type CommunityStore struct {
	client   *firestore.Client
	postsCol string
	billsCol string
}

// NewCommunityStore creates a store over the given collections.
func NewCommunityStore(client *firestore.Client, postsCol, billsCol string) *CommunityStore {
	return &CommunityStore{
		client:   client,
		postsCol: postsCol,
		billsCol: billsCol,
	}
}

// CreatePost stores a new post. The ID is generated server-side here so
// comments and ballots can reference it immediately.
func (s *CommunityStore) CreatePost(ctx context.Context, post *model.Post) error {
	if post.Poll != nil {
		if err := post.Poll.Validate(); err != nil {
			return err
		}
		if post.Poll.Ballots == nil {
			post.Poll.Ballots = make(map[string]int)
		}
	}
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()

	if _, err := s.client.Collection(s.postsCol).Doc(post.ID).Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPost retrieves one post by ID, nil when absent.
func (s *CommunityStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	doc, err := s.client.Collection(s.postsCol).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}

	var post model.Post
	if err := doc.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", id, err)
	}
	return &post, nil
}

// ListPosts returns the newest posts first, up to limit.
func (s *CommunityStore) ListPosts(ctx context.Context, limit int) ([]model.Post, error) {
	it := s.client.Collection(s.postsCol).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer it.Stop()

	var posts []model.Post
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
		var post model.Post
		if err := doc.DataTo(&post); err != nil {
			return nil, fmt.Errorf("failed to decode post %s: %w", doc.Ref.ID, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// AddComment appends a comment under a post and bumps its comment count.
func (s *CommunityStore) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()

	postRef := s.client.Collection(s.postsCol).Doc(postID)
	if _, err := postRef.Collection("comments").Doc(comment.ID).Create(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	_, err := postRef.Update(ctx, []firestore.Update{
		{Path: "commentCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to bump comment count: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first.
func (s *CommunityStore) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	it := s.client.Collection(s.postsCol).Doc(postID).
		Collection("comments").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var comments []model.Comment
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		var comment model.Comment
		if err := doc.DataTo(&comment); err != nil {
			return nil, fmt.Errorf("failed to decode comment %s: %w", doc.Ref.ID, err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// CastBallot records one user's poll vote inside a transaction. The
// ballot map keys on user ID, so voting again overwrites the previous
// choice and one active vote per user holds by construction.
func (s *CommunityStore) CastBallot(ctx context.Context, postID, userID string, option int) error {
	ref := s.client.Collection(s.postsCol).Doc(postID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return fmt.Errorf("failed to read post %s: %w", postID, err)
		}

		var post model.Post
		if err := doc.DataTo(&post); err != nil {
			return fmt.Errorf("failed to decode post %s: %w", postID, err)
		}
		if post.Poll == nil {
			return fmt.Errorf("post %s has no poll", postID)
		}
		if option < 0 || option >= len(post.Poll.Options) {
			return fmt.Errorf("option %d out of range for post %s", option, postID)
		}

		return tx.Update(ref, []firestore.Update{
			{FieldPath: firestore.FieldPath{"poll", "ballots", userID}, Value: option},
		})
	})
}

// LikePost bumps a post's like counter.
func (s *CommunityStore) LikePost(ctx context.Context, postID string) error {
	_, err := s.client.Collection(s.postsCol).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "likeCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to like post %s: %w", postID, err)
	}
	return nil
}

// VoteBill bumps a bill's approve or reject tally.
func (s *CommunityStore) VoteBill(ctx context.Context, billID string, approve bool) error {
	field := "reject"
	if approve {
		field = "approve"
	}
	_, err := s.client.Collection(s.billsCol).Doc(billID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to record %s vote for bill %s: %w", field, billID, err)
	}
	return nil
}

// RecordBillView bumps a bill's view counter.
func (s *CommunityStore) RecordBillView(ctx context.Context, billID string) error {
	_, err := s.client.Collection(s.billsCol).Doc(billID).Update(ctx, []firestore.Update{
		{Path: "viewCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to record view for bill %s: %w", billID, err)
	}
	return nil
}

// SyncStats tracks one snapshot seeding run.
type SyncStats struct {
	Created int
	Skipped int
	Failed  int
}

// SeedBills pushes snapshot records into the bills collection with
// bounded concurrency. Existing documents are left untouched so runtime
// vote and view mutations survive re-seeding.
func (s *CommunityStore) SeedBills(ctx context.Context, bills []model.BillDetail, concurrency int) (*SyncStats, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	stats := &SyncStats{}
	var mu sync.Mutex

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for _, bill := range bills {
		eg.Go(func() error {
			_, err := s.client.Collection(s.billsCol).Doc(bill.BillID).Create(gctx, bill)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stats.Created++
			case status.Code(err) == codes.AlreadyExists:
				stats.Skipped++
			default:
				log.Printf("ERROR: Failed to seed bill %s: %v", bill.BillID, err)
				stats.Failed++
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}
