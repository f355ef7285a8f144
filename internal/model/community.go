package model

import (
	"fmt"
	"time"
)

// Poll option count bounds enforced at post creation.
const (
	MinPollOptions = 2
	MaxPollOptions = 5
)

// Poll is an optional vote attached to a community post. Ballots map a
// user ID to the chosen option index, so one active vote per user holds
// structurally; casting again overwrites the previous choice.
type Poll struct {
	Question string         `json:"question" firestore:"question"`
	Options  []string       `json:"options" firestore:"options"`
	Ballots  map[string]int `json:"ballots" firestore:"ballots"`
}

// Validate checks the option count bounds.
func (p *Poll) Validate() error {
	if n := len(p.Options); n < MinPollOptions || n > MaxPollOptions {
		return fmt.Errorf("poll must have %d-%d options, got %d", MinPollOptions, MaxPollOptions, n)
	}
	return nil
}

// Counts tallies ballots per option index.
func (p *Poll) Counts() []int {
	counts := make([]int, len(p.Options))
	for _, option := range p.Ballots {
		if option >= 0 && option < len(counts) {
			counts[option]++
		}
	}
	return counts
}

// Post is a community forum post stored in Firestore.
type Post struct {
	ID           string    `json:"id" firestore:"id"`
	AuthorID     string    `json:"authorId" firestore:"authorId"`
	Title        string    `json:"title" firestore:"title"`
	Content      string    `json:"content" firestore:"content"`
	LikeCount    int       `json:"likeCount" firestore:"likeCount"`
	CommentCount int       `json:"commentCount" firestore:"commentCount"`
	Poll         *Poll     `json:"poll,omitempty" firestore:"poll,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// Comment is a flat comment under a post.
type Comment struct {
	ID        string    `json:"id" firestore:"id"`
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
