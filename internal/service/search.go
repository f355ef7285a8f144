package service

import (
	"sort"
	"strings"

	"github.com/CookiePawn/lawtracker/internal/model"
)

// Criteria holds the active filter predicates. Zero values deactivate a
// predicate; active predicates combine with AND.
type Criteria struct {
	Query     string // case-insensitive substring over title/proposer/committee
	From      string // inclusive lower bound on the primary date (YYYY-MM-DD)
	To        string // inclusive upper bound on the primary date
	Committee string // exact match
	Status    string // exact match
}

// Filter returns the bills satisfying every active criterion. With no
// active criteria the full collection comes back unchanged.
func Filter(bills []model.BillDetail, c Criteria) []model.BillDetail {
	out := make([]model.BillDetail, 0, len(bills))
	for _, b := range bills {
		if matches(&b, &c) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b *model.BillDetail, c *Criteria) bool {
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(b.Name), q) &&
			!strings.Contains(strings.ToLower(b.Proposer), q) &&
			!strings.Contains(strings.ToLower(b.Committee), q) {
			return false
		}
	}

	if c.From != "" || c.To != "" {
		date := b.PrimaryDate()
		if c.From != "" && date < c.From {
			return false
		}
		if c.To != "" && date > c.To {
			return false
		}
	}

	if c.Committee != "" && b.Committee != c.Committee {
		return false
	}
	if c.Status != "" && b.Status != c.Status {
		return false
	}
	return true
}

// SortMode selects the ordering applied after filtering.
type SortMode string

const (
	SortRecency    SortMode = "recency"
	SortPopularity SortMode = "popularity"
)

// ParseSortMode maps a query-param value to a SortMode, defaulting to
// recency for anything unrecognized.
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortPopularity {
		return SortPopularity
	}
	return SortRecency
}

// Sort returns a new ordering of the bills. Recency orders by primary
// date descending; popularity orders by the supplied view-count lookup
// descending, treating missing entries (or a nil lookup) as zero. Both
// orderings are stable.
func Sort(bills []model.BillDetail, mode SortMode, views func(string) int64) []model.BillDetail {
	out := make([]model.BillDetail, len(bills))
	copy(out, bills)

	switch mode {
	case SortPopularity:
		count := func(b *model.BillDetail) int64 {
			if views == nil {
				return 0
			}
			return views(b.BillID)
		}
		sort.SliceStable(out, func(a, b int) bool {
			return count(&out[a]) > count(&out[b])
		})
	default:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].PrimaryDate() > out[b].PrimaryDate()
		})
	}
	return out
}
