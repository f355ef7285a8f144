package service

import (
	"testing"

	"github.com/CookiePawn/lawtracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBills() []model.BillDetail {
	return []model.BillDetail{
		{BillSummary: model.BillSummary{
			BillID: "B1", Name: "2025 예산안", Proposer: "김의원", Committee: "예산결산특별위원회",
			Status: model.StatusCommitteeReview, ProposeDate: "2024-11-01",
		}},
		{BillSummary: model.BillSummary{
			BillID: "B2", Name: "환경법 일부개정법률안", Proposer: "이의원", Committee: "환경노동위원회",
			Status: model.StatusIntroduction, ProposeDate: "2025-01-15",
		}},
		{BillSummary: model.BillSummary{
			BillID: "B3", Name: "도로교통법 개정안", Proposer: "박의원", Committee: "국토교통위원회",
			Status: model.StatusCommitteeReview, ProposeDate: "2024-11-01", PlenaryDate: "2025-03-02",
		}},
	}
}

func ids(bills []model.BillDetail) []string {
	out := make([]string, len(bills))
	for i, b := range bills {
		out[i] = b.BillID
	}
	return out
}

func TestFilterNoCriteriaReturnsAll(t *testing.T) {
	bills := testBills()
	assert.Equal(t, ids(bills), ids(Filter(bills, Criteria{})))
}

func TestFilterQueryMatchesTitle(t *testing.T) {
	got := Filter(testBills(), Criteria{Query: "예산"})
	assert.Equal(t, []string{"B1"}, ids(got))
}

func TestFilterQueryMatchesProposerAndCommittee(t *testing.T) {
	// OR across the three text fields.
	assert.Equal(t, []string{"B2"}, ids(Filter(testBills(), Criteria{Query: "이의원"})))
	assert.Equal(t, []string{"B3"}, ids(Filter(testBills(), Criteria{Query: "국토교통"})))
}

func TestFilterQueryCaseInsensitive(t *testing.T) {
	bills := []model.BillDetail{
		{BillSummary: model.BillSummary{BillID: "B1", Name: "AI Framework Act"}},
	}
	assert.Equal(t, []string{"B1"}, ids(Filter(bills, Criteria{Query: "framework"})))
	assert.Equal(t, []string{"B1"}, ids(Filter(bills, Criteria{Query: "FRAMEWORK"})))
}

func TestFilterDateRangeInclusive(t *testing.T) {
	got := Filter(testBills(), Criteria{From: "2024-11-01", To: "2025-01-15"})
	// B3's primary date is its plenary date (2025-03-02), outside the range.
	assert.Equal(t, []string{"B1", "B2"}, ids(got))
}

func TestFilterExactStatusAndCommittee(t *testing.T) {
	got := Filter(testBills(), Criteria{Status: model.StatusCommitteeReview})
	assert.Equal(t, []string{"B1", "B3"}, ids(got))

	got = Filter(testBills(), Criteria{Committee: "환경노동위원회"})
	assert.Equal(t, []string{"B2"}, ids(got))
}

// A non-matching query excludes a record even when every other criterion
// passes.
func TestFilterQueryOverridesOtherCriteria(t *testing.T) {
	got := Filter(testBills(), Criteria{Query: "없는단어", Status: model.StatusCommitteeReview})
	assert.Empty(t, got)
}

// Filtering with all criteria equals intersecting the individual filters.
func TestFilterConjunction(t *testing.T) {
	bills := testBills()
	criteria := Criteria{Query: "개정", Status: model.StatusCommitteeReview, From: "2024-01-01"}

	combined := ids(Filter(bills, criteria))

	inAll := func(id string) bool {
		for _, single := range []Criteria{
			{Query: criteria.Query},
			{Status: criteria.Status},
			{From: criteria.From},
		} {
			found := false
			for _, got := range ids(Filter(bills, single)) {
				if got == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	for _, b := range bills {
		if inAll(b.BillID) {
			assert.Contains(t, combined, b.BillID)
		} else {
			assert.NotContains(t, combined, b.BillID)
		}
	}
}

func TestSortRecencyDescending(t *testing.T) {
	bills := []model.BillDetail{
		{BillSummary: model.BillSummary{BillID: "old", ProposeDate: "2024-01-01"}},
		{BillSummary: model.BillSummary{BillID: "new", ProposeDate: "2025-01-01"}},
	}

	got := Sort(bills, SortRecency, nil)
	assert.Equal(t, []string{"new", "old"}, ids(got))
}

// Equal dates keep their relative input order.
func TestSortRecencyStable(t *testing.T) {
	bills := []model.BillDetail{
		{BillSummary: model.BillSummary{BillID: "first", ProposeDate: "2024-06-01"}},
		{BillSummary: model.BillSummary{BillID: "second", ProposeDate: "2024-06-01"}},
		{BillSummary: model.BillSummary{BillID: "third", ProposeDate: "2024-06-01"}},
	}

	got := Sort(bills, SortRecency, nil)
	assert.Equal(t, []string{"first", "second", "third"}, ids(got))
}

func TestSortPopularity(t *testing.T) {
	bills := testBills()
	views := map[string]int64{"B2": 10, "B3": 3}
	lookup := func(id string) int64 { return views[id] }

	got := Sort(bills, SortPopularity, lookup)
	// B1 has no entry and counts as zero.
	assert.Equal(t, []string{"B2", "B3", "B1"}, ids(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	bills := []model.BillDetail{
		{BillSummary: model.BillSummary{BillID: "a", ProposeDate: "2024-01-01"}},
		{BillSummary: model.BillSummary{BillID: "b", ProposeDate: "2025-01-01"}},
	}

	_ = Sort(bills, SortRecency, nil)
	require.Equal(t, "a", bills[0].BillID)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPopularity, ParseSortMode("popularity"))
	assert.Equal(t, SortRecency, ParseSortMode("recency"))
	assert.Equal(t, SortRecency, ParseSortMode(""))
	assert.Equal(t, SortRecency, ParseSortMode("bogus"))
}
