package store

import (
	"sync"

	"github.com/CookiePawn/lawtracker/internal/model"
)

// BillCache is the serving copy of the snapshot: the bill list stays
// immutable after load, while view counters mutate under a lock and feed
// the popularity sort.
type BillCache struct {
	bills []model.BillDetail
	byID  map[string]*model.BillDetail

	mu    sync.RWMutex
	views map[string]int64
}

// NewBillCache materializes a cache from snapshot records.
func NewBillCache(bills []model.BillDetail) *BillCache {
	c := &BillCache{
		bills: bills,
		byID:  make(map[string]*model.BillDetail, len(bills)),
		views: make(map[string]int64),
	}
	for idx := range bills {
		c.byID[bills[idx].BillID] = &bills[idx]
	}
	return c
}

// Bills returns the full record collection in snapshot order.
func (c *BillCache) Bills() []model.BillDetail {
	return c.bills
}

// Get looks up one bill by identifier.
func (c *BillCache) Get(id string) (model.BillDetail, bool) {
	b, ok := c.byID[id]
	if !ok {
		return model.BillDetail{}, false
	}
	return *b, true
}

// RecordView increments and returns the view count for a bill.
func (c *BillCache) RecordView(id string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[id]++
	return c.views[id]
}

// ViewCount returns the view count for a bill, zero when never viewed.
func (c *BillCache) ViewCount(id string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.views[id]
}
