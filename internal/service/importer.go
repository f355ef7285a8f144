package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/CookiePawn/lawtracker/internal/model"
	"github.com/CookiePawn/lawtracker/internal/store"
	"golang.org/x/sync/errgroup"
)

// ImportStats tracks one ingestion run.
type ImportStats struct {
	Pages        int // list pages fetched
	Fetched      int // summary rows seen
	Known        int // rows already in the snapshot
	New          int // rows not seen before
	Details      int // detail records fetched and appended
	DetailFailed int // detail requests dropped after a fault
	Total        int // server-reported total row count
}

// Importer runs the ingestion pipeline: page through the list endpoint,
// merge unseen identifiers against the snapshot, fetch their details, and
// write the snapshot back once at the end.
type Importer struct {
	client      *AssemblyClient
	snapshots   *store.SnapshotStore
	pageSize    int
	maxPages    int // 0 = no limit
	concurrency int
	logger      *log.Logger
	errLogger   *log.Logger
}

// NewImporter creates an Importer. concurrency bounds the detail fan-out.
func NewImporter(client *AssemblyClient, snapshots *store.SnapshotStore, pageSize, maxPages, concurrency int) *Importer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Importer{
		client:      client,
		snapshots:   snapshots,
		pageSize:    pageSize,
		maxPages:    maxPages,
		concurrency: concurrency,
		logger:      log.New(os.Stdout, "", log.LstdFlags),
		errLogger:   log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Run executes one ingestion run. List-page faults and snapshot write
// faults are fatal; individual detail faults are logged and dropped.
func (i *Importer) Run(ctx context.Context) (*ImportStats, error) {
	stats := &ImportStats{}

	i.logger.Printf("Loading snapshot from %s...", i.snapshots.Path())
	snap, err := i.snapshots.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	i.logger.Printf("Snapshot holds %d bills", snap.Len())

	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if i.maxPages > 0 && page > i.maxPages {
			i.logger.Printf("Reached page limit (%d), stopping", i.maxPages)
			break
		}

		billPage, err := i.client.FetchBillPage(ctx, page, i.pageSize)
		if errors.Is(err, ErrNoData) {
			i.logger.Printf("Page %d: no more data", page)
			break
		}
		if err != nil {
			return stats, err
		}

		stats.Pages++
		stats.Fetched += len(billPage.Bills)
		if billPage.Total > 0 {
			stats.Total = billPage.Total
		}

		if len(billPage.Bills) == 0 {
			i.logger.Printf("Page %d: empty batch, stopping", page)
			break
		}

		fresh := snap.MergeNew(billPage.Bills)
		stats.Known += len(billPage.Bills) - len(fresh)
		stats.New += len(fresh)
		i.logger.Printf("Page %d: %d rows, %d new", page, len(billPage.Bills), len(fresh))

		if len(fresh) > 0 {
			details := i.fetchDetails(ctx, fresh, stats)
			snap.Append(details...)
		}

		if stats.Total > 0 && stats.Fetched >= stats.Total {
			i.logger.Printf("Fetched all %d rows", stats.Total)
			break
		}

		time.Sleep(i.client.Delay())
	}

	i.logger.Printf("Writing snapshot (%d bills) to %s...", snap.Len(), i.snapshots.Path())
	if err := i.snapshots.Write(snap); err != nil {
		return stats, err
	}

	return stats, nil
}

// fetchDetails fans out detail requests for freshly discovered bills,
// bounded by the configured concurrency. A failed request drops that bill
// from this run; results keep the discovery order regardless of response
// order.
func (i *Importer) fetchDetails(ctx context.Context, fresh []model.BillSummary, stats *ImportStats) []model.BillDetail {
	results := make([]*model.BillDetail, len(fresh))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(i.concurrency)
	for idx, summary := range fresh {
		eg.Go(func() error {
			detail, err := i.client.FetchBillDetail(gctx, summary)
			if err != nil {
				i.errLogger.Printf("Dropping bill %s: %v", summary.BillID, err)
				return nil
			}
			results[idx] = detail
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = eg.Wait()

	details := make([]model.BillDetail, 0, len(fresh))
	for _, d := range results {
		if d == nil {
			stats.DetailFailed++
			continue
		}
		stats.Details++
		details = append(details, *d)
	}
	return details
}

// PrintSummary prints the run statistics.
func (i *Importer) PrintSummary(stats *ImportStats) {
	i.logger.Println("")
	i.logger.Println("=== Import Summary ===")
	i.logger.Printf("Pages fetched:   %d", stats.Pages)
	i.logger.Printf("Rows seen:       %d (server total: %d)", stats.Fetched, stats.Total)
	i.logger.Printf("Already known:   %d", stats.Known)
	i.logger.Printf("New bills:       %d", stats.New)
	i.logger.Printf("Details stored:  %d", stats.Details)
	i.logger.Printf("Details failed:  %d", stats.DetailFailed)
}
