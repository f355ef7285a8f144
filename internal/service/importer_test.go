package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/CookiePawn/lawtracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAssembly serves list pages and detail rows for a fixed bill set.
type fakeAssembly struct {
	bills       []map[string]any // list rows, keyed by BILL_ID
	pageSize    int
	total       int             // reported total; 0 = len(bills)
	failDetails map[string]bool // BILL_ID -> respond 500
	listCalls   int
	detailCalls int
}

func (f *fakeAssembly) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + listEndpoint:
			f.listCalls++
			page, _ := strconv.Atoi(r.URL.Query().Get("pIndex"))
			start := (page - 1) * f.pageSize
			if start >= len(f.bills) {
				fmt.Fprint(w, noDataBody)
				return
			}
			end := start + f.pageSize
			if end > len(f.bills) {
				end = len(f.bills)
			}
			total := f.total
			if total == 0 {
				total = len(f.bills)
			}
			fmt.Fprint(w, listEnvelope(listEndpoint, total, f.bills[start:end]))

		case "/" + detailEndpoint:
			f.detailCalls++
			id := r.URL.Query().Get("BILL_ID")
			if f.failDetails[id] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, listEnvelope(detailEndpoint, 1, []map[string]any{
				{"BILL_ID": id, "SUMMARY": "요약 " + id},
			}))

		default:
			http.NotFound(w, r)
		}
	})
}

func row(id string) map[string]any {
	return map[string]any{"BILL_ID": id, "BILL_NAME": "법안 " + id, "PROPOSE_DT": "2024-01-01"}
}

func newTestImporter(t *testing.T, fake *fakeAssembly, pageSize int) (*Importer, *store.SnapshotStore) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := NewAssemblyClient(srv.URL, "test-key")
	snapshots := store.NewSnapshotStore(filepath.Join(t.TempDir(), "bills.json"))
	return NewImporter(client, snapshots, pageSize, 0, 4), snapshots
}

func TestImportPaginatesAndWritesSnapshot(t *testing.T) {
	fake := &fakeAssembly{
		bills:    []map[string]any{row("A"), row("B"), row("C")},
		pageSize: 2,
	}
	importer, snapshots := newTestImporter(t, fake, 2)

	stats, err := importer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.New)
	assert.Equal(t, 3, stats.Details)
	assert.Equal(t, 0, stats.DetailFailed)

	snap, err := snapshots.Load()
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())
	assert.Equal(t, "A", snap.Bills()[0].BillID)
	assert.Equal(t, "요약 A", snap.Bills()[0].Summary)
	assert.Equal(t, "법안 A", snap.Bills()[0].Name)
}

// A second run over the same data fetches no details and adds nothing.
func TestImportSecondRunIsIncremental(t *testing.T) {
	fake := &fakeAssembly{
		bills:    []map[string]any{row("A"), row("B")},
		pageSize: 10,
	}
	importer, snapshots := newTestImporter(t, fake, 10)

	_, err := importer.Run(context.Background())
	require.NoError(t, err)
	detailCallsAfterFirst := fake.detailCalls

	stats, err := importer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.New)
	assert.Equal(t, 2, stats.Known)
	assert.Equal(t, detailCallsAfterFirst, fake.detailCalls)

	snap, err := snapshots.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
}

// A failed detail request drops that bill and the run continues; the
// failure surfaces in the stats, not as an error.
func TestImportDropsFailedDetails(t *testing.T) {
	fake := &fakeAssembly{
		bills:       []map[string]any{row("A"), row("B"), row("C")},
		pageSize:    10,
		failDetails: map[string]bool{"B": true},
	}
	importer, snapshots := newTestImporter(t, fake, 10)

	stats, err := importer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.New)
	assert.Equal(t, 2, stats.Details)
	assert.Equal(t, 1, stats.DetailFailed)

	snap, err := snapshots.Load()
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "A", snap.Bills()[0].BillID)
	assert.Equal(t, "C", snap.Bills()[1].BillID)
}

// A malformed list envelope aborts the run instead of masquerading as
// end-of-data.
func TestImportAbortsOnMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":"shape"}`)
	}))
	defer srv.Close()

	client := NewAssemblyClient(srv.URL, "test-key")
	snapshots := store.NewSnapshotStore(filepath.Join(t.TempDir(), "bills.json"))
	importer := NewImporter(client, snapshots, 10, 0, 4)

	_, err := importer.Run(context.Background())
	assert.ErrorIs(t, err, ErrEnvelope)
}

func TestImportRespectsPageLimit(t *testing.T) {
	fake := &fakeAssembly{
		bills:    []map[string]any{row("A"), row("B"), row("C"), row("D")},
		pageSize: 1,
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := NewAssemblyClient(srv.URL, "test-key")
	snapshots := store.NewSnapshotStore(filepath.Join(t.TempDir(), "bills.json"))
	importer := NewImporter(client, snapshots, 1, 2, 4)

	stats, err := importer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 2, stats.New)
}

// When the reported total overshoots the real data, pagination ends on
// the API's no-data code rather than running forever.
func TestImportStopsOnNoDataCode(t *testing.T) {
	fake := &fakeAssembly{
		bills:    []map[string]any{row("A"), row("B")},
		pageSize: 1,
		total:    99,
	}
	importer, _ := newTestImporter(t, fake, 1)

	stats, err := importer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 3, fake.listCalls)
}
