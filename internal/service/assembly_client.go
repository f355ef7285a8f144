package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CookiePawn/lawtracker/internal/model"
)

const (
	listEndpoint   = "nzmimeepazxkubdpn"
	detailEndpoint = "BILLINFODETAIL"
	defaultTimeout = 30 * time.Second
	requestDelay   = 200 * time.Millisecond

	// Result codes reported inside the API envelope.
	codeOK     = "INFO-000"
	codeNoData = "INFO-200"
)

// ErrEnvelope reports a response whose shape does not match the API
// contract. It is distinct from end-of-data so a schema change on the
// server side aborts the run instead of silently ending pagination.
var ErrEnvelope = errors.New("unexpected response envelope")

// ErrNoData is the API's explicit "no rows for this query" signal,
// treated as normal end-of-data by the pagination loop.
var ErrNoData = errors.New("no data for query")

// AssemblyClient talks to the National Assembly OpenAPI.
type AssemblyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAssemblyClient creates a client for the given base URL and API key.
func NewAssemblyClient(baseURL, apiKey string) *AssemblyClient {
	return &AssemblyClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// BillPage is one batch of list rows plus the server-reported total.
type BillPage struct {
	Bills []model.BillSummary
	Total int
}

// FetchBillPage retrieves one page of bill summaries. Pages are 1-based.
// There is no retry: a transport fault on a list page fails the call.
func (c *AssemblyClient) FetchBillPage(ctx context.Context, page, size int) (*BillPage, error) {
	params := url.Values{}
	params.Set("KEY", c.apiKey)
	params.Set("Type", "json")
	params.Set("pIndex", fmt.Sprint(page))
	params.Set("pSize", fmt.Sprint(size))

	body, err := c.get(ctx, listEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill page %d: %w", page, err)
	}

	rows, total, err := parseEnvelope(body, listEndpoint)
	if err != nil {
		return nil, fmt.Errorf("bill page %d: %w", page, err)
	}

	var bills []model.BillSummary
	if err := json.Unmarshal(rows, &bills); err != nil {
		return nil, fmt.Errorf("bill page %d: failed to parse rows: %w", page, err)
	}

	return &BillPage{Bills: bills, Total: total}, nil
}

// FetchBillDetail retrieves the detail record for one bill. The summary
// pre-fills the result so fields the detail endpoint omits keep their
// list values instead of going blank.
func (c *AssemblyClient) FetchBillDetail(ctx context.Context, summary model.BillSummary) (*model.BillDetail, error) {
	params := url.Values{}
	params.Set("KEY", c.apiKey)
	params.Set("Type", "json")
	params.Set("BILL_ID", summary.BillID)

	body, err := c.get(ctx, detailEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detail for %s: %w", summary.BillID, err)
	}

	rows, _, err := parseEnvelope(body, detailEndpoint)
	if err != nil {
		return nil, fmt.Errorf("detail for %s: %w", summary.BillID, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(rows, &raw); err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("detail for %s: empty row set: %w", summary.BillID, ErrEnvelope)
	}

	detail := &model.BillDetail{BillSummary: summary}
	if err := json.Unmarshal(raw[0], detail); err != nil {
		return nil, fmt.Errorf("detail for %s: failed to parse row: %w", summary.BillID, err)
	}

	return detail, nil
}

// Delay returns the pause between consecutive page requests.
func (c *AssemblyClient) Delay() time.Duration {
	return requestDelay
}

func (c *AssemblyClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// apiResult is the status object the API embeds in every envelope.
type apiResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// headEntry is one element of the envelope's head array; each entry
// carries either the total count or the result status.
type headEntry struct {
	ListTotalCount int        `json:"list_total_count"`
	Result         *apiResult `json:"RESULT"`
}

// parseEnvelope extracts the row payload and total count from the API's
// envelope: {"<endpoint>": [{"head": [...]}, {"row": [...]}]}. A bare
// top-level RESULT with the no-data code is end-of-data; any other shape
// mismatch is ErrEnvelope.
func parseEnvelope(body []byte, endpoint string) (json.RawMessage, int, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, 0, fmt.Errorf("%w: not a JSON object", ErrEnvelope)
	}

	if raw, ok := top["RESULT"]; ok {
		var result apiResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, 0, fmt.Errorf("%w: malformed RESULT", ErrEnvelope)
		}
		if result.Code == codeNoData {
			return nil, 0, ErrNoData
		}
		return nil, 0, fmt.Errorf("api error %s: %s", result.Code, result.Message)
	}

	raw, ok := top[endpoint]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing %q key", ErrEnvelope, endpoint)
	}

	var sections []json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil || len(sections) < 2 {
		return nil, 0, fmt.Errorf("%w: %q is not a two-part array", ErrEnvelope, endpoint)
	}

	var head struct {
		Head []headEntry `json:"head"`
	}
	if err := json.Unmarshal(sections[0], &head); err != nil {
		return nil, 0, fmt.Errorf("%w: malformed head section", ErrEnvelope)
	}

	total := 0
	for _, entry := range head.Head {
		if entry.ListTotalCount > 0 {
			total = entry.ListTotalCount
		}
		if entry.Result != nil && entry.Result.Code != codeOK {
			if entry.Result.Code == codeNoData {
				return nil, 0, ErrNoData
			}
			return nil, 0, fmt.Errorf("api error %s: %s", entry.Result.Code, entry.Result.Message)
		}
	}

	var rowSection struct {
		Row json.RawMessage `json:"row"`
	}
	if err := json.Unmarshal(sections[1], &rowSection); err != nil || rowSection.Row == nil {
		return nil, 0, fmt.Errorf("%w: missing row section", ErrEnvelope)
	}

	return rowSection.Row, total, nil
}
