package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// gvizEnvelope matches the JSONP-style wrapper of the GViz endpoint.
var gvizEnvelope = regexp.MustCompile(`(?s)google\.visualization\.Query\.setResponse\((.*)\);`)

// Option configures the GViz client.
type Option func(*GVizClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *GVizClient) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GVizClient) {
		c.http = hc
	}
}

// GVizClient reads tables through the public GViz query endpoint of a Google
// spreadsheet. Read-only; the endpoint needs no credentials for documents
// shared by link.
type GVizClient struct {
	documentID string
	baseURL    string
	http       *http.Client
}

// NewGVizClient creates a client for one spreadsheet document.
func NewGVizClient(documentID string, opts ...Option) *GVizClient {
	c := &GVizClient{
		documentID: documentID,
		baseURL:    "https://docs.google.com",
		http:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTable implements TableSource.
func (c *GVizClient) FetchTable(ctx context.Context, sheet, cellRange string) ([][]string, error) {
	if c.documentID == "" {
		return nil, eris.New("sheets: document id is not configured")
	}

	params := url.Values{}
	params.Set("tqx", "out:json")
	params.Set("sheet", sheet)
	if cellRange != "" {
		params.Set("range", cellRange)
	}
	// Cache buster; the endpoint serves stale snapshots otherwise.
	params.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))

	endpoint := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", c.baseURL, c.documentID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: fetch %q", sheet)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sheets: fetch %q: status %d", sheet, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: read %q response", sheet)
	}

	matrix, err := parseGViz(body)
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: parse %q", sheet)
	}
	return PadMatrix(matrix), nil
}

type gvizResponse struct {
	Table struct {
		Cols []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// parseGViz unwraps the setResponse envelope and flattens the table into a
// header row plus data rows.
func parseGViz(raw []byte) ([][]string, error) {
	match := gvizEnvelope.FindSubmatch(raw)
	if match == nil {
		return nil, eris.New("unexpected response envelope")
	}

	var payload gvizResponse
	if err := json.Unmarshal(match[1], &payload); err != nil {
		return nil, eris.Wrap(err, "decode payload")
	}

	header := make([]string, len(payload.Table.Cols))
	for i, col := range payload.Table.Cols {
		if col.Label != "" {
			header[i] = col.Label
		} else {
			header[i] = col.ID
		}
	}

	matrix := make([][]string, 0, len(payload.Table.Rows)+1)
	matrix = append(matrix, header)
	for _, row := range payload.Table.Rows {
		cells := make([]string, len(row.C))
		for i, cell := range row.C {
			if cell == nil {
				continue
			}
			cells[i] = cellString(cell.V)
		}
		matrix = append(matrix, cells)
	}
	return matrix, nil
}

// cellString renders a GViz cell value the way the sheet displays it.
func cellString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
