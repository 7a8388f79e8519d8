// Package remote provides an HTTP client for a hosted PostgREST-style
// transactions table.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finflow/internal/errors"
	"finflow/internal/models"
)

// RecordID accepts both numeric and string identifiers from the hosted table.
type RecordID string

// UnmarshalJSON decodes a JSON string or number into the id.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// Record is one row of the hosted table.
type Record struct {
	ID          RecordID        `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05", "2006-01-02"}

// Transaction converts the row into a ledger transaction.
func (r Record) Transaction() (models.Transaction, error) {
	var (
		date time.Time
		err  error
	)
	for _, layout := range dateLayouts {
		if date, err = time.Parse(layout, r.Date); err == nil {
			break
		}
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("record %s: invalid date %q", r.ID, r.Date)
	}

	tx := models.Transaction{
		Description: r.Description,
		Amount:      r.Amount,
		Type:        models.TransactionType(r.Type),
		Category:    r.Category,
		Date:        date,
	}
	tx.ID = string(r.ID)
	return tx, nil
}

// RecordFromTransaction converts a transaction into a row. The id is left to
// the hosted table.
func RecordFromTransaction(tx models.Transaction) Record {
	return Record{
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        tx.Date.UTC().Format(time.RFC3339Nano),
	}
}

// Client communicates with the hosted table.
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

// NewClient creates a new hosted table client.
func NewClient(baseURL, apiKey, table string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      table,
		httpClient: httpClient,
	}
}

func (c *Client) endpoint(query url.Values) string {
	u := c.baseURL + "/rest/v1/" + url.PathEscape(c.table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a JSON array of records from a 2xx response.
func (c *Client) do(req *http.Request, op string) ([]Record, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}
	return records, nil
}

// Insert stores one transaction and returns it with the id the table assigned.
func (c *Client) Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	body, err := json.Marshal(RecordFromTransaction(tx))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("marshaling record: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(nil), bytes.NewReader(body))
	if err != nil {
		return models.Transaction{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	records, err := c.do(req, "inserting record")
	if err != nil {
		return models.Transaction{}, err
	}
	if len(records) == 0 {
		return models.Transaction{}, fmt.Errorf("inserting record: empty representation")
	}
	return records[0].Transaction()
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	req, err := c.newRequest(ctx, http.MethodDelete, c.endpoint(q), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	records, err := c.do(req, "deleting record")
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// List returns every record, newest first.
func (c *Client) List(ctx context.Context) ([]models.Transaction, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "date.desc")

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return nil, err
	}

	records, err := c.do(req, "listing records")
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		tx, err := r.Transaction()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// Ping checks that the table is reachable.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, "pinging table")
	return err
}
