// Package store is the only code path that talks to the remote document
// store. The store is a schemaless REST endpoint: GET reads a whole node,
// PUT replaces a whole node, DELETE clears a slot. There are no
// transactions and no patch semantics, so every update in the system is
// read-whole, mutate, write-whole, and the last write wins across clients.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError reports a non-2xx response from the store. Write paths treat
// it as the signal to roll back optimistic local state.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("store: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) nodeURL(path string) string {
	return c.baseURL + "/" + strings.Trim(path, "/") + "/.json"
}

// Get reads a whole node. A JSON null document comes back as a nil
// RawMessage; callers must treat that as "no data yet", not as empty.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store: read response for %s: %w", path, err)
	}
	if isNull(body) {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("store: GET %s: response is not valid JSON", path)
	}
	return json.RawMessage(body), nil
}

// FetchCollection reads a collection node and normalizes the store's
// quirks: a null document yields a nil slice, an empty document an empty
// one, and array or keyed-map documents yield their values in store order
// with null holes dropped.
func (c *Client) FetchCollection(ctx context.Context, path string) ([]json.RawMessage, error) {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	entries, err := parseEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("store: collection %s: %w", path, err)
	}
	records := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		if isNull(e.value) {
			continue
		}
		records = append(records, e.value)
	}
	return records, nil
}

// Put replaces the whole node at path with value and returns the decoded
// response body. The store echoes the stored document.
func (c *Client) Put(ctx context.Context, path string, value any) (json.RawMessage, error) {
	body, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("store: encode value for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.nodeURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: PUT %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodPut, Path: path, StatusCode: resp.StatusCode}
	}

	echoed, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store: read response for %s: %w", path, err)
	}
	return json.RawMessage(echoed), nil
}

// PutRecord writes a whole record at its slot (slot = id - 1).
func (c *Client) PutRecord(ctx context.Context, collection string, id int, value any) (json.RawMessage, error) {
	return c.Put(ctx, fmt.Sprintf("%s/%d", collection, id-1), value)
}

// PutField writes a single field of a record. field may be a nested path
// such as "tasks/3".
func (c *Client) PutField(ctx context.Context, collection string, id int, field string, value any) (json.RawMessage, error) {
	return c.Put(ctx, fmt.Sprintf("%s/%d/%s", collection, id-1, strings.Trim(field, "/")), value)
}

// Delete clears the slot of the record with the given id (slot = id - 1).
// The slot becomes a null hole; it is never compacted.
func (c *Client) Delete(ctx context.Context, collection string, id int) (json.RawMessage, error) {
	path := fmt.Sprintf("%s/%d", collection, id-1)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.nodeURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: DELETE %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodDelete, Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store: read response for %s: %w", path, err)
	}
	return json.RawMessage(body), nil
}

// AllocateID computes the next id for a new record in the collection: 1
// for an absent collection, otherwise the id of the last element in store
// iteration order plus one. Not max-of-ids: existing data depends on the
// last-element rule. The sequence is client computed and non-atomic: two
// concurrent allocations can produce the same id, and the later PUT
// silently wins the slot.
func (c *Client) AllocateID(ctx context.Context, path string) (int, error) {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 1, nil
	}
	entries, err := parseEntries(raw)
	if err != nil {
		return 0, fmt.Errorf("store: collection %s: %w", path, err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if isNull(entries[i].value) {
			continue
		}
		var record struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(entries[i].value, &record); err != nil {
			return 0, fmt.Errorf("store: collection %s: last record: %w", path, err)
		}
		return record.ID + 1, nil
	}
	return 1, nil
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
