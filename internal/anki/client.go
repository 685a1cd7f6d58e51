package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultEndpoint is the address where AnkiConnect listens by default.
const DefaultEndpoint = "http://127.0.0.1:8765"

// Client talks to the AnkiConnect HTTP API. It issues one request per logical
// batch; retries and timeouts are left to the caller's http.Client.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.http = httpClient
	return c
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

func (c *Client) invoke(ctx context.Context, action string, params any, result any) error {
	payload, err := json.Marshal(request{
		Action:  action,
		Version: 6,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to reach Anki: %w", err)
	}
	defer resp.Body.Close()

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("invalid response for action %q: %w", action, err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("action %q failed: %s", action, *decoded.Error)
	}
	if result != nil {
		if err := json.Unmarshal(decoded.Result, result); err != nil {
			return fmt.Errorf("invalid result for action %q: %w", action, err)
		}
	}
	return nil
}

// FindNotes returns the identifiers of every note matching the query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &ids)
	return ids, err
}

// AddNotes submits a batch of new notes and returns the assigned identifiers,
// positionally correlated with the input. A rejected note yields 0.
func (c *Client) AddNotes(ctx context.Context, notes []*Note) ([]int64, error) {
	var raw []*int64
	err := c.invoke(ctx, "addNotes", map[string]any{"notes": notes}, &raw)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(raw))
	for i, id := range raw {
		if id != nil {
			ids[i] = *id
		}
	}
	return ids, nil
}

// UpdateNoteFields overwrites the fields of an existing note.
func (c *Client) UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error {
	params := map[string]any{
		"note": map[string]any{
			"id":     id,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

// DeleteNotes removes the given notes.
func (c *Client) DeleteNotes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return c.invoke(ctx, "deleteNotes", map[string]any{"notes": ids}, nil)
}

// AddTags appends space-separated tags to the given notes.
func (c *Client) AddTags(ctx context.Context, ids []int64, tags string) error {
	if len(ids) == 0 || tags == "" {
		return nil
	}
	params := map[string]any{
		"notes": ids,
		"tags":  tags,
	}
	return c.invoke(ctx, "addTags", params, nil)
}
