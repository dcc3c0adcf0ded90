package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// HTTPFlowStore is a FlowStore that talks to the execution engine's REST
// document store:
//
//	GET {base}/tasks/{id}/flow => 200 with wire-format JSON, or 404
//	PUT {base}/tasks/{id}/flow => 2xx on success
type HTTPFlowStore struct {
	base   string
	client *http.Client
}

var _ FlowStore = (*HTTPFlowStore)(nil)

// NewHTTPFlowStore creates an HTTPFlowStore for the given base URL.
// If client is nil, http.DefaultClient is used; callers wanting timeouts or
// retries supply their own client.
func NewHTTPFlowStore(base string, client *http.Client) *HTTPFlowStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFlowStore{
		base:   strings.TrimRight(base, "/"),
		client: client,
	}
}

func (s *HTTPFlowStore) flowURL(taskID string) string {
	return s.base + "/tasks/" + url.PathEscape(taskID) + "/flow"
}

func (s *HTTPFlowStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.flowURL(taskID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrFlowNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get flow %s: unexpected status %s", taskID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return DecodeFlow(body)
}

func (s *HTTPFlowStore) PutFlow(ctx context.Context, f *api.Flow) error {
	data, err := EncodeFlow(f)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.flowURL(f.ID), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put flow %s: unexpected status %s", f.ID, resp.Status)
	}
	return nil
}
