// ABOUTME: HTTP client for the external chat-listing service
// ABOUTME: Fetches the active and pending queues; absent payloads are empty lists

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/console-state/internal/chat"
)

// Client talks to the chat-listing service. The JSON envelope is a fixed
// contract owned by the service; failures are returned to the caller
// untouched so the polling driver can retry on its own schedule.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a listing client for the service at baseURL. timeout bounds
// each request; zero means no client-side timeout beyond the caller's
// context.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "client"),
	}
}

// ActiveChats fetches the active queue.
func (c *Client) ActiveChats(ctx context.Context) ([]chat.Chat, error) {
	return c.list(ctx, "/active")
}

// PendingChats fetches the pending queue.
func (c *Client) PendingChats(ctx context.Context) ([]chat.Chat, error) {
	return c.list(ctx, "/pending")
}

// list fetches one queue endpoint and unwraps the response envelope.
func (c *Client) list(ctx context.Context, path string) ([]chat.Chat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing service returned %s for %s", resp.Status, path)
	}

	var envelope chat.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}

	// A missing response field means an empty queue.
	if envelope.Response == nil {
		return []chat.Chat{}, nil
	}

	c.logger.Debug("queue fetched", "path", path, "chats", len(envelope.Response))
	return envelope.Response, nil
}
