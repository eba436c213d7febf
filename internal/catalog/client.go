// Package catalog fetches the read-only event catalog from the remote mock
// API and joins it with ledger id sets.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"campus-connect-backend/internal/models"
)

// Client fetches events from the catalog endpoint
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a catalog client for url with the given request timeout
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// upstreamEvent mirrors the API's capitalized field names
type upstreamEvent struct {
	ID          flexibleID `json:"id"`
	Name        string     `json:"Name"`
	Category    string     `json:"Category"`
	Date        string     `json:"Date"`
	Description string     `json:"Description"`
	Location    string     `json:"Location"`
	Organizer   string     `json:"Organizer"`
}

// flexibleID accepts the id as either a JSON string or a JSON number
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// Fetch returns the catalog in API order
func (c *Client) Fetch(ctx context.Context) ([]models.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to fetch events: unexpected status %d", resp.StatusCode)
	}

	var upstream []upstreamEvent
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	events := make([]models.Event, 0, len(upstream))
	for _, item := range upstream {
		events = append(events, models.Event{
			ID:          string(item.ID),
			Name:        item.Name,
			Category:    item.Category,
			Date:        item.Date,
			Description: item.Description,
			Location:    item.Location,
			Organizer:   item.Organizer,
		})
	}
	return events, nil
}
