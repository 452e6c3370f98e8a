// Package slotsclient talks to the availability endpoint of a running
// booking server.
package slotsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/interval"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NetworkError means the server could not be reached or answered with
// something that is not a slots response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a well-formed failure reported by the server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.StatusCode)
	}
	return "server error: " + e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch returns the availability windows for date. A fully booked date
// yields an empty slice and no error.
func (c *Client) Fetch(ctx context.Context, date time.Time, excludeID int64) ([]interval.Slot, error) {
	u := c.baseURL + "/booking/slots/" + date.Format(interval.DateLayout) + "/"
	if excludeID > 0 {
		u += "?" + url.Values{"exclude": {strconv.FormatInt(excludeID, 10)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var body availability.SlotsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	if decodeErr != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode slots response: %w", decodeErr)}
	}
	if !body.Success {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	if body.Slots == nil {
		body.Slots = []interval.Slot{}
	}
	return body.Slots, nil
}
