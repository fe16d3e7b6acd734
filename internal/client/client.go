// Package client is the Go consumer of the sales API: a thin REST wrapper,
// a websocket subscription, and a local cache kept live by channel events.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/salestream/server/internal/realtime"
	"github.com/salestream/server/internal/sale"
)

// Client talks to one sales server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func New(rawURL string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}

	return &Client{baseURL: u, http: http.DefaultClient}, nil
}

// ListResult is one page of sales as served by the list endpoint.
type ListResult struct {
	TotalItems  int64        `json:"totalItems"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Sales       []*sale.Sale `json:"sales"`
}

// ListSales fetches one page. Zero page or limit defers to the server
// defaults.
func (c *Client) ListSales(ctx context.Context, page, limit int) (*ListResult, error) {
	path := "/api/sales"

	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ListResult
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateSale submits a new sale and returns the persisted record with its
// server-computed totals.
func (c *Client) CreateSale(ctx context.Context, in sale.CreateInput) (*sale.Sale, error) {
	var out sale.Sale
	if err := c.do(ctx, http.MethodPost, "/api/sales", in, http.StatusCreated, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateSale patches the given sale with the supplied fields.
func (c *Client) UpdateSale(ctx context.Context, id int64, in sale.UpdateInput) (*sale.Sale, error) {
	var out sale.Sale
	if err := c.do(ctx, http.MethodPut, salePath(id), in, http.StatusOK, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateStatus changes only the payment status of the given sale.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status sale.PaymentStatus) (*sale.Sale, error) {
	body := struct {
		PaymentStatus sale.PaymentStatus `json:"paymentStatus"`
	}{PaymentStatus: status}

	var out sale.Sale
	if err := c.do(ctx, http.MethodPatch, salePath(id)+"/status", body, http.StatusOK, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteSale removes the given sale.
func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, salePath(id), nil, http.StatusOK, nil)
}

func salePath(id int64) string {
	return "/api/sales/" + strconv.FormatInt(id, 10)
}

type apiError struct {
	Message string            `json:"error"`
	Fields  []sale.FieldError `json:"fields,omitempty"`
}

func (e *apiError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	msg := e.Message
	for _, f := range e.Fields {
		msg += "; " + f.Field + ": " + f.Message
	}

	return msg
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var buf io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}

		return fmt.Errorf("%s %s: %w", method, path, &apiErr)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Subscribe connects to the event channel and streams envelopes until ctx is
// cancelled or the connection drops, after which the returned channel is
// closed. Malformed frames are logged and skipped.
func (c *Client) Subscribe(ctx context.Context) (<-chan realtime.Envelope, error) {
	wsURL := *c.baseURL

	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", wsURL.String(), err)
	}

	events := make(chan realtime.Envelope)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("event channel closed", "error", err)
				}

				return
			}

			var env realtime.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				slog.Warn("skipping malformed event", "error", err)
				continue
			}

			select {
			case events <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
