// Package backend implements the typed HTTP adapter over the remote event
// service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"calendarsync/internal/domain"
)

// envelope is the {code, data} wrapper every backend response uses.
// code 200 signals success regardless of payload.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

const envelopeOK = 200

type httpSyncClient struct {
	client  *http.Client
	baseURL string
	tokens  domain.TokenSource
	logger  *slog.Logger
}

// NewHTTPSyncClient returns an EventSyncAPI that calls the remote event
// service with bearer authentication. The layer performs no retries and no
// backoff; deadlines come from the caller's context.
func NewHTTPSyncClient(client *http.Client, baseURL string, tokens domain.TokenSource, logger *slog.Logger) domain.EventSyncAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpSyncClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
	}
}

func (c *httpSyncClient) FetchForDate(ctx context.Context, date string) ([]*domain.Event, error) {
	body := struct {
		EventDate string `json:"eventDate"`
	}{EventDate: date}

	data, err := c.do(ctx, "fetch", http.MethodPost, "/event/get-event", body)
	if err != nil {
		return nil, err
	}
	var events []*domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, &domain.SyncError{Op: "fetch", Err: fmt.Errorf("decode events: %w", err)}
	}
	return events, nil
}

func (c *httpSyncClient) Create(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	data, err := c.do(ctx, "create", http.MethodPost, "/event/create-event", draft)
	if err != nil {
		return nil, err
	}
	return decodeEvent("create", data)
}

func (c *httpSyncClient) Update(ctx context.Context, id string, draft domain.EventDraft) (*domain.Event, error) {
	data, err := c.do(ctx, "update", http.MethodPut, "/event/update-event/"+url.PathEscape(id), draft)
	if err != nil {
		return nil, err
	}
	return decodeEvent("update", data)
}

func (c *httpSyncClient) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, "/event/delete-event/"+url.PathEscape(id), nil)
	return err
}

func decodeEvent(op string, data []byte) (*domain.Event, error) {
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, &domain.SyncError{Op: op, Err: fmt.Errorf("decode event: %w", err)}
	}
	return &ev, nil
}

// do performs one request and unwraps the response envelope. It returns the
// raw data payload on success; 404 at either the HTTP or the envelope level
// maps to domain.ErrNotFound, every other failure to *domain.SyncError.
func (c *httpSyncClient) do(ctx context.Context, op, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.SyncError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &domain.SyncError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return nil, &domain.SyncError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.SyncError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s event: %w", op, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.SyncError{Op: op, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SyncError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Delete responses may carry no body; the HTTP status already
		// confirmed success.
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &domain.SyncError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if env.Code == http.StatusNotFound {
		return nil, fmt.Errorf("%s event: %w", op, domain.ErrNotFound)
	}
	if env.Code != envelopeOK {
		return nil, &domain.SyncError{Op: op, Status: resp.StatusCode, Code: env.Code}
	}

	c.logger.Debug("backend call succeeded", "op", op, "path", path)
	return env.Data, nil
}
