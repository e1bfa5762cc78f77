package formadoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the provider backend over plain JSON request/response
// calls: prefill data for both document types, notification email, and
// management of already-generated documents.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// AttestationPrefill is the session data used to prefill an attestation
// batch: the shared field set plus the session's participants.
type AttestationPrefill struct {
	Fields       CommonFields `json:"fields"`
	Participants []Recipient  `json:"participants"`
}

// ConventionPrefill is the session data used to prefill a convention.
type ConventionPrefill struct {
	Convention Convention `json:"convention"`
}

// Notification is an email notification request.
type Notification struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// DocumentRef describes one previously generated document on the backend.
type DocumentRef struct {
	ID             string `json:"id"`
	SessionID      string `json:"sessionId"`
	Category       string `json:"category"` // "attestation" or "convention"
	FileName       string `json:"fileName"`
	DateGeneration string `json:"dateGeneration"`
}

// FetchAttestationPrefill fetches attestation prefill data by session.
func (c *Client) FetchAttestationPrefill(ctx context.Context, sessionID string) (*AttestationPrefill, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySession
	}
	var out AttestationPrefill
	if err := c.getJSON(ctx, "/api/sessions/"+url.PathEscape(sessionID)+"/attestation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchConventionPrefill fetches convention prefill data by session.
func (c *Client) FetchConventionPrefill(ctx context.Context, sessionID string) (*ConventionPrefill, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySession
	}
	var out ConventionPrefill
	if err := c.getJSON(ctx, "/api/sessions/"+url.PathEscape(sessionID)+"/convention", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendNotification sends one notification email through the backend.
func (c *Client) SendNotification(ctx context.Context, n Notification) error {
	return c.postJSON(ctx, "/api/notifications/email", n, nil)
}

// ListDocuments lists generated documents for a session and category.
func (c *Client) ListDocuments(ctx context.Context, sessionID, category string) ([]DocumentRef, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySession
	}
	path := "/api/documents?sessionId=" + url.QueryEscape(sessionID) + "&category=" + url.QueryEscape(category)
	var out []DocumentRef
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocument removes one generated document by identifier and category.
func (c *Client) DeleteDocument(ctx context.Context, id, category string) error {
	path := "/api/documents/" + url.PathEscape(id) + "?category=" + url.QueryEscape(category)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling backend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read keeps error messages useful without trusting the body.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s: %s", ErrBackendStatus, resp.StatusCode, req.URL.Path, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}
