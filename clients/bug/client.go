package bug

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/clients"
	"github.com/bobinette/bugtrack/clients/internal"
)

// Payload carries the caller-editable fields of a bug.
type Payload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    bugtrack.Priority `json:"priority"`
}

type Client struct {
	client *clients.Client
}

func NewClient(c *clients.Client) *Client {
	return &Client{client: c}
}

func (c *Client) ListByProject(ctx context.Context, projectID string) ([]bugtrack.Bug, error) {
	req, err := internal.NewRequest(ctx, http.MethodGet, c.url(projectID, ""), nil)
	if err != nil {
		return nil, err
	}

	var bugs []bugtrack.Bug
	if err := internal.Call(c.client, req, &bugs); err != nil {
		return nil, err
	}

	return bugs, nil
}

func (c *Client) Create(ctx context.Context, projectID string, payload Payload) (bugtrack.Bug, error) {
	return c.callBug(ctx, http.MethodPost, c.url(projectID, ""), payload)
}

func (c *Client) Update(ctx context.Context, projectID, bugID string, payload Payload) (bugtrack.Bug, error) {
	return c.callBug(ctx, http.MethodPut, c.url(projectID, "/%s", bugID), payload)
}

func (c *Client) Delete(ctx context.Context, projectID, bugID string) error {
	req, err := internal.NewRequest(ctx, http.MethodDelete, c.url(projectID, "/%s", bugID), nil)
	if err != nil {
		return err
	}

	return internal.Call(c.client, req, nil)
}

// Close marks the bug resolved. The remote decides the closing actor
// and timestamp and answers the updated bug.
func (c *Client) Close(ctx context.Context, projectID, bugID string) (bugtrack.Bug, error) {
	return c.callBug(ctx, http.MethodPost, c.url(projectID, "/%s/close", bugID), nil)
}

// Reopen is the counterpart of Close.
func (c *Client) Reopen(ctx context.Context, projectID, bugID string) (bugtrack.Bug, error) {
	return c.callBug(ctx, http.MethodPost, c.url(projectID, "/%s/reopen", bugID), nil)
}

func (c *Client) CreateNote(ctx context.Context, projectID, bugID, body string) (bugtrack.Note, error) {
	return c.callNote(ctx, http.MethodPost, c.url(projectID, "/%s/notes", bugID), body)
}

func (c *Client) UpdateNote(ctx context.Context, projectID, bugID string, noteID int, body string) (bugtrack.Note, error) {
	return c.callNote(ctx, http.MethodPut, c.url(projectID, "/%s/notes/%d", bugID, noteID), body)
}

func (c *Client) DeleteNote(ctx context.Context, projectID, bugID string, noteID int) error {
	req, err := internal.NewRequest(ctx, http.MethodDelete, c.url(projectID, "/%s/notes/%d", bugID, noteID), nil)
	if err != nil {
		return err
	}

	return internal.Call(c.client, req, nil)
}

func (c *Client) callBug(ctx context.Context, method, url string, body interface{}) (bugtrack.Bug, error) {
	req, err := internal.NewRequest(ctx, method, url, body)
	if err != nil {
		return bugtrack.Bug{}, err
	}

	var b bugtrack.Bug
	if err := internal.Call(c.client, req, &b); err != nil {
		return bugtrack.Bug{}, err
	}

	return b, nil
}

func (c *Client) callNote(ctx context.Context, method, url, body string) (bugtrack.Note, error) {
	payload := struct {
		Body string `json:"body"`
	}{Body: body}

	req, err := internal.NewRequest(ctx, method, url, payload)
	if err != nil {
		return bugtrack.Note{}, err
	}

	var n bugtrack.Note
	if err := internal.Call(c.client, req, &n); err != nil {
		return bugtrack.Note{}, err
	}

	return n, nil
}

func (c *Client) url(projectID, format string, args ...interface{}) string {
	return fmt.Sprintf("%s/projects/%s/bugs%s", c.client.BaseURL(), projectID, fmt.Sprintf(format, args...))
}
