package project

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/clients"
	"github.com/bobinette/bugtrack/clients/internal"
)

type Client struct {
	client *clients.Client
}

func NewClient(c *clients.Client) *Client {
	return &Client{client: c}
}

func (c *Client) List(ctx context.Context) ([]bugtrack.Project, error) {
	req, err := internal.NewRequest(ctx, http.MethodGet, c.url(""), nil)
	if err != nil {
		return nil, err
	}

	var projects []bugtrack.Project
	if err := internal.Call(c.client, req, &projects); err != nil {
		return nil, err
	}

	return projects, nil
}

func (c *Client) Get(ctx context.Context, projectID string) (bugtrack.Project, error) {
	req, err := internal.NewRequest(ctx, http.MethodGet, c.url("/%s", projectID), nil)
	if err != nil {
		return bugtrack.Project{}, err
	}

	var project bugtrack.Project
	if err := internal.Call(c.client, req, &project); err != nil {
		return bugtrack.Project{}, err
	}

	return project, nil
}

func (c *Client) Create(ctx context.Context, name string, memberIDs []string) (bugtrack.Project, error) {
	body := struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}{Name: name, Members: memberIDs}

	req, err := internal.NewRequest(ctx, http.MethodPost, c.url(""), body)
	if err != nil {
		return bugtrack.Project{}, err
	}

	var project bugtrack.Project
	if err := internal.Call(c.client, req, &project); err != nil {
		return bugtrack.Project{}, err
	}

	return project, nil
}

// Rename patches the name of the project. The remote answers the
// updated project.
func (c *Client) Rename(ctx context.Context, projectID, name string) (bugtrack.Project, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	req, err := internal.NewRequest(ctx, http.MethodPut, c.url("/%s", projectID), body)
	if err != nil {
		return bugtrack.Project{}, err
	}

	var project bugtrack.Project
	if err := internal.Call(c.client, req, &project); err != nil {
		return bugtrack.Project{}, err
	}

	return project, nil
}

// AddMembers answers only the member entries that were created.
func (c *Client) AddMembers(ctx context.Context, projectID string, memberIDs []string) ([]bugtrack.ProjectMember, error) {
	body := struct {
		Members []string `json:"members"`
	}{Members: memberIDs}

	req, err := internal.NewRequest(ctx, http.MethodPost, c.url("/%s/members", projectID), body)
	if err != nil {
		return nil, err
	}

	var members []bugtrack.ProjectMember
	if err := internal.Call(c.client, req, &members); err != nil {
		return nil, err
	}

	return members, nil
}

func (c *Client) RemoveMember(ctx context.Context, projectID, memberID string) error {
	req, err := internal.NewRequest(ctx, http.MethodDelete, c.url("/%s/members/%s", projectID, memberID), nil)
	if err != nil {
		return err
	}

	return internal.Call(c.client, req, nil)
}

func (c *Client) Leave(ctx context.Context, projectID string) error {
	req, err := internal.NewRequest(ctx, http.MethodPost, c.url("/%s/members/leave", projectID), nil)
	if err != nil {
		return err
	}

	return internal.Call(c.client, req, nil)
}

func (c *Client) Delete(ctx context.Context, projectID string) error {
	req, err := internal.NewRequest(ctx, http.MethodDelete, c.url("/%s", projectID), nil)
	if err != nil {
		return err
	}

	return internal.Call(c.client, req, nil)
}

func (c *Client) url(format string, args ...interface{}) string {
	return fmt.Sprintf("%s/projects%s", c.client.BaseURL(), fmt.Sprintf(format, args...))
}
