package users

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

// List fetches the whole user directory. Requires a bearer token.
func (c *Client) List(ctx context.Context) ([]bugtrack.User, error) {
	url := fmt.Sprintf("%s/users", c.client.BaseURL())
	req, err := internal.NewRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var users []bugtrack.User
	if err := internal.Call(c.client, req, &users); err != nil {
		return nil, err
	}

	return users, nil
}
