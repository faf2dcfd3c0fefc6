package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/clients"
	"github.com/bobinette/bugtrack/clients/internal"
)

// Response is what the remote answers on successful login or signup.
type Response struct {
	Token string        `json:"token"`
	User  bugtrack.User `json:"user"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Client struct {
	client *clients.Client
}

func NewClient(c *clients.Client) *Client {
	return &Client{client: c}
}

func (c *Client) Login(ctx context.Context, username, password string) (Response, error) {
	return c.post(ctx, "login", username, password)
}

func (c *Client) Signup(ctx context.Context, username, password string) (Response, error) {
	return c.post(ctx, "signup", username, password)
}

func (c *Client) post(ctx context.Context, endpoint, username, password string) (Response, error) {
	url := fmt.Sprintf("%s/%s", c.client.BaseURL(), endpoint)
	req, err := internal.NewRequest(ctx, http.MethodPost, url, credentials{Username: username, Password: password})
	if err != nil {
		return Response{}, err
	}

	var res Response
	if err := internal.Call(c.client, req, &res); err != nil {
		return Response{}, err
	}

	return res, nil
}
