package clients

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is the transport shared by the gateway sub-clients. It arms
// every outgoing request with the bearer token of the current
// session. The token is set by the session store on login and cleared
// on logout; requests already issued keep the token they were armed
// with.
type Client struct {
	baseURL string
	client  HTTPClient

	mu             sync.Mutex
	token          string
	onUnauthorized func()
}

func NewClient(c HTTPClient, baseURL string) *Client {
	if c == nil {
		c = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL: baseURL,
		client:  c,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnUnauthorized registers the hook fired when the remote answers
// 401. The session store uses it to drop back to anonymous.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized {
		c.mu.Lock()
		fn := c.onUnauthorized
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}

	return res, nil
}
