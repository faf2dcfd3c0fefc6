package clients

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	var (
		mu     sync.Mutex
		header string
		status = http.StatusOK
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		header = r.Header.Get("Authorization")
		code := status
		mu.Unlock()
		w.WriteHeader(code)
	}))
	defer server.Close()

	client := NewClient(nil, server.URL)

	fired := 0
	client.OnUnauthorized(func() { fired++ })

	call := func() {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		res, err := client.Do(req)
		require.NoError(t, err)
		res.Body.Close()
	}

	// No token yet: the request goes out bare.
	call()
	assert.Equal(t, "", header)
	assert.Equal(t, 0, fired)

	client.SetToken("some-token")
	call()
	assert.Equal(t, "Bearer some-token", header)
	assert.Equal(t, 0, fired)

	// A 401 fires the hook.
	mu.Lock()
	status = http.StatusUnauthorized
	mu.Unlock()
	call()
	assert.Equal(t, 1, fired)

	client.ClearToken()
	mu.Lock()
	status = http.StatusOK
	mu.Unlock()
	call()
	assert.Equal(t, "", header)
}
