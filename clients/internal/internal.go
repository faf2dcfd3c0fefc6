package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/bobinette/bugtrack/errors"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// NewRequest builds a JSON request. A nil body gives a bodyless
// request.
func NewRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, err
		}
		reader = buf
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req.WithContext(ctx), nil
}

// Call issues the request and decodes the response into v. Error
// bodies carry a human-readable message that is surfaced with the
// status code of the response; transport failures are marked
// unavailable so the stores can tell them apart.
func Call(client HTTPClient, req *http.Request, v interface{}) error {
	res, err := client.Do(req)
	if err != nil {
		return errors.New("could not reach server", errors.Unavailable(), errors.WithCause(err))
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}

	if v == nil {
		io.Copy(ioutil.Discard, res.Body)
		return nil
	}

	return json.NewDecoder(res.Body).Decode(v)
}

func decodeError(res *http.Response) error {
	var callErr struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(res.Body).Decode(&callErr); err != nil || callErr.Message == "" {
		return errors.New(fmt.Sprintf("error in call: %s", res.Status), errors.WithCode(res.StatusCode))
	}

	return errors.New(callErr.Message, errors.WithCode(res.StatusCode))
}
