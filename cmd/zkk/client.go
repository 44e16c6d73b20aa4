package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 30 * time.Second

// client is a thin JSON client of the daemon's HTTP interface.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state[rpcServerKey]
	if !ok || len(address) <= 0 {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}
	return newClient(address, state[tokenKey]), nil
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *client) get(path string, query url.Values) (map[string]interface{}, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, body interface{}) (map[string]interface{}, error) {
	if body == nil {
		body = struct{}{}
	}
	return c.do(http.MethodPost, path, body)
}

func (c *client) do(
	method, path string, body interface{},
) (map[string]interface{}, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(c.token) > 0 {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := make(map[string]interface{})
	if len(buf) > 0 {
		if err := json.Unmarshal(buf, &res); err != nil {
			return nil, fmt.Errorf(
				"unexpected response from daemon (%d): %s", resp.StatusCode, buf,
			)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg, ok := res["error"].(string); ok {
			return nil, fmt.Errorf("%s (%d)", msg, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return res, nil
}
