// Package hcloud is a minimal client for the Hetzner Cloud API, covering
// the server lifecycle operations and SSH key lookup used by hcloudctl.
package hcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"hcloudctl/internal/logging"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production Hetzner Cloud API endpoint.
const DefaultBaseURL = "https://api.hetzner.cloud/v1"

// Client talks to the Hetzner Cloud API with a fixed bearer token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a client against the production API.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint. Used by
// tests to point at a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateServer creates a new server with public IPv4 and IPv6 enabled.
// The ssh_keys field is sent only when the spec carries resolved key IDs;
// without keys the provider generates an initial root password.
func (c *Client) CreateServer(ctx context.Context, spec ServerSpec) (*CreateResult, error) {
	reqBody := createServerRequest{
		Name:       spec.Name,
		ServerType: spec.ServerType,
		Image:      spec.Image,
		Location:   spec.Location,
		PublicNet: publicNetRequest{
			EnableIPv4: true,
			EnableIPv6: true,
		},
		SSHKeys: spec.SSHKeyIDs,
	}

	var resp createServerResponse
	if err := c.do(ctx, http.MethodPost, "/servers", &reqBody, &resp, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	return &CreateResult{
		Server:       resp.Server.toServer(),
		RootPassword: resp.RootPassword,
	}, nil
}

// DeleteServer deletes the server with the given numeric ID. Only a 204
// response counts as success.
func (c *Client) DeleteServer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/servers/"+id, nil, nil, http.StatusNoContent)
}

// ListServers returns all servers in the account, in provider order.
func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	var resp listServersResponse
	if err := c.do(ctx, http.MethodGet, "/servers", nil, &resp, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	servers := make([]Server, 0, len(resp.Servers))
	for i := range resp.Servers {
		servers = append(servers, resp.Servers[i].toServer())
	}
	return servers, nil
}

// ListSSHKeys returns all SSH keys registered in the account.
func (c *Client) ListSSHKeys(ctx context.Context) ([]SSHKey, error) {
	var resp listSSHKeysResponse
	if err := c.do(ctx, http.MethodGet, "/ssh_keys", nil, &resp, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	keys := make([]SSHKey, 0, len(resp.SSHKeys))
	for _, k := range resp.SSHKeys {
		keys = append(keys, SSHKey{ID: k.ID, Name: k.Name})
	}
	return keys, nil
}

// do performs one request and decodes the JSON response into out when the
// status is in success. Any other status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, success ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Logger().Debug("api request",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	logging.Logger().Debug("api response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	ok := false
	for _, code := range success {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		var parsed errorResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return newAPIError(resp.StatusCode, respBody, nil)
		}
		return newAPIError(resp.StatusCode, respBody, &parsed)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// FormatID renders a numeric server or key ID the way the API path expects.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
