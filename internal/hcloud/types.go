package hcloud

import (
	"fmt"
	"strings"
)

// ServerSpec is the input to server creation. SSHKeyIDs must already be
// resolved to numeric provider IDs.
type ServerSpec struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeyIDs  []int64
}

// Server is a provider-owned server record. IP addresses are nil when the
// provider has not assigned one.
type Server struct {
	ID         int64
	Name       string
	Status     string
	ServerType string
	PublicIPv4 *string
	PublicIPv6 *string
	Location   string
}

// SSHKey is a provider-owned SSH key record.
type SSHKey struct {
	ID   int64
	Name string
}

// CreateResult is the outcome of a server creation. RootPassword is set only
// when the provider generated one (no SSH key was attached).
type CreateResult struct {
	Server       Server
	RootPassword *string
}

// APIError represents a non-success response from the Hetzner Cloud API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hetzner api: %s (status %d)", e.Message, e.StatusCode)
}

// wire types

type publicNetRequest struct {
	EnableIPv4 bool `json:"enable_ipv4"`
	EnableIPv6 bool `json:"enable_ipv6"`
}

type createServerRequest struct {
	Name       string           `json:"name"`
	ServerType string           `json:"server_type"`
	Image      string           `json:"image"`
	Location   string           `json:"location"`
	PublicNet  publicNetRequest `json:"public_net"`
	SSHKeys    []int64          `json:"ssh_keys,omitempty"`
}

type addressJSON struct {
	IP string `json:"ip"`
}

type serverJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ServerType struct {
		Name string `json:"name"`
	} `json:"server_type"`
	PublicNet struct {
		IPv4 *addressJSON `json:"ipv4"`
		IPv6 *addressJSON `json:"ipv6"`
	} `json:"public_net"`
	Datacenter struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	} `json:"datacenter"`
}

func (s *serverJSON) toServer() Server {
	srv := Server{
		ID:         s.ID,
		Name:       s.Name,
		Status:     s.Status,
		ServerType: s.ServerType.Name,
		Location:   s.Datacenter.Location.Name,
	}
	if s.PublicNet.IPv4 != nil && s.PublicNet.IPv4.IP != "" {
		ip := s.PublicNet.IPv4.IP
		srv.PublicIPv4 = &ip
	}
	if s.PublicNet.IPv6 != nil && s.PublicNet.IPv6.IP != "" {
		ip := s.PublicNet.IPv6.IP
		srv.PublicIPv6 = &ip
	}
	return srv
}

type createServerResponse struct {
	Server       serverJSON `json:"server"`
	RootPassword *string    `json:"root_password"`
}

type listServersResponse struct {
	Servers []serverJSON `json:"servers"`
}

type sshKeyJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type listSSHKeysResponse struct {
	SSHKeys []sshKeyJSON `json:"ssh_keys"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newAPIError builds an APIError from a response body, falling back to the
// raw status line and body text when the body carries no structured message.
func newAPIError(statusCode int, body []byte, parsed *errorResponse) *APIError {
	if parsed != nil && parsed.Error.Message != "" {
		return &APIError{StatusCode: statusCode, Message: parsed.Error.Message}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d - %s", statusCode, strings.TrimSpace(string(body))),
	}
}
