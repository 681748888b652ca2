// Package vps orchestrates the hcloudctl subcommands: it resolves
// human-friendly inputs to provider IDs, invokes the API client and formats
// results for the console.
package vps

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"hcloudctl/internal/hcloud"
	"hcloudctl/internal/logging"

	"go.uber.org/zap"
)

// API is the subset of the Hetzner Cloud client used by the dispatcher.
// *hcloud.Client satisfies it; tests substitute a fake.
type API interface {
	CreateServer(ctx context.Context, spec hcloud.ServerSpec) (*hcloud.CreateResult, error)
	DeleteServer(ctx context.Context, id string) error
	ListServers(ctx context.Context) ([]hcloud.Server, error)
	ListSSHKeys(ctx context.Context) ([]hcloud.SSHKey, error)
}

// CreateSpec carries the user-level creation parameters. SSHKeyRefs are
// names or numeric IDs, resolved against the account's keys before the
// creation call.
type CreateSpec struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeyRefs []string
}

// Manager runs the subcommand flows against an API client.
type Manager struct {
	api     API
	out     io.Writer
	confirm Confirmer
}

// NewManager creates a dispatcher writing user output to out.
func NewManager(api API, out io.Writer, confirm Confirmer) *Manager {
	return &Manager{api: api, out: out, confirm: confirm}
}

// Create resolves SSH key references, creates the server and prints the
// result. Unresolvable key references are skipped with a warning; they do
// not abort creation. An empty reference list skips resolution entirely and
// lets the provider generate a root password.
func (m *Manager) Create(ctx context.Context, spec CreateSpec) error {
	var keyIDs []int64
	if len(spec.SSHKeyRefs) > 0 {
		keys, err := m.api.ListSSHKeys(ctx)
		if err != nil {
			return fmt.Errorf("failed to list SSH keys: %w", err)
		}

		if len(keys) > 0 {
			fmt.Fprintln(m.out, "Using the following SSH keys:")
		}

		for _, ref := range spec.SSHKeyRefs {
			key, found := matchSSHKey(keys, ref)
			if !found {
				logging.Logger().Warn("ssh key not found", zap.String("ref", ref))
				fmt.Fprintf(m.out, "Warning: SSH key '%s' not found. Skipping.\n", ref)
				continue
			}
			keyIDs = append(keyIDs, key.ID)
			fmt.Fprintf(m.out, "  - %s (ID: %d)\n", key.Name, key.ID)
		}
	}

	fmt.Fprintf(m.out, "\nCreating Hetzner Cloud VPS with the following configuration:\n")
	fmt.Fprintf(m.out, "Server Name: %s\n", spec.Name)
	fmt.Fprintf(m.out, "Server Type: %s\n", spec.ServerType)
	fmt.Fprintf(m.out, "Image: %s\n", spec.Image)
	fmt.Fprintf(m.out, "Location: %s\n", spec.Location)

	result, err := m.api.CreateServer(ctx, hcloud.ServerSpec{
		Name:       spec.Name,
		ServerType: spec.ServerType,
		Image:      spec.Image,
		Location:   spec.Location,
		SSHKeyIDs:  keyIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ipv4 := orFallback(result.Server.PublicIPv4, "Not assigned")
	ipv6 := orFallback(result.Server.PublicIPv6, "Not assigned")
	password := orFallback(result.RootPassword, "Not provided (using SSH key)")

	fmt.Fprintln(m.out, "\nServer created successfully!")
	fmt.Fprintf(m.out, "Server ID: %d\n", result.Server.ID)
	fmt.Fprintf(m.out, "IPv4: %s\n", ipv4)
	fmt.Fprintf(m.out, "IPv6: %s\n", ipv6)
	fmt.Fprintf(m.out, "Root Password: %s\n", password)
	fmt.Fprintln(m.out, "\nYour server is now being provisioned. It may take a few minutes to be fully ready.")
	fmt.Fprintf(m.out, "You can connect to your server using SSH: ssh root@%s\n", ipv4)

	return nil
}

// Delete removes a server by numeric ID or name. Name resolution requires an
// exact match. Without force the user is asked to confirm; a decline is not
// an error and performs no deletion.
func (m *Manager) Delete(ctx context.Context, identifier string, force bool) error {
	id := identifier
	if !isNumericID(identifier) {
		servers, err := m.api.ListServers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list servers: %w", err)
		}

		server, found := matchServerName(servers, identifier)
		if !found {
			return fmt.Errorf("server with name '%s' not found", identifier)
		}
		id = hcloud.FormatID(server.ID)
		fmt.Fprintf(m.out, "Found server '%s' with ID: %s\n", identifier, id)
	}

	if !force {
		ok, err := m.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete server ID %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(m.out, "Deletion cancelled.")
			return nil
		}
	}

	fmt.Fprintf(m.out, "Deleting server ID: %s...\n", id)
	if err := m.api.DeleteServer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}

	fmt.Fprintf(m.out, "Server %s has been deleted.\n", id)
	return nil
}

// List renders all servers as a fixed-width table.
func (m *Manager) List(ctx context.Context) error {
	servers, err := m.api.ListServers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	if len(servers) == 0 {
		fmt.Fprintln(m.out, "No servers found.")
		return nil
	}

	fmt.Fprintf(m.out, "\nFound %d servers:\n\n", len(servers))

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tTYPE\tIPv4\tLOCATION")
	for _, s := range servers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			stringOrNA(s.Name),
			stringOrNA(s.Status),
			stringOrNA(s.ServerType),
			orFallback(s.PublicIPv4, "N/A"),
			stringOrNA(s.Location))
	}
	return w.Flush()
}

// matchSSHKey matches a reference against a key's name or stringified ID.
// Exact, case-sensitive; first match wins.
func matchSSHKey(keys []hcloud.SSHKey, ref string) (hcloud.SSHKey, bool) {
	for _, key := range keys {
		if ref == key.Name || ref == strconv.FormatInt(key.ID, 10) {
			return key, true
		}
	}
	return hcloud.SSHKey{}, false
}

// matchServerName resolves a server by exact name, in provider order.
func matchServerName(servers []hcloud.Server, name string) (hcloud.Server, bool) {
	for _, s := range servers {
		if s.Name == name {
			return s, true
		}
	}
	return hcloud.Server{}, false
}

// isNumericID reports whether s consists solely of ASCII digits.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func orFallback(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func stringOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
