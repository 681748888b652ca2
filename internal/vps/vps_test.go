package vps

import (
	"bytes"
	"context"
	"net/http"

	"hcloudctl/internal/hcloud"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeAPI records calls and serves canned responses
type fakeAPI struct {
	servers []hcloud.Server
	keys    []hcloud.SSHKey

	createResult *hcloud.CreateResult
	createErr    error
	deleteErr    error
	listErr      error
	keysErr      error

	createCalls []hcloud.ServerSpec
	deleteCalls []string
	listCalls   int
	keyCalls    int
}

func (f *fakeAPI) CreateServer(ctx context.Context, spec hcloud.ServerSpec) (*hcloud.CreateResult, error) {
	f.createCalls = append(f.createCalls, spec)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &hcloud.CreateResult{Server: hcloud.Server{ID: 42, Name: spec.Name}}, nil
}

func (f *fakeAPI) DeleteServer(ctx context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeAPI) ListServers(ctx context.Context) ([]hcloud.Server, error) {
	f.listCalls++
	return f.servers, f.listErr
}

func (f *fakeAPI) ListSSHKeys(ctx context.Context) ([]hcloud.SSHKey, error) {
	f.keyCalls++
	return f.keys, f.keysErr
}

// scriptedConfirmer answers every prompt with a fixed decision
type scriptedConfirmer struct {
	answer  bool
	prompts []string
}

func (s *scriptedConfirmer) Confirm(prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, nil
}

func strptr(s string) *string { return &s }

var _ = Describe("Manager", func() {
	var (
		api     *fakeAPI
		out     *bytes.Buffer
		confirm *scriptedConfirmer
		m       *Manager
		ctx     context.Context
	)

	BeforeEach(func() {
		api = &fakeAPI{}
		out = &bytes.Buffer{}
		confirm = &scriptedConfirmer{answer: true}
		m = NewManager(api, out, confirm)
		ctx = context.Background()
	})

	Describe("Create", func() {
		BeforeEach(func() {
			api.keys = []hcloud.SSHKey{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
		})

		It("resolves key references by name or stringified ID and skips unknown ones", func() {
			err := m.Create(ctx, CreateSpec{
				Name:       "isaac",
				ServerType: "cax41",
				Image:      "ubuntu-24.04",
				Location:   "nbg1",
				SSHKeyRefs: []string{"a", "3"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(api.createCalls).To(HaveLen(1))
			Expect(api.createCalls[0].SSHKeyIDs).To(Equal([]int64{1}))
			Expect(out.String()).To(ContainSubstring("Warning: SSH key '3' not found. Skipping."))
			Expect(out.String()).To(ContainSubstring("  - a (ID: 1)"))
		})

		It("matches numeric references against key IDs", func() {
			err := m.Create(ctx, CreateSpec{Name: "isaac", SSHKeyRefs: []string{"2"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(api.createCalls[0].SSHKeyIDs).To(Equal([]int64{2}))
		})

		It("skips key resolution entirely for an empty reference list", func() {
			err := m.Create(ctx, CreateSpec{Name: "isaac", ServerType: "cax41"})
			Expect(err).NotTo(HaveOccurred())

			Expect(api.keyCalls).To(BeZero())
			Expect(api.createCalls[0].SSHKeyIDs).To(BeNil())
		})

		It("prints IPs and the generated root password", func() {
			api.createResult = &hcloud.CreateResult{
				Server: hcloud.Server{
					ID:         42,
					PublicIPv4: strptr("203.0.113.5"),
					PublicIPv6: strptr("2001:db8::1"),
				},
				RootPassword: strptr("s3cr3t"),
			}

			err := m.Create(ctx, CreateSpec{Name: "isaac"})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.String()).To(ContainSubstring("Server ID: 42"))
			Expect(out.String()).To(ContainSubstring("IPv4: 203.0.113.5"))
			Expect(out.String()).To(ContainSubstring("IPv6: 2001:db8::1"))
			Expect(out.String()).To(ContainSubstring("Root Password: s3cr3t"))
			Expect(out.String()).To(ContainSubstring("ssh root@203.0.113.5"))
		})

		It("falls back to placeholders for missing IPs and password", func() {
			api.createResult = &hcloud.CreateResult{Server: hcloud.Server{ID: 42}}

			err := m.Create(ctx, CreateSpec{Name: "isaac"})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.String()).To(ContainSubstring("IPv4: Not assigned"))
			Expect(out.String()).To(ContainSubstring("IPv6: Not assigned"))
			Expect(out.String()).To(ContainSubstring("Root Password: Not provided (using SSH key)"))
		})

		It("propagates creation failures", func() {
			api.createErr = &hcloud.APIError{StatusCode: 422, Message: "invalid server type"}

			err := m.Create(ctx, CreateSpec{Name: "isaac"})
			Expect(err).To(MatchError(ContainSubstring("invalid server type")))
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			api.servers = []hcloud.Server{{ID: 123, Name: "isaac"}}
		})

		It("short-circuits the lookup for a numeric identifier", func() {
			err := m.Delete(ctx, "456", false)
			Expect(err).NotTo(HaveOccurred())

			Expect(api.listCalls).To(BeZero())
			Expect(api.deleteCalls).To(Equal([]string{"456"}))
		})

		It("resolves a name to its numeric ID", func() {
			err := m.Delete(ctx, "isaac", false)
			Expect(err).NotTo(HaveOccurred())

			Expect(api.deleteCalls).To(Equal([]string{"123"}))
			Expect(out.String()).To(ContainSubstring("Found server 'isaac' with ID: 123"))
			Expect(out.String()).To(ContainSubstring("Server 123 has been deleted."))
		})

		It("fails when the name does not resolve", func() {
			err := m.Delete(ctx, "ghost", false)
			Expect(err).To(MatchError(ContainSubstring("'ghost' not found")))
			Expect(api.deleteCalls).To(BeEmpty())
		})

		It("performs no deletion when the user declines", func() {
			confirm.answer = false

			err := m.Delete(ctx, "456", false)
			Expect(err).NotTo(HaveOccurred())

			Expect(api.deleteCalls).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("Deletion cancelled."))
		})

		It("skips the prompt with force", func() {
			err := m.Delete(ctx, "456", true)
			Expect(err).NotTo(HaveOccurred())

			Expect(confirm.prompts).To(BeEmpty())
			Expect(api.deleteCalls).To(Equal([]string{"456"}))
		})

		It("surfaces a 404 from the API without claiming success", func() {
			api.deleteErr = &hcloud.APIError{StatusCode: http.StatusNotFound, Message: "server not found"}

			err := m.Delete(ctx, "456", true)
			Expect(err).To(MatchError(ContainSubstring("server not found")))
			Expect(out.String()).NotTo(ContainSubstring("has been deleted"))
		})
	})

	Describe("List", func() {
		It("prints a notice for an empty account", func() {
			err := m.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("No servers found."))
		})

		It("renders one row per server with N/A for missing fields", func() {
			api.servers = []hcloud.Server{
				{
					ID:         123,
					Name:       "isaac",
					Status:     "running",
					ServerType: "cax41",
					PublicIPv4: strptr("203.0.113.5"),
					Location:   "nbg1",
				},
				{ID: 456, Name: "backup"},
			}

			err := m.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(out.String()).To(ContainSubstring("Found 2 servers:"))
			Expect(out.String()).To(MatchRegexp(`ID\s+NAME\s+STATUS\s+TYPE\s+IPv4\s+LOCATION`))
			Expect(out.String()).To(MatchRegexp(`123\s+isaac\s+running\s+cax41\s+203\.0\.113\.5\s+nbg1`))
			Expect(out.String()).To(MatchRegexp(`456\s+backup\s+N/A\s+N/A\s+N/A\s+N/A`))
		})

		It("propagates list failures", func() {
			api.listErr = &hcloud.APIError{StatusCode: 401, Message: "unable to authenticate"}

			err := m.List(ctx)
			Expect(err).To(MatchError(ContainSubstring("unable to authenticate")))
		})
	})
})

var _ = Describe("PromptConfirmer", func() {
	confirms := func(input string) bool {
		out := &bytes.Buffer{}
		c := NewPromptConfirmer(bytes.NewBufferString(input), out)
		ok, err := c.Confirm("Are you sure?")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("Are you sure? [y/N]: "))
		return ok
	}

	It("accepts y and yes case-insensitively", func() {
		Expect(confirms("y\n")).To(BeTrue())
		Expect(confirms("yes\n")).To(BeTrue())
		Expect(confirms("YES\n")).To(BeTrue())
		Expect(confirms("Y\n")).To(BeTrue())
	})

	It("declines anything else", func() {
		Expect(confirms("n\n")).To(BeFalse())
		Expect(confirms("no\n")).To(BeFalse())
		Expect(confirms("\n")).To(BeFalse())
		Expect(confirms("")).To(BeFalse())
	})
})
