// Package rest implements the directory ports against the internal
// provisioning gateway, the HTTP facade fronting the corporate directory,
// licensing, and mailbox systems. A circuit breaker short-circuits calls
// while the gateway is misbehaving so a cycle fails fast instead of timing
// out once per identity; after a cooldown the breaker admits trial calls
// again so a recovered gateway puts the client back in service.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"offramp/internal/audittrail"
	"offramp/internal/directory"
	"offramp/pkg/domain"
	"offramp/pkg/platform/circuit"
	"offramp/pkg/platform/sentinel"
)

// Options configure the gateway client.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the provisioning gateway. It implements EligibleSource,
// PhaseCompletion, PhaseAction, AccessReader, and AccessRevoker.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

// New builds a gateway client. BaseURL is required.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("directory gateway base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		httpClient: httpClient,
		breaker:    circuit.New("directory-gateway"),
		logger:     logger,
	}, nil
}

type identityPayload struct {
	PrincipalID   string `json:"principal_id"`
	PrincipalName string `json:"principal_name"`
}

// DisabledInScope lists the disabled identities under the given container.
func (c *Client) DisabledInScope(ctx context.Context, scope string) ([]domain.Identity, error) {
	var resp struct {
		Identities []identityPayload `json:"identities"`
	}
	path := "/v1/identities/disabled?scope=" + url.QueryEscape(scope)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	identities := make([]domain.Identity, 0, len(resp.Identities))
	for _, p := range resp.Identities {
		identities = append(identities, domain.Identity{
			PrincipalID:   parsePrincipalID(p.PrincipalID),
			PrincipalName: domain.PrincipalName(p.PrincipalName),
		})
	}
	return identities, nil
}

// LicenseHolders reports which principals are members of any of the given
// license groups.
func (c *Client) LicenseHolders(ctx context.Context, groups []string) (map[domain.PrincipalName]bool, error) {
	req := struct {
		Groups []string `json:"groups"`
	}{Groups: groups}
	var resp struct {
		Holders []string `json:"holders"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/licenses/holders", req, &resp); err != nil {
		return nil, err
	}
	holders := make(map[domain.PrincipalName]bool, len(resp.Holders))
	for _, h := range resp.Holders {
		holders[domain.PrincipalName(h)] = true
	}
	return holders, nil
}

// ApplyHold places the retention hold. The gateway treats an existing hold
// as success, so the call is idempotent.
func (c *Client) ApplyHold(ctx context.Context, principal domain.PrincipalName, duration time.Duration) error {
	req := struct {
		Principal string `json:"principal"`
		Duration  string `json:"duration"`
	}{Principal: principal.String(), Duration: duration.String()}
	return c.do(ctx, http.MethodPost, "/v1/holds", req, nil)
}

// GroupsOf lists the principal's group memberships.
func (c *Client) GroupsOf(ctx context.Context, principal domain.PrincipalName) ([]directory.Group, error) {
	var resp struct {
		Groups []struct {
			Name         string `json:"name"`
			MailEnabled  bool   `json:"mail_enabled"`
			SecondFactor bool   `json:"second_factor"`
		} `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, c.principalPath(principal, "groups"), nil, &resp); err != nil {
		return nil, err
	}
	groups := make([]directory.Group, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		groups = append(groups, directory.Group{
			Name:         g.Name,
			MailEnabled:  g.MailEnabled,
			SecondFactor: g.SecondFactor,
		})
	}
	return groups, nil
}

// CalendarPermissionsOf lists the shared calendar access the principal holds
// on other mailboxes.
func (c *Client) CalendarPermissionsOf(ctx context.Context, principal domain.PrincipalName) ([]audittrail.CalendarPermission, error) {
	var resp struct {
		Permissions []audittrail.CalendarPermission `json:"permissions"`
	}
	if err := c.do(ctx, http.MethodGet, c.principalPath(principal, "calendar-permissions"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// DisableSignIn blocks interactive sign-in for the principal.
func (c *Client) DisableSignIn(ctx context.Context, principal domain.PrincipalName) error {
	return c.do(ctx, http.MethodPost, c.principalPath(principal, "disable-sign-in"), nil, nil)
}

// ResetCredential replaces the principal's credential.
func (c *Client) ResetCredential(ctx context.Context, principal domain.PrincipalName, secret string) error {
	req := struct {
		Secret string `json:"secret"`
	}{Secret: secret}
	return c.do(ctx, http.MethodPost, c.principalPath(principal, "credential"), req, nil)
}

// RemoveFromGroup drops the principal's membership in the named group.
// Removing a membership that is already gone succeeds.
func (c *Client) RemoveFromGroup(ctx context.Context, principal domain.PrincipalName, group string) error {
	path := c.principalPath(principal, "groups") + "/" + url.PathEscape(group)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RevokeCalendarPermission removes the principal's access to the mailbox's
// calendar.
func (c *Client) RevokeCalendarPermission(ctx context.Context, principal domain.PrincipalName, mailbox string) error {
	path := c.principalPath(principal, "calendar-permissions") + "/" + url.PathEscape(mailbox)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// MoveToQuarantine moves the account into the quarantine container.
func (c *Client) MoveToQuarantine(ctx context.Context, principal domain.PrincipalName) error {
	return c.do(ctx, http.MethodPost, c.principalPath(principal, "quarantine"), nil, nil)
}

func (c *Client) principalPath(principal domain.PrincipalName, suffix string) string {
	return "/v1/identities/" + url.PathEscape(principal.String()) + "/" + suffix
}

// do runs one gateway call through the breaker. 404 maps to ErrNotFound so
// callers can treat an already-gone resource as done; transport failures and
// 5xx responses count against the breaker.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.breaker.IsOpen() {
		return fmt.Errorf("directory gateway: %w", sentinel.ErrUnavailable)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return fmt.Errorf("directory gateway %s %s: %w: %w", method, path, sentinel.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.breaker.RecordSuccess()
		return fmt.Errorf("directory gateway %s %s: %w", method, path, sentinel.ErrNotFound)
	case resp.StatusCode >= 500:
		c.recordFailure(ctx)
		return fmt.Errorf("directory gateway %s %s: status %d: %w", method, path, resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode >= 400:
		c.breaker.RecordSuccess()
		return fmt.Errorf("directory gateway %s %s: status %d", method, path, resp.StatusCode)
	}

	c.recordSuccess(ctx)
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "directory gateway circuit opened",
			"breaker", c.breaker.Name(),
		)
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "directory gateway circuit closed",
			"breaker", c.breaker.Name(),
		)
	}
}

func parsePrincipalID(s string) domain.PrincipalID {
	id, err := domain.ParsePrincipalID(s)
	if err != nil {
		return domain.PrincipalID{}
	}
	return id
}
