package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

const personURNPrefix = "urn:li:person:"

// memberPayload covers the identity fields of /rest/me, /v2/userinfo and
// /v2/me.
type memberPayload struct {
	Sub                string `json:"sub"`
	ID                 string `json:"id"`
	Name               string `json:"name"`
	GivenName          string `json:"given_name"`
	FamilyName         string `json:"family_name"`
	Email              string `json:"email"`
	EmailVerified      *bool  `json:"email_verified"`
	Picture            string `json:"picture"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
}

func (m *memberPayload) memberID() string {
	if m.Sub != "" {
		return m.Sub
	}
	return m.ID
}

func (m *memberPayload) displayName() string {
	if m.Name != "" {
		return m.Name
	}
	first, last := m.firstName(), m.lastName()
	return strings.TrimSpace(first + " " + last)
}

func (m *memberPayload) firstName() string {
	if m.GivenName != "" {
		return m.GivenName
	}
	return m.LocalizedFirstName
}

func (m *memberPayload) lastName() string {
	if m.FamilyName != "" {
		return m.FamilyName
	}
	return m.LocalizedLastName
}

// PersonURN turns a member id into urn:li:person:<id>. Values that already
// are URNs are returned unchanged.
func PersonURN(id string) string {
	if strings.HasPrefix(id, "urn:li:") {
		return id
	}
	return personURNPrefix + id
}

func decodeMember(resp *response) (*memberPayload, error) {
	var m memberPayload
	if err := resp.decode(&m); err != nil {
		return nil, err
	}
	if m.memberID() == "" {
		return nil, errors.New("response carries no member id")
	}
	return &m, nil
}

func identityFrom(resp *response) (MemberIdentity, error) {
	m, err := decodeMember(resp)
	if err != nil {
		return MemberIdentity{}, err
	}
	id := m.memberID()
	return MemberIdentity{
		URN:   PersonURN(id),
		Sub:   strings.TrimPrefix(id, personURNPrefix),
		Name:  m.displayName(),
		Email: m.Email,
	}, nil
}

func (c *Client) identityChain() chain[MemberIdentity] {
	return chain[MemberIdentity]{
		operation: "resolve identity",
		candidates: []candidate[MemberIdentity]{
			{
				name:   "rest/me",
				req:    request{method: http.MethodGet, path: "/rest/me", generation: generationREST},
				mapper: identityFrom,
			},
			{
				name:   "v2/userinfo",
				req:    request{method: http.MethodGet, path: "/v2/userinfo", generation: generationPlain},
				mapper: identityFrom,
			},
			{
				name:   "v2/me",
				req:    request{method: http.MethodGet, path: "/v2/me", generation: generationRestli},
				mapper: identityFrom,
			},
		},
	}
}

// cachedIdentity returns the identity resolved for token, if any.
func (c *Client) cachedIdentity(token string) *MemberIdentity {
	c.identityMu.RLock()
	defer c.identityMu.RUnlock()
	if c.identity != nil && c.identityToken == token {
		identity := *c.identity
		return &identity
	}
	return nil
}

// resolveIdentity resolves the member behind token once per token.
// Concurrent first resolutions share one chain run. The shared run is
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (c *Client) resolveIdentity(ctx context.Context, token string) (*MemberIdentity, error) {
	if identity := c.cachedIdentity(token); identity != nil {
		return identity, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	resultCh := c.identityGroup.DoChan(token, func() (interface{}, error) {
		if identity := c.cachedIdentity(token); identity != nil {
			return identity, nil
		}

		identity, err := resolve(shared, c, token, c.identityChain())
		if err != nil {
			return nil, err
		}

		c.identityMu.Lock()
		c.identity, c.identityToken = &identity, token
		c.identityMu.Unlock()

		c.logger.Debug("Resolved member identity", "urn", identity.URN)
		return &identity, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-resultCh:
	}

	result, err := res.Val, res.Err
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			return nil, fmt.Errorf("%w: %w", ErrIdentityUnresolved, opErr)
		}
		return nil, err
	}

	identity := *result.(*MemberIdentity)
	return &identity, nil
}

// Identity returns the authenticated member. Exhausting every identity
// endpoint yields a SoftFailure.
func (c *Client) Identity(ctx context.Context) (Soft[MemberIdentity], error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return Soft[MemberIdentity]{}, err
	}

	identity, err := c.resolveIdentity(ctx, token)
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			return unavailable[MemberIdentity](softFailure("Could not determine the LinkedIn member for this token", opErr)), nil
		}
		return Soft[MemberIdentity]{}, err
	}
	return available(*identity), nil
}

// FetchIdentity resolves the member behind accessToken without consulting the
// TokenSource. It is used right after a code exchange, before the token is
// stored.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (*MemberIdentity, error) {
	return c.resolveIdentity(ctx, accessToken)
}
