package linkedin

import (
	"context"
	"net/http"
)

// Profile returns the member's profile from the first endpoint that answers:
// OpenID userinfo, then /rest/me, then legacy /v2/me.
func (c *Client) Profile(ctx context.Context) (Soft[Profile], error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return Soft[Profile]{}, err
	}

	ch := chain[Profile]{
		operation: "get profile",
		candidates: []candidate[Profile]{
			{
				name: "v2/userinfo",
				req:  request{method: http.MethodGet, path: "/v2/userinfo", generation: generationPlain},
				mapper: func(resp *response) (Profile, error) {
					m, err := decodeMember(resp)
					if err != nil {
						return Profile{}, err
					}
					return Profile{
						Sub:           m.memberID(),
						Name:          m.displayName(),
						GivenName:     m.GivenName,
						FamilyName:    m.FamilyName,
						Email:         m.Email,
						EmailVerified: m.EmailVerified,
						Picture:       m.Picture,
						Source:        "v2/userinfo",
					}, nil
				},
			},
			{
				name: "rest/me",
				req:  request{method: http.MethodGet, path: "/rest/me", generation: generationREST},
				mapper: func(resp *response) (Profile, error) {
					m, err := decodeMember(resp)
					if err != nil {
						return Profile{}, err
					}
					return Profile{Sub: m.memberID(), Name: m.displayName(), Source: "rest/me"}, nil
				},
			},
			{
				name: "v2/me",
				req:  request{method: http.MethodGet, path: "/v2/me", generation: generationRestli},
				mapper: func(resp *response) (Profile, error) {
					m, err := decodeMember(resp)
					if err != nil {
						return Profile{}, err
					}
					return Profile{
						Sub:        m.memberID(),
						GivenName:  m.firstName(),
						FamilyName: m.lastName(),
						Name:       m.displayName(),
						Source:     "v2/me",
					}, nil
				},
			},
		},
	}

	return resolveSoft(ctx, c, token, ch, "Profile is unavailable from every LinkedIn profile endpoint")
}
