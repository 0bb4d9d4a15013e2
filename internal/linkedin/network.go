package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ConnectionCount returns the number of first-degree connections. Only the
// paging total is requested.
func (c *Client) ConnectionCount(ctx context.Context) (Soft[Connections], error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return Soft[Connections]{}, err
	}

	query := url.Values{}
	query.Set("q", "viewer")
	query.Set("start", "0")
	query.Set("count", "0")

	ch := chain[Connections]{
		operation: "count connections",
		candidates: []candidate[Connections]{
			{
				name: "v2/connections",
				req:  request{method: http.MethodGet, path: "/v2/connections", query: query, generation: generationRestli},
				mapper: func(resp *response) (Connections, error) {
					var body struct {
						Paging struct {
							Total *int `json:"total"`
						} `json:"paging"`
					}
					if err := resp.decode(&body); err != nil {
						return Connections{}, err
					}
					if body.Paging.Total == nil {
						return Connections{}, errors.New("response has no paging.total")
					}
					return Connections{Total: *body.Paging.Total}, nil
				},
			},
		},
	}

	return resolveSoft(ctx, c, token, ch,
		"Connection count requires the r_network permission, which is limited to approved LinkedIn partners")
}
