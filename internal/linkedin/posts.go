package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	ugcShareContent = "com.linkedin.ugc.ShareContent"
	ugcVisibility   = "com.linkedin.ugc.MemberNetworkVisibility"
)

// CreatePost publishes a text post. It tries /rest/posts, then the legacy
// /v2/ugcPosts.
//
// The write is not idempotent: if /rest/posts creates the post but the
// response is lost, the legacy fallback publishes it a second time.
func (c *Client) CreatePost(ctx context.Context, text, visibility string) (*PostResult, error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return nil, err
	}
	identity, err := c.resolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	visibility = normalizeVisibility(visibility)

	return c.publish(ctx, token, "create post",
		restPost(identity.URN, text, visibility, nil),
		ugcPost(identity.URN, text, visibility, "NONE", nil),
	)
}

// CreateArticlePost publishes a post sharing a link.
func (c *Client) CreateArticlePost(ctx context.Context, article Article) (*PostResult, error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return nil, err
	}
	identity, err := c.resolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	visibility := normalizeVisibility(article.Visibility)

	restArticle := map[string]interface{}{"source": article.URL}
	if article.Title != "" {
		restArticle["title"] = article.Title
	}
	if article.Description != "" {
		restArticle["description"] = article.Description
	}

	media := map[string]interface{}{
		"status":      "READY",
		"originalUrl": article.URL,
	}
	if article.Title != "" {
		media["title"] = map[string]string{"text": article.Title}
	}
	if article.Description != "" {
		media["description"] = map[string]string{"text": article.Description}
	}

	return c.publish(ctx, token, "create article post",
		restPost(identity.URN, article.Text, visibility, map[string]interface{}{"article": restArticle}),
		ugcPost(identity.URN, article.Text, visibility, "ARTICLE", []interface{}{media}),
	)
}

func (c *Client) publish(ctx context.Context, token, operation string, current, legacy map[string]interface{}) (*PostResult, error) {
	ch := chain[*PostResult]{
		operation: operation,
		mutating:  true,
		candidates: []candidate[*PostResult]{
			{
				name:   "rest/posts",
				req:    request{method: http.MethodPost, path: "/rest/posts", body: current, generation: generationREST},
				mapper: postIDFromHeader,
			},
			{
				name:   "v2/ugcPosts",
				req:    request{method: http.MethodPost, path: "/v2/ugcPosts", body: legacy, generation: generationRestli},
				mapper: postIDFromBody,
			},
		},
	}

	result, err := resolve(ctx, c, token, ch)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Published post", "id", result.ID)
	return result, nil
}

func restPost(author, text, visibility string, content map[string]interface{}) map[string]interface{} {
	post := map[string]interface{}{
		"author":     author,
		"commentary": text,
		"visibility": visibility,
		"distribution": map[string]interface{}{
			"feedDistribution":               "MAIN_FEED",
			"targetEntities":                 []interface{}{},
			"thirdPartyDistributionChannels": []interface{}{},
		},
		"lifecycleState":            "PUBLISHED",
		"isReshareDisabledByAuthor": false,
	}
	if content != nil {
		post["content"] = content
	}
	return post
}

func ugcPost(author, text, visibility, category string, media []interface{}) map[string]interface{} {
	share := map[string]interface{}{
		"shareCommentary":    map[string]string{"text": text},
		"shareMediaCategory": category,
	}
	if len(media) > 0 {
		share["media"] = media
	}
	return map[string]interface{}{
		"author":          author,
		"lifecycleState":  "PUBLISHED",
		"specificContent": map[string]interface{}{ugcShareContent: share},
		"visibility":      map[string]string{ugcVisibility: visibility},
	}
}

// postIDFromHeader reads the id /rest/posts returns in x-restli-id.
func postIDFromHeader(resp *response) (*PostResult, error) {
	if id := resp.header.Get("X-Restli-Id"); id != "" {
		return &PostResult{Success: true, ID: id}, nil
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := resp.decode(&body); err == nil && body.ID != "" {
		return &PostResult{Success: true, ID: body.ID}, nil
	}
	return &PostResult{Success: true}, nil
}

// postIDFromBody reads the id /v2/ugcPosts returns in the body. A 2xx without
// a readable id still means the post exists.
func postIDFromBody(resp *response) (*PostResult, error) {
	var body struct {
		ID string `json:"id"`
	}
	if err := resp.decode(&body); err == nil && body.ID != "" {
		return &PostResult{Success: true, ID: body.ID}, nil
	}
	return &PostResult{Success: true, ID: resp.header.Get("X-Restli-Id")}, nil
}

// DeletePost deletes a post by id, first through /rest/posts, then through
// the legacy /v2/ugcPosts.
func (c *Client) DeletePost(ctx context.Context, postID string) (*DeleteResult, error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, errors.New("post id is required")
	}

	escaped := escapePathSegment(postID)
	deleted := func(*response) (*DeleteResult, error) {
		return &DeleteResult{Success: true}, nil
	}

	ch := chain[*DeleteResult]{
		operation: "delete post",
		mutating:  true,
		candidates: []candidate[*DeleteResult]{
			{
				name:   "rest/posts",
				req:    request{method: http.MethodDelete, path: "/rest/posts/" + escaped, generation: generationREST},
				mapper: deleted,
			},
			{
				name:   "v2/ugcPosts",
				req:    request{method: http.MethodDelete, path: "/v2/ugcPosts/" + escaped, generation: generationRestli},
				mapper: deleted,
			},
		},
	}

	result, err := resolve(ctx, c, token, ch)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Deleted post", "id", postID)
	return result, nil
}

// DefaultListCount is used when ListPosts is called with count <= 0.
const DefaultListCount = 10

// ListPosts returns the member's most recent posts. The legacy authors
// finder usually needs elevated API access; without it the result is a
// SoftFailure.
func (c *Client) ListPosts(ctx context.Context, count int) (Soft[PostList], error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return Soft[PostList]{}, err
	}
	if count <= 0 {
		count = DefaultListCount
	}

	identity, err := c.resolveIdentity(ctx, token)
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			return unavailable[PostList](softFailure("Cannot list posts without the member identity", opErr)), nil
		}
		return Soft[PostList]{}, err
	}

	query := url.Values{}
	query.Set("q", "authors")
	query.Set("authors", "List("+identity.URN+")")
	query.Set("count", strconv.Itoa(count))

	ch := chain[PostList]{
		operation: "list posts",
		candidates: []candidate[PostList]{
			{
				name:   "v2/ugcPosts",
				req:    request{method: http.MethodGet, path: "/v2/ugcPosts", query: query, generation: generationRestli},
				mapper: postListFrom,
			},
		},
	}

	return resolveSoft(ctx, c, token, ch,
		"Listing posts requires elevated LinkedIn API access (r_member_social), which this application may not have")
}

type ugcElement struct {
	ID             string `json:"id"`
	LifecycleState string `json:"lifecycleState"`
	Created        struct {
		Time int64 `json:"time"`
	} `json:"created"`
	SpecificContent map[string]struct {
		ShareCommentary struct {
			Text string `json:"text"`
		} `json:"shareCommentary"`
	} `json:"specificContent"`
	Visibility map[string]string `json:"visibility"`
}

func postListFrom(resp *response) (PostList, error) {
	var body struct {
		Elements []ugcElement `json:"elements"`
	}
	if err := resp.decode(&body); err != nil {
		return PostList{}, err
	}

	posts := make([]Post, 0, len(body.Elements))
	for _, el := range body.Elements {
		posts = append(posts, Post{
			ID:             el.ID,
			Text:           el.SpecificContent[ugcShareContent].ShareCommentary.Text,
			Visibility:     el.Visibility[ugcVisibility],
			LifecycleState: el.LifecycleState,
			CreatedAt:      el.Created.Time,
		})
	}
	return PostList{Posts: posts, Count: len(posts)}, nil
}

// escapePathSegment encodes id for use as one path segment. URN colons are
// encoded too, as LinkedIn expects urn%3Ali%3Ashare%3A... in resource paths.
func escapePathSegment(id string) string {
	return strings.ReplaceAll(url.PathEscape(id), ":", "%3A")
}

func normalizeVisibility(v string) string {
	switch v {
	case VisibilityConnections, VisibilityLoggedIn:
		return v
	default:
		return VisibilityPublic
	}
}
