package linkedin

// Visibility values accepted by both post APIs.
const (
	VisibilityPublic      = "PUBLIC"
	VisibilityConnections = "CONNECTIONS"
	VisibilityLoggedIn    = "LOGGED_IN"
)

// Soft is the outcome of a read-only operation. Exactly one of Value and
// Failure is set.
type Soft[T any] struct {
	Value   *T
	Failure *SoftFailure
}

// OK reports whether the operation produced a value.
func (s Soft[T]) OK() bool {
	return s.Value != nil
}

func available[T any](v T) Soft[T] {
	return Soft[T]{Value: &v}
}

func unavailable[T any](f *SoftFailure) Soft[T] {
	return Soft[T]{Failure: f}
}

// MemberIdentity identifies the authenticated member.
type MemberIdentity struct {
	URN   string `json:"urn"`
	Sub   string `json:"sub"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Profile is the member's basic profile. Source names the endpoint that
// answered.
type Profile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Source        string `json:"source"`
}

// Article is the input of CreateArticlePost.
type Article struct {
	Text        string
	URL         string
	Title       string
	Description string
	Visibility  string
}

// PostResult is returned by CreatePost and CreateArticlePost.
type PostResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// DeleteResult is returned by DeletePost.
type DeleteResult struct {
	Success bool `json:"success"`
}

// Post is one authored post.
type Post struct {
	ID             string `json:"id"`
	Text           string `json:"text,omitempty"`
	Visibility     string `json:"visibility,omitempty"`
	LifecycleState string `json:"lifecycle_state,omitempty"`
	// CreatedAt is in milliseconds since the epoch.
	CreatedAt int64 `json:"created_at,omitempty"`
}

// PostList is the result of ListPosts.
type PostList struct {
	Posts []Post `json:"posts"`
	Count int    `json:"count"`
}

// Connections is the result of ConnectionCount.
type Connections struct {
	Total int `json:"total"`
}
