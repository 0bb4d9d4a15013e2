// Package linkedin is a client for the LinkedIn member APIs.
//
// LinkedIn serves the same data from three overlapping API generations: the
// versioned REST API under /rest, the OpenID Connect userinfo endpoint and the
// legacy /v2 API. Which of them a given application may call depends on the
// products enabled for it, so every operation is expressed as an ordered
// chain of candidate requests. The first candidate that answers with a 2xx
// status wins and its response is mapped to the canonical result type.
//
// Read-only operations never fail because a chain ran out of candidates; they
// return a SoftFailure describing what went wrong instead. Mutating
// operations return an *OperationError carrying the last status and body.
//
// Every operation reads the access token through a TokenSource first and
// returns its error before any request is sent.
package linkedin
