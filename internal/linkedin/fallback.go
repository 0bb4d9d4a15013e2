package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// candidate is one way of serving an operation.
type candidate[T any] struct {
	name   string
	req    request
	mapper func(*response) (T, error)
}

// chain is an ordered list of candidates for one operation.
type chain[T any] struct {
	operation string
	// mutating chains stop at a mapper error: the write already happened.
	mutating   bool
	candidates []candidate[T]
}

// resolve tries candidates in order and returns the first mapped 2xx
// response. When no candidate succeeds it returns an *OperationError for the
// last one tried. Context cancellation ends the chain with ctx.Err().
func resolve[T any](ctx context.Context, c *Client, token string, ch chain[T]) (T, error) {
	var zero T
	correlationID := uuid.NewString()
	logger := c.logger.With("operation", ch.operation, "correlation_id", correlationID)

	last := &OperationError{Operation: ch.operation}
	for i, cand := range ch.candidates {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		logger.Debug("Trying candidate",
			"candidate", cand.name,
			"position", fmt.Sprintf("%d/%d", i+1, len(ch.candidates)),
			"method", cand.req.method,
			"path", cand.req.path,
		)

		resp, err := c.do(ctx, token, cand.req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			logger.Debug("Candidate transport error", "candidate", cand.name, "error", err)
			last = &OperationError{Operation: ch.operation, Candidate: cand.name, Err: err}
			continue
		}

		if !resp.success() {
			logger.Debug("Candidate rejected", "candidate", cand.name, "status", resp.status)
			last = &OperationError{
				Operation:  ch.operation,
				Candidate:  cand.name,
				StatusCode: resp.status,
				Body:       strings.TrimSpace(string(resp.body)),
			}
			continue
		}

		result, err := cand.mapper(resp)
		if err != nil {
			mapErr := &OperationError{
				Operation:  ch.operation,
				Candidate:  cand.name,
				StatusCode: resp.status,
				Body:       strings.TrimSpace(string(resp.body)),
				Err:        err,
			}
			if ch.mutating {
				logger.Warn("Unreadable response after successful write", "candidate", cand.name, "error", err)
				return zero, mapErr
			}
			logger.Debug("Candidate response unusable", "candidate", cand.name, "error", err)
			last = mapErr
			continue
		}

		logger.Debug("Candidate succeeded", "candidate", cand.name, "status", resp.status)
		return result, nil
	}

	logger.Debug("Chain exhausted", "last_candidate", last.Candidate, "status", last.StatusCode)
	return zero, last
}

// resolveSoft runs a read-only chain. Exhaustion becomes a SoftFailure with
// message; only cancellation is returned as an error.
func resolveSoft[T any](ctx context.Context, c *Client, token string, ch chain[T], message string) (Soft[T], error) {
	result, err := resolve(ctx, c, token, ch)
	if err == nil {
		return available(result), nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return unavailable[T](softFailure(message, opErr)), nil
	}
	return Soft[T]{}, err
}
