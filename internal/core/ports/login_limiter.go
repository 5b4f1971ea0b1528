package ports

import "context"

// LoginLimiter throttles repeated failed logins per email. Implementations
// should fail open: throttling is defense in depth, not a correctness gate.
type LoginLimiter interface {
	// TooMany reports whether the email has exceeded the failure budget.
	TooMany(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
