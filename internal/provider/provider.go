// internal/provider/provider.go
package provider

import "errors"

// Fatal conditions. Both abort the entire run: there is no point continuing
// a batch once the upstream quota is gone or the credentials are rejected.
var (
	// ErrRateLimitExhausted means the upstream reported the API quota is
	// fully spent, as opposed to transient per-request throttling.
	ErrRateLimitExhausted = errors.New("api rate limit exhausted")

	// ErrAuthFailed means the upstream rejected our credentials.
	ErrAuthFailed = errors.New("authentication failed")
)

// ErrNotFound marks a target (repository or account) the upstream does not
// know. Not fatal: the batch isolates it to the one target.
var ErrNotFound = errors.New("not found")

// IsFatal reports whether err is a condition that should terminate the
// whole batch rather than being isolated to one target.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRateLimitExhausted) || errors.Is(err, ErrAuthFailed)
}

// Limiter gates outbound API calls. The collection pipeline is sequential,
// so implementations are not required to be safe for concurrent use.
type Limiter interface {
	CanMakeRequest() bool
	RecordRequest()
	WaitIfNeeded()
}
