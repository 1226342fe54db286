package vision

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// Retryer wraps Client calls with bounded exponential backoff for
// overload failures. Delays double starting at Base between attempts.
type Retryer struct {
	MaxAttempts uint64
	Base        time.Duration
}

// DefaultRetryer is the production policy: 3 attempts with 2s, 4s waits.
var DefaultRetryer = Retryer{MaxAttempts: defaultMaxAttempts, Base: defaultBaseDelay}

// Analyze calls the client, retrying only on ErrUnavailable. Any other
// failure propagates immediately. When all attempts exhaust, the
// returned error still matches ErrUnavailable so callers can map it to
// a "temporarily overloaded" response.
func (r Retryer) Analyze(ctx context.Context, c Client, instructions string, image []byte) (string, error) {
	var out string
	backoff := retry.WithMaxRetries(r.MaxAttempts-1, retry.NewExponential(r.Base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err := c.Analyze(ctx, instructions, image)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
