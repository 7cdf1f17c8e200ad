package service

import (
	"context"
	"errors"
	"time"

	"github.com/blackwell-systems/catalogctl/internal/api"
)

// DefaultRetryDelay is the pause before the single retry of a failed read.
const DefaultRetryDelay = time.Second

// retryable reports whether a failed read may be attempted once more.
// Client errors are deterministic and never retried.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch api.KindOf(err) {
	case api.KindNetwork, api.KindServer:
		return true
	}
	return false
}

// readOnce runs fn, and on a retryable failure runs it exactly one more time
// after delay. It never loops.
func readOnce(ctx context.Context, delay time.Duration, fn func() error) error {
	err := fn()
	if err == nil || !retryable(err) {
		return err
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return err
		case <-t.C:
		}
	}
	return fn()
}
