package pipeline

import "context"

type anonymousKey struct{}
type retriedKey struct{}

// Anonymous marks requests that must go out without credentials, like login.
// A 401 answer to such a request is returned as is and never triggers a refresh.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func IsAnonymous(ctx context.Context) bool {
	anonymous, _ := ctx.Value(anonymousKey{}).(bool)
	return anonymous
}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

// IsRetried is true for a request that is being replayed after a token refresh.
func IsRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}
