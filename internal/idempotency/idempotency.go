package idempotency

import (
	"context"
	"strings"
)

const Header = "Idempotency-Key"

// keys longer than this are rejected so they cannot bloat redis
const maxKeyLength = 128

type ctxKey struct{}

func WithKey(ctx context.Context, key string) context.Context {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxKeyLength {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, key)
}

// GetKey returns the key the caller sent, or "" when there was none.
func GetKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxKey{}).(string)
	return key
}
