package graph

import (
	"context"
	"errors"

	"go-sync-todo/internal/services"
)

// ErrUnauthenticated は呼び出し元がコンテキストに無いことを表します。
var ErrUnauthenticated = errors.New("unauthenticated")

type callerKey struct{}

// WithCaller は呼び出し元をコンテキストに設定します。
func WithCaller(ctx context.Context, caller services.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext はコンテキストから呼び出し元を取り出します。
func CallerFromContext(ctx context.Context) (services.Caller, error) {
	caller, ok := ctx.Value(callerKey{}).(services.Caller)
	if !ok || caller.UserID == "" {
		return services.Caller{}, ErrUnauthenticated
	}
	return caller, nil
}
