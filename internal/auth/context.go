package auth

import (
	"context"
	"errors"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

type ctxKey int

const principalCtxKey ctxKey = iota + 1

var ErrNoPrincipal = errors.New("no authenticated principal in context")

// ContextWithPrincipal returns a new context carrying the verified principal.
//
//nolint:ireturn // returning context.Context is intentional: it's the standard context type
func ContextWithPrincipal(baseCtx context.Context, p *token.Principal) context.Context {
	return context.WithValue(baseCtx, principalCtxKey, p)
}

func PrincipalFromContext(ctx context.Context) (*token.Principal, error) {
	p, ok := ctx.Value(principalCtxKey).(*token.Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}
