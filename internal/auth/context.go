package auth

import (
	"context"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/model"
)

type contextKey struct{}

// AuthContext is attached to requests that passed the session gate. Client
// is bound to the token that was current when the request arrived.
type AuthContext struct {
	User   model.User
	Client *api.Client
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func User(ctx context.Context) model.User {
	ac, _ := FromContext(ctx)
	return ac.User
}

// Client returns the request's backend client, or nil outside the gate.
func Client(ctx context.Context) *api.Client {
	ac, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return ac.Client
}

func UserID(ctx context.Context) string {
	return User(ctx).UserID
}
