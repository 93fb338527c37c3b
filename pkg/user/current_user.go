package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// The bearer-token middleware resolves the access token to a user and
// records that user's id on the request context. Rows owned by the caller
// (notifications, settings, families) are scoped with CurrentId.

type currentUserKey struct{}

var ErrNoUser = errors.New("no authenticated user")

// WithUser marks u as the authenticated caller of ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, currentUserKey{}, u.Id)
}

// CurrentId returns the id of the authenticated caller, or ErrNoUser when
// the request carried no valid access token.
func CurrentId(ctx context.Context) (int, error) {
	id, ok := ctx.Value(currentUserKey{}).(int)
	if !ok || id <= 0 {
		log.Trace("request has no authenticated user")
		return 0, ErrNoUser
	}
	return id, nil
}
