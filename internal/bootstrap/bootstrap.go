// Package bootstrap reconciles the persisted session mirror with the backend
// exactly once at startup. Until Run resolves the store, every route guard
// stays in its pending state.
package bootstrap

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"classhub/gateway/internal/backend"
	"classhub/gateway/internal/mirror"
	"classhub/gateway/internal/session"
)

// Identity is the backend call Run needs; satisfied by *backend.Client.
type Identity interface {
	CurrentUser(ctx context.Context, token string) (backend.User, error)
}

// Run reads the mirror and resolves the session store. Any failure along the
// way — absent mirror, rejected token, network error, malformed payload —
// degrades to an anonymous session: from the user's perspective an expired
// token is the same as never having logged in, so nothing is surfaced. The
// validation call is made at most once and never retried.
func Run(ctx context.Context, log zerolog.Logger, store *session.Store, mir mirror.Mirror, identity Identity) {
	snap, err := mir.Read(ctx)
	if err != nil {
		if !errors.Is(err, mirror.ErrNoSession) {
			log.Debug().Err(err).Msg("session mirror unreadable")
		}
		store.Clear()
		return
	}

	user, err := identity.CurrentUser(ctx, snap.Token)
	if err != nil {
		log.Debug().Err(err).Msg("persisted token not accepted, degrading to anonymous")
		_ = mir.Clear(ctx)
		store.Clear()
		return
	}

	sess, err := session.NewAuthenticated(snap.Token, user.Username, user.Role, user.Level, user.Department, user.FullName)
	if err != nil {
		log.Debug().Err(err).Msg("backend identity payload not usable, degrading to anonymous")
		_ = mir.Clear(ctx)
		store.Clear()
		return
	}

	store.Set(sess)
	if err := mir.Write(ctx, mirror.FromSession(sess)); err != nil {
		log.Warn().Err(err).Msg("session mirror rewrite failed")
	}
	log.Info().Str("username", sess.Username).Str("role", string(sess.Role)).Msg("session restored")
}
