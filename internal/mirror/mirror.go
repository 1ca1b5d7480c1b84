// Package mirror persists a snapshot of the session so it survives process
// restarts. The mirror is never trusted as-is: the bootstrapper re-validates
// it against the backend before the session becomes usable. It is written on
// login, rewritten after a successful bootstrap, and cleared on logout or when
// the backend rejects the persisted token.
package mirror

import (
	"context"
	"errors"

	"classhub/gateway/internal/session"
)

// SnapshotVersion is bumped when the blob layout changes. A blob with a
// different version reads as absent, which just forces a fresh login.
const SnapshotVersion = 1

var ErrNoSession = errors.New("no persisted session")

// Snapshot is the serialized form of a session, stored as one blob so a
// partial write can never leave the mirror internally inconsistent.
type Snapshot struct {
	Version    int    `json:"version"`
	Token      string `json:"token"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	Level      string `json:"level,omitempty"`
	Department string `json:"department,omitempty"`
	FullName   string `json:"full_name,omitempty"`
}

func FromSession(s session.Session) Snapshot {
	return Snapshot{
		Version:    SnapshotVersion,
		Token:      s.Token,
		Username:   s.Username,
		Role:       string(s.Role),
		Level:      s.Level,
		Department: s.Department,
		FullName:   s.FullName,
	}
}

// Session rebuilds an in-memory session from the snapshot, re-running the
// same normalization as login so a hand-edited or stale blob cannot smuggle
// in an inconsistent state.
func (s Snapshot) Session() (session.Session, error) {
	return session.NewAuthenticated(s.Token, s.Username, s.Role, s.Level, s.Department, s.FullName)
}

// Mirror is the durable key-value store holding at most one snapshot.
// Read returns ErrNoSession when the snapshot is absent, unreadable, or of an
// unknown version; the caller treats all three the same as "never logged in".
type Mirror interface {
	Read(ctx context.Context) (Snapshot, error)
	Write(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}
