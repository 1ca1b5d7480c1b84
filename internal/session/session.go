package session

import (
	"errors"
	"strings"
)

// Role is the closed set of account types the portal knows about. Anything
// else coming back from the backend is a hard error, not a passthrough.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleParent:
		return RoleParent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

// HomePath is the role-appropriate landing route.
func (r Role) HomePath() string {
	return "/" + string(r) + "-dashboard"
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Session is the current user's identity state. The zero value is the
// anonymous session. Authenticated sessions are built through
// NewAuthenticated only, which keeps the identity fields consistent with
// the token by construction.
type Session struct {
	Token      string
	Username   string
	Role       Role
	Level      string
	Department string
	FullName   string
}

// Anonymous returns the empty session.
func Anonymous() Session {
	return Session{}
}

// NewAuthenticated builds a session from a token and the raw identity fields
// the backend returned. The role must parse; level and department are
// normalized to lower case and only meaningful for students. The backend
// stuffs filler values ("teacher", "admin") into level/department for other
// roles, so they are dropped for everyone else. Department is kept only for
// senior levels since junior students have no department split.
func NewAuthenticated(token, username, rawRole, level, department, fullName string) (Session, error) {
	if token == "" {
		return Session{}, errors.New("missing token")
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		Token:    token,
		Username: strings.TrimSpace(username),
		Role:     role,
		FullName: strings.TrimSpace(fullName),
	}
	if role == RoleStudent {
		s.Level = strings.TrimSpace(strings.ToLower(level))
		if seniorLevel(s.Level) {
			s.Department = strings.TrimSpace(strings.ToLower(department))
		}
	}
	return s, nil
}

func seniorLevel(level string) bool {
	return strings.HasPrefix(level, "ss")
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Derived role flags, computed from Role so they can never disagree with it.

func (s Session) IsStudent() bool { return s.Authenticated() && s.Role == RoleStudent }
func (s Session) IsTeacher() bool { return s.Authenticated() && s.Role == RoleTeacher }
func (s Session) IsParent() bool  { return s.Authenticated() && s.Role == RoleParent }
func (s Session) IsAdmin() bool   { return s.Authenticated() && s.Role == RoleAdmin }
