// Package guard gates routes on the current session. Each guard is a pure
// predicate over a session snapshot plus a chi-style middleware that maps the
// decision to serve/redirect/placeholder. Guards hold no state of their own,
// so a logout flips every guarded route on the very next request.
package guard

import (
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classhub/gateway/internal/session"
)

const LoginPath = "/login"

type Outcome int

const (
	// OutcomePending: the bootstrapper has not resolved the session yet.
	// Deciding now would be premature, so neither the page nor a redirect
	// is produced.
	OutcomePending Outcome = iota
	OutcomeGrant
	OutcomeRedirect
)

type Decision struct {
	Outcome Outcome
	// Target is the redirect location, set only for OutcomeRedirect.
	Target string
}

// Requirement is what a guard demands of the session: authentication, and
// optionally one specific role.
type Requirement struct {
	role session.Role
}

// Authenticated requires any logged-in session.
func Authenticated() Requirement {
	return Requirement{}
}

// Role requires a logged-in session with exactly the given role.
func Role(role session.Role) Requirement {
	return Requirement{role: role}
}

// Evaluate applies the guard contract. Unauthenticated access always targets
// the login route regardless of guard variant; an authenticated session with
// the wrong role is sent to its own dashboard instead.
func Evaluate(snap session.Snapshot, req Requirement) Decision {
	if snap.Loading {
		return Decision{Outcome: OutcomePending}
	}
	sess := snap.Session
	if !sess.Authenticated() {
		return Decision{Outcome: OutcomeRedirect, Target: LoginPath}
	}
	if req.role != "" && sess.Role != req.role {
		return Decision{Outcome: OutcomeRedirect, Target: sess.Role.HomePath()}
	}
	return Decision{Outcome: OutcomeGrant}
}

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gateway_guard_decisions_total",
	Help: "Route guard decisions by guard variant and outcome.",
}, []string{"guard", "outcome"})

// RequireAuth wraps routes any authenticated user may see. The attempted
// location is carried to the login route so it can send the user back.
func RequireAuth(store *session.Store) func(http.Handler) http.Handler {
	return middleware(store, Authenticated(), "auth", true)
}

// RequireRole wraps routes restricted to one role.
func RequireRole(store *session.Store, role session.Role) func(http.Handler) http.Handler {
	return middleware(store, Role(role), string(role), false)
}

func middleware(store *session.Store, req Requirement, name string, carryLocation bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Evaluate(store.Snapshot(), req)
			switch decision.Outcome {
			case OutcomePending:
				decisions.WithLabelValues(name, "pending").Inc()
				writePending(w)
			case OutcomeRedirect:
				decisions.WithLabelValues(name, "redirect").Inc()
				target := decision.Target
				if carryLocation && target == LoginPath {
					target = LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusFound)
			default:
				decisions.WithLabelValues(name, "grant").Inc()
				next.ServeHTTP(w, r)
			}
		})
	}
}

func writePending(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Loading</title><p>Loading…</p>"))
}
