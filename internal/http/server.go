package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"classhub/gateway/internal/backend"
	"classhub/gateway/internal/config"
	"classhub/gateway/internal/guard"
	"classhub/gateway/internal/mirror"
	"classhub/gateway/internal/session"
)

type Server struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *session.Store
	mirror  mirror.Mirror
	backend *backend.Client
}

func NewServer(cfg config.Config, log zerolog.Logger, store *session.Store, mir mirror.Mirror, client *backend.Client) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		store:   store,
		mirror:  mir,
		backend: client,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	// The student dashboard is intentionally behind the plain authenticated
	// guard, not a student-role guard: it is the default landing page for
	// any logged-in account.
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth(s.store))
		r.Get("/student-dashboard", s.handleDashboard)
		r.Get("/me", s.handleMe)
	})
	r.With(guard.RequireRole(s.store, session.RoleAdmin)).Get("/admin-dashboard", s.handleDashboard)
	r.With(guard.RequireRole(s.store, session.RoleTeacher)).Get("/teacher-dashboard", s.handleDashboard)
	r.With(guard.RequireRole(s.store, session.RoleParent)).Get("/parent-dashboard", s.handleDashboard)

	return r
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	renderHome(w, snap.Session)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, http.StatusOK, "", r.URL.Query().Get("next"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderLogin(w, http.StatusBadRequest, "Login failed. Please try again.", "")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	result, err := s.backend.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			renderLogin(w, http.StatusUnauthorized, "Login failed. Please check your username and password.", next)
			return
		}
		s.log.Error().Err(err).Msg("login request failed")
		renderLogin(w, http.StatusBadGateway, "Login is temporarily unavailable. Please try again.", next)
		return
	}

	sess, err := session.NewAuthenticated(result.Token, result.User.Username, result.User.Role,
		result.User.Level, result.User.Department, result.User.FullName)
	if err != nil {
		s.log.Error().Err(err).Str("role", result.User.Role).Msg("backend returned unusable identity")
		renderLogin(w, http.StatusBadGateway, "Login is temporarily unavailable. Please try again.", next)
		return
	}

	s.store.Set(sess)
	if err := s.mirror.Write(r.Context(), mirror.FromSession(sess)); err != nil {
		s.log.Warn().Err(err).Msg("session mirror write failed")
	}
	s.log.Info().Str("username", sess.Username).Str("role", string(sess.Role)).Msg("login")

	target := sess.Role.HomePath()
	if safeNext(next) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleLogout clears durable state first, then memory, then forces the
// browser back to the public root with caching disabled so nothing stale
// survives. Safe to call when already logged out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.mirror.Clear(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("session mirror clear failed")
	}
	s.store.Clear()
	s.log.Info().Msg("logout")

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	renderDashboard(w, snap.Session)
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Snapshot().Session
	// The token stays server-side.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":   sess.Username,
		"role":       string(sess.Role),
		"is_student": sess.IsStudent(),
		"is_teacher": sess.IsTeacher(),
		"is_parent":  sess.IsParent(),
		"is_admin":   sess.IsAdmin(),
		"level":      sess.Level,
		"department": sess.Department,
		"full_name":  sess.FullName,
	})
}

// safeNext accepts only same-site absolute paths as post-login targets.
func safeNext(next string) bool {
	if next == "" || next[0] != '/' {
		return false
	}
	return len(next) < 2 || next[1] != '/'
}
