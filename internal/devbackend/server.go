// Package devbackend is a stand-in for the school backend, implementing the
// two endpoints the gateway consumes: the form-encoded token exchange and the
// bearer-authenticated user-info lookup. It exists for local development and
// tests; the real backend is an external system.
package devbackend

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Account struct {
	ID         string
	Username   string
	Password   string
	Role       string
	Level      string
	Department string
	FullName   string
}

type Server struct {
	secret   string
	issuer   string
	tokenTTL time.Duration
	accounts map[string]Account
}

func New(secret string) *Server {
	return &Server{
		secret:   secret,
		issuer:   "classhub-devbackend",
		tokenTTL: time.Hour,
		accounts: seedAccounts(),
	}
}

// seedAccounts covers every role, including a senior student with a
// department and a junior one without.
func seedAccounts() map[string]Account {
	accounts := map[string]Account{
		"alice":      {Username: "alice", Password: "x", Role: "student", Level: "SS2", Department: "Science", FullName: "Alice A."},
		"dave":       {Username: "dave", Password: "x", Role: "student", Level: "JSS1", FullName: "Dave D."},
		"mr.bello":   {Username: "mr.bello", Password: "x", Role: "teacher", FullName: "T. Bello"},
		"mrs.okafor": {Username: "mrs.okafor", Password: "x", Role: "parent", FullName: "N. Okafor"},
		"principal":  {Username: "principal", Password: "x", Role: "admin", FullName: "The Principal"},
	}
	for username, account := range accounts {
		account.ID = uuid.NewString()
		accounts[username] = account
	}
	return accounts
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/token", s.handleToken)
	r.Get("/api/auth/user-info", s.handleUserInfo)
	return r
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	account, ok := s.accounts[username]
	if !ok || account.Password != password {
		writeDetail(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	token, err := s.issueToken(account)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "token error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) issueToken(account Account) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		UserID: account.ID,
		Role:   account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *Server) parseToken(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r.Header.Get("Authorization"))
	if tokenString == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	account, ok := s.accounts[claims.Subject]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	// The real backend fills level/department with the role name for
	// non-students; reproduce that quirk so the gateway's normalization
	// stays honest.
	level, department := account.Level, account.Department
	if account.Role != "student" {
		level, department = account.Role, account.Role
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"username":   account.Username,
		"role":       account.Role,
		"level":      level,
		"department": department,
		"full_name":  account.FullName,
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
