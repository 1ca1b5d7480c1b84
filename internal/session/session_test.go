package session

import (
	"errors"
	"testing"
)

func TestAnonymousHasNoIdentity(t *testing.T) {
	s := Anonymous()
	if s.Authenticated() {
		t.Fatalf("anonymous session reports authenticated")
	}
	if s.Username != "" || s.Role != "" || s.Level != "" || s.Department != "" || s.FullName != "" {
		t.Fatalf("anonymous session carries identity fields: %+v", s)
	}
	if s.IsStudent() || s.IsTeacher() || s.IsParent() || s.IsAdmin() {
		t.Fatalf("anonymous session has a role flag set")
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"student":  RoleStudent,
		"Teacher":  RoleTeacher,
		" PARENT ": RoleParent,
		"Admin":    RoleAdmin,
	}
	for raw, expect := range cases {
		role, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", raw, err)
		}
		if role != expect {
			t.Fatalf("ParseRole(%q) = %s, want %s", raw, role, expect)
		}
	}
	if _, err := ParseRole("principal"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := ParseRole(""); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for empty role, got %v", err)
	}
}

func TestExactlyOneFlagPerRole(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleTeacher, RoleParent, RoleAdmin} {
		s, err := NewAuthenticated("tok", "u", string(role), "", "", "")
		if err != nil {
			t.Fatalf("NewAuthenticated(%s) error: %v", role, err)
		}
		flags := 0
		for _, f := range []bool{s.IsStudent(), s.IsTeacher(), s.IsParent(), s.IsAdmin()} {
			if f {
				flags++
			}
		}
		if flags != 1 {
			t.Fatalf("role %s: expected exactly one flag, got %d", role, flags)
		}
	}
}

func TestNewAuthenticatedNormalizesRole(t *testing.T) {
	s, err := NewAuthenticated("abc", "alice", "Student", "SS2", "Science", "Alice A.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role != RoleStudent {
		t.Fatalf("expected role student, got %s", s.Role)
	}
	if !s.IsStudent() || s.IsAdmin() || s.IsTeacher() || s.IsParent() {
		t.Fatalf("derived flags wrong: %+v", s)
	}
	if s.Level != "ss2" || s.Department != "science" {
		t.Fatalf("expected lower-cased level/department, got %q/%q", s.Level, s.Department)
	}
	if s.FullName != "Alice A." {
		t.Fatalf("full name mangled: %q", s.FullName)
	}
}

func TestStudentProfileNormalization(t *testing.T) {
	cases := []struct {
		name       string
		role       string
		level      string
		department string
		wantLevel  string
		wantDept   string
	}{
		{"senior keeps department", "student", "SS2", "Science", "ss2", "science"},
		{"junior drops department", "student", "jss1", "Science", "jss1", ""},
		{"teacher drops filler", "teacher", "teacher", "teacher", "", ""},
		{"admin drops filler", "admin", "admin", "admin", "", ""},
		{"parent drops filler", "parent", "parent", "parent", "", ""},
	}
	for _, tc := range cases {
		s, err := NewAuthenticated("tok", "u", tc.role, tc.level, tc.department, "")
		if err != nil {
			t.Fatalf("%s: error: %v", tc.name, err)
		}
		if s.Level != tc.wantLevel || s.Department != tc.wantDept {
			t.Fatalf("%s: got level=%q dept=%q, want %q/%q", tc.name, s.Level, s.Department, tc.wantLevel, tc.wantDept)
		}
	}
}

func TestNewAuthenticatedRejectsBadInput(t *testing.T) {
	if _, err := NewAuthenticated("", "u", "student", "", "", ""); err == nil {
		t.Fatalf("expected error for missing token")
	}
	if _, err := NewAuthenticated("tok", "u", "wizard", "", "", ""); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestHomePath(t *testing.T) {
	if RoleStudent.HomePath() != "/student-dashboard" {
		t.Fatalf("unexpected student home: %s", RoleStudent.HomePath())
	}
	if RoleAdmin.HomePath() != "/admin-dashboard" {
		t.Fatalf("unexpected admin home: %s", RoleAdmin.HomePath())
	}
}
