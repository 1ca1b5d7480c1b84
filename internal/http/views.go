package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"classhub/gateway/internal/session"
)

// The gateway serves deliberately bare pages: the dashboards are placeholders
// whose only job is to sit behind the guards.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "login"}}<!doctype html>
<title>Login</title>
<h1>Welcome Back</h1>
<form method="post" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <input type="text" name="username" placeholder="Username" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Login</button>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</form>
{{end}}

{{define "home"}}<!doctype html>
<title>Classhub</title>
<h1>Classhub</h1>
{{if .Authenticated}}<p>Signed in as {{.Name}}.</p><p><a href="{{.Home}}">Go to your dashboard</a></p>
{{else}}<p><a href="/login">Login</a></p>{{end}}
{{end}}

{{define "dashboard"}}<!doctype html>
<title>{{.Title}}</title>
<h1>{{.Title}}</h1>
<p>Hello, {{.Name}}.</p>
<form method="post" action="/logout"><button type="submit">Logout</button></form>
{{end}}
`))

func renderLogin(w http.ResponseWriter, status int, errMsg, next string) {
	if !safeNext(next) {
		next = ""
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplates.ExecuteTemplate(w, "login", struct {
		Error string
		Next  string
	}{Error: errMsg, Next: next})
}

func renderHome(w http.ResponseWriter, sess session.Session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Authenticated bool
		Name          string
		Home          string
	}{Authenticated: sess.Authenticated(), Name: displayName(sess)}
	if sess.Authenticated() {
		data.Home = sess.Role.HomePath()
	}
	_ = pageTemplates.ExecuteTemplate(w, "home", data)
}

func renderDashboard(w http.ResponseWriter, sess session.Session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	title := "Dashboard"
	if sess.Role.Valid() {
		title = string(sess.Role) + " dashboard"
	}
	_ = pageTemplates.ExecuteTemplate(w, "dashboard", struct {
		Title string
		Name  string
	}{Title: title, Name: displayName(sess)})
}

func displayName(sess session.Session) string {
	if sess.FullName != "" {
		return sess.FullName
	}
	return sess.Username
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
