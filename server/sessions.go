package server

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"serveradmin/config"
	aphttp "serveradmin/http"
	"serveradmin/logreport"
	"serveradmin/model"
	apsql "serveradmin/sql"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

const (
	userIDKey = "user_id"

	loginPath  = "/login"
	logoutPath = "/logout"
)

type sessionStore struct {
	store sessions.Store
	name  string
}

func setupSessions(conf config.WebServer) (*sessionStore, error) {
	if conf.AuthKey == "" {
		return nil, errors.New("Web session auth key is required.")
	}

	keyPairs := [][]byte{[]byte(conf.AuthKey)}
	if conf.EncryptionKey != "" {
		keyPairs = append(keyPairs, []byte(conf.EncryptionKey))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(conf.SessionMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionStore{store: store, name: conf.SessionName}, nil
}

// requestSession returns the session of the request. A cookie that does not
// decode yields a new, empty session.
func (s *sessionStore) requestSession(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		logreport.Printf("%s [req %s] Discarding invalid session: %v",
			config.Web, aphttp.RequestID(r), err)
	}
	return session
}

// RouteSessions routes the login form and the logout action.
func RouteSessions(router aphttp.Router, db *apsql.DB, store *sessionStore) {
	router.Handle(loginPath, handlers.MethodHandler{
		"GET":  aphttp.ErrorCatchingHandler(LoginFormHandler()),
		"POST": aphttp.ErrorCatchingHandler(NewSessionHandler(db, store)),
	})
	router.Handle(logoutPath, handlers.MethodHandler{
		"POST": aphttp.ErrorCatchingHandler(DeleteSessionHandler(store)),
	})
}

type loginContext struct {
	Username string
	Next     string
	Error    string
}

// LoginFormHandler renders the login form.
func LoginFormHandler() aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		return renderLogin(w, http.StatusOK, loginContext{Next: r.URL.Query().Get("next")})
	}
}

// NewSessionHandler returns a handler that adds the user to the session if
// the credentials are valid, then redirects to the page that asked for
// the login.
func NewSessionHandler(db *apsql.DB, store *sessionStore) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		if err := r.ParseForm(); err != nil {
			return aphttp.BadRequest("Invalid form")
		}
		username := r.PostForm.Get("username")
		next := r.PostForm.Get("next")

		user, err := model.FindUserByUsernameAndPassword(db, username, r.PostForm.Get("password"))
		if err != nil {
			logreport.Printf("%s [req %s] Failed login for '%s'",
				config.Web, aphttp.RequestID(r), username)
			return renderLogin(w, http.StatusUnauthorized, loginContext{
				Username: username,
				Next:     next,
				Error:    "Please enter a correct username and password.",
			})
		}

		session := store.requestSession(r)
		session.Values[userIDKey] = user.ID
		if err := session.Save(r, w); err != nil {
			logreport.Printf("%s Error saving session: %v", config.Web, err)
			return aphttp.DefaultServerError()
		}

		http.Redirect(w, r, safeNext(next), http.StatusFound)
		return nil
	}
}

// DeleteSessionHandler returns a handler that removes the user from the
// session.
func DeleteSessionHandler(store *sessionStore) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		session := store.requestSession(r)
		delete(session.Values, userIDKey)
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			logreport.Printf("%s Error saving session: %v", config.Web, err)
			return aphttp.DefaultServerError()
		}

		http.Redirect(w, r, loginPath, http.StatusFound)
		return nil
	}
}

// Only local paths are followed after a login.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// SessionAuthRouter wraps all Handle calls in a check for a logged in user.
type SessionAuthRouter struct {
	router  aphttp.Router
	db      *apsql.DB
	store   *sessionStore
	methods map[string]bool
}

// NewSessionAuthRouter wraps the router. Requests with one of the given
// methods pass without a session.
func NewSessionAuthRouter(router aphttp.Router, db *apsql.DB, store *sessionStore,
	methods []string) *SessionAuthRouter {

	allowed := make(map[string]bool)
	for _, method := range methods {
		allowed[method] = true
	}
	return &SessionAuthRouter{router: router, db: db, store: store, methods: allowed}
}

// Handle wraps the handler in a session check for the router.
func (s *SessionAuthRouter) Handle(pattern string, handler http.Handler) *mux.Route {
	return s.router.Handle(pattern, s.Wrap(handler))
}

// Wrap provides the wrapped handling functionality. Anonymous requests are
// redirected to the login form.
func (s *SessionAuthRouter) Wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.methods[r.Method] {
			handler.ServeHTTP(w, r)
			return
		}

		session := s.store.requestSession(r)
		if userID, ok := session.Values[userIDKey].(int64); ok {
			if _, err := model.FindUser(s.db, userID); err == nil {
				handler.ServeHTTP(w, aphttp.WithValue(r, aphttp.ContextUserIDKey, userID))
				return
			}
		}

		target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func renderLogin(w http.ResponseWriter, code int, context loginContext) aphttp.Error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := loginTemplate.Execute(w, context); err != nil {
		logreport.Printf("%s Error rendering login: %v", config.Web, err)
	}
	return nil
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Log in | Serveradmin</title>
</head>
<body>
{{if .Error}}<p class="error">{{.Error}}</p>
{{end}}<form method="post" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Username <input type="text" name="username" value="{{.Username}}" autofocus></label>
  <label>Password <input type="password" name="password"></label>
  <input type="submit" value="Log in">
</form>
</body>
</html>
`))
