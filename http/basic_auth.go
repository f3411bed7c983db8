package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// NewHTTPBasicRouter wraps the router.
func NewHTTPBasicRouter(username, password, realm string, router Router) Router {
	return &BasicAuthRouter{username, password, realm, router}
}

// BasicAuthRouter wraps all Handle calls in an HTTP Basic check.
type BasicAuthRouter struct {
	username string
	password string
	realm    string
	router   Router
}

// Handle wraps the handler in an HTTP Basic check for the router.
func (b *BasicAuthRouter) Handle(pattern string, handler http.Handler) *mux.Route {
	return b.router.Handle(pattern, b.Wrap(handler))
}

// Wrap provides the wrapped handling functionality.
func (b *BasicAuthRouter) Wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.checkAuth(r) {
			handler.ServeHTTP(w, r)
			return
		}

		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf(`Basic realm="%s"`, b.realm))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("401 Unauthorized\n"))
	})
}

// An empty password never authenticates.
func (b *BasicAuthRouter) checkAuth(r *http.Request) bool {
	if b.password == "" {
		return false
	}
	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(b.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(b.password)) == 1
	return userOK && passOK
}
