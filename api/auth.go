package api

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"serveradmin/config"
	"serveradmin/crypto"
	aphttp "serveradmin/http"
	"serveradmin/logreport"
	"serveradmin/model"
	apsql "serveradmin/sql"

	"github.com/gorilla/mux"
)

// Request headers used to authenticate API clients.
const (
	ApplicationHeader   = "X-Application"
	TimestampHeader     = "X-Timestamp"
	SecurityTokenHeader = "X-SecurityToken"
)

// TokenAuthRouter wraps all Handle calls in a check of the signed
// application headers.
type TokenAuthRouter struct {
	db           *apsql.DB
	maxClockSkew int64
	now          func() time.Time
	router       aphttp.Router
}

// NewTokenAuthRouter wraps the router.
func NewTokenAuthRouter(db *apsql.DB, maxClockSkew int64, router aphttp.Router) *TokenAuthRouter {
	return &TokenAuthRouter{db: db, maxClockSkew: maxClockSkew, now: time.Now, router: router}
}

// Handle wraps the handler in a token check for the router.
func (t *TokenAuthRouter) Handle(pattern string, handler http.Handler) *mux.Route {
	return t.router.Handle(pattern, t.Wrap(handler))
}

// Wrap authenticates the request and stores the application in its
// context. The body is restored for the wrapped handler.
func (t *TokenAuthRouter) Wrap(handler http.Handler) http.Handler {
	return JSONResponseHandler(func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return aphttp.BadRequest("Could not read request body")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		app, httpErr := t.authenticate(r, body)
		if httpErr != nil {
			logreport.Printf("%s [req %s] Authentication failed: %s",
				config.API, aphttp.RequestID(r), httpErr.String())
			return httpErr
		}

		handler.ServeHTTP(w, aphttp.WithValue(r, aphttp.ContextApplicationKey, app))
		return nil
	})
}

func (t *TokenAuthRouter) authenticate(r *http.Request, body []byte) (*model.Application, aphttp.Error) {
	appID := r.Header.Get(ApplicationHeader)
	token := r.Header.Get(SecurityTokenHeader)
	timestamp, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	if appID == "" || token == "" || err != nil {
		return nil, permissionDenied("Missing authentication headers")
	}
	if math.Abs(float64(t.now().Unix()-timestamp)) > float64(t.maxClockSkew) {
		return nil, permissionDenied("Request timestamp is out of range")
	}

	app, err := model.FindApplicationByAppID(t.db, appID)
	if err != nil {
		if apsql.IsNoResult(err) {
			return nil, permissionDenied("No such application")
		}
		return nil, errorFor(r, err)
	}
	if !crypto.ValidSecurityToken(app.AuthToken, timestamp, body, token) {
		return nil, permissionDenied("Invalid security token")
	}
	if app.Disabled {
		return nil, permissionDenied("Application %s is disabled", app.Name)
	}
	return app, nil
}

// requestApplication returns the application that signed the request.
func requestApplication(r *http.Request) *model.Application {
	app, _ := r.Context().Value(aphttp.ContextApplicationKey).(*model.Application)
	return app
}
