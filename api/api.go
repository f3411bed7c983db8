// Package api serves the remote query API used by adminapi clients.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"serveradmin/config"
	"serveradmin/dataset"
	aphttp "serveradmin/http"
	"serveradmin/inventory"
	"serveradmin/query"
	apsql "serveradmin/sql"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Setup adds the API routes below the configured path prefix.
func Setup(router *mux.Router, inv *inventory.Inventory, db *apsql.DB, conf config.Configuration) {
	var api aphttp.Router
	api = aphttp.NewAccessLoggingRouter(config.API, conf.Web.RequestIDHeader,
		router.PathPrefix(conf.API.PathPrefix).Subrouter())
	api = NewTokenAuthRouter(db, conf.API.MaxClockSkew, api)
	Route(api, inv)
}

// Route adds the dataset endpoints to an authenticating router.
func Route(router aphttp.Router, inv *inventory.Inventory) {
	router.Handle("/dataset/query", handlers.MethodHandler{
		"POST": JSONResponseHandler(QueryHandler(inv)),
	})
	router.Handle("/dataset/commit", handlers.MethodHandler{
		"POST": JSONResponseHandler(CommitHandler(inv)),
	})
}

// QueryHandler returns a handler that runs a query.
func QueryHandler(inv *inventory.Inventory) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		var q inventory.Query
		if err := decode(r, &q); err != nil {
			return err
		}
		if q.Filters == nil {
			q.Filters = query.Filters{}
		}
		objects, err := inv.Query(q)
		if err != nil {
			return errorFor(r, err)
		}
		return writeSuccess(w, objects)
	}
}

// CommitHandler returns a handler that commits changes. Only superuser
// applications may commit.
func CommitHandler(inv *inventory.Inventory) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		if app := requestApplication(r); app == nil || !app.Superuser {
			return permissionDenied("Application is not allowed to commit")
		}
		var commit dataset.Commit
		if err := decode(r, &commit); err != nil {
			return err
		}
		if err := inv.Commit(&commit); err != nil {
			return errorFor(r, err)
		}
		return writeSuccess(w, nil)
	}
}

func decode(r *http.Request, dest interface{}) aphttp.Error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return aphttp.BadRequest("Could not read request body")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errorFor(r, dataset.NewError("Invalid request: %v", err))
	}
	return nil
}
