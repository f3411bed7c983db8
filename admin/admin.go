// Package admin serves the JSON admin interface for the records that are
// not part of the inventory: API applications, users, attributes and
// graph rules.
package admin

import (
	"serveradmin/config"
	aphttp "serveradmin/http"
	apsql "serveradmin/sql"

	"github.com/gorilla/mux"
)

// Setup adds the admin routes below the configured path prefix. All of them
// are protected by HTTP basic authentication.
func Setup(router *mux.Router, db *apsql.DB, configuration config.Configuration) {
	conf := configuration.Admin
	var admin aphttp.Router
	admin = aphttp.NewAccessLoggingRouter(config.Admin, configuration.Web.RequestIDHeader,
		subrouter(router, conf))

	if conf.CORSEnabled {
		admin = aphttp.NewCORSAwareRouter(conf.CORSOrigin, admin)
	}

	admin = aphttp.NewHTTPBasicRouter(conf.Username, conf.Password, conf.Realm, admin)
	Route(admin, db, conf)
}

// Route adds the admin resources to the router.
func Route(router aphttp.Router, db *apsql.DB, conf config.WebAdmin) {
	RouteUndeletableResource(&ApplicationsController{}, "/applications", router, db, conf)
	RouteResource(&UsersController{}, "/users", router, db, conf)
	RouteResource(&AttributesController{}, "/attributes", router, db, conf)
	RouteResource(&CollectionsController{}, "/collections", router, db, conf)
	RouteResource(&TemplatesController{}, "/collections/{collectionID}/templates", router, db, conf)
	RouteResource(&VariationsController{}, "/collections/{collectionID}/variations", router, db, conf)
}

func subrouter(router *mux.Router, conf config.WebAdmin) *mux.Router {
	adminRoute := router.NewRoute()
	if conf.PathPrefix != "" {
		adminRoute = adminRoute.PathPrefix(conf.PathPrefix)
	}
	return adminRoute.Subrouter()
}
