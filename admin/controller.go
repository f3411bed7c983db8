package admin

import (
	"net/http"

	"serveradmin/config"
	aphttp "serveradmin/http"
	apsql "serveradmin/sql"

	"github.com/gorilla/handlers"
)

// UndeletableResourceController defines what we expect a controller to do
// to route a RESTful resource that cannot be deleted.
type UndeletableResourceController interface {
	List(w http.ResponseWriter, r *http.Request, db *apsql.DB) aphttp.Error
	Create(w http.ResponseWriter, r *http.Request, tx *apsql.Tx) aphttp.Error
	Show(w http.ResponseWriter, r *http.Request, db *apsql.DB) aphttp.Error
	Update(w http.ResponseWriter, r *http.Request, tx *apsql.Tx) aphttp.Error
}

// ResourceController defines what we expect a controller to do to route
// a RESTful resource
type ResourceController interface {
	UndeletableResourceController
	Delete(w http.ResponseWriter, r *http.Request, tx *apsql.Tx) aphttp.Error
}

// RouteResource routes the collection and instance endpoints of a resource.
func RouteResource(controller ResourceController, path string,
	router aphttp.Router, db *apsql.DB, conf config.WebAdmin) {
	routeResource(controller, path, router, db, conf, write(db, controller.Delete))
}

// RouteUndeletableResource routes a resource without its DELETE endpoint,
// which then answers 405.
func RouteUndeletableResource(controller UndeletableResourceController, path string,
	router aphttp.Router, db *apsql.DB, conf config.WebAdmin) {
	routeResource(controller, path, router, db, conf, nil)
}

func routeResource(controller UndeletableResourceController, path string,
	router aphttp.Router, db *apsql.DB, conf config.WebAdmin, deleteHandler http.Handler) {

	collectionRoutes := map[string]http.Handler{
		"GET":  read(db, controller.List),
		"POST": write(db, controller.Create),
	}
	instanceRoutes := map[string]http.Handler{
		"GET": read(db, controller.Show),
		"PUT": write(db, controller.Update),
	}
	instanceMethods := []string{"GET", "PUT", "OPTIONS"}
	if deleteHandler != nil {
		instanceRoutes["DELETE"] = deleteHandler
		instanceMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	}

	if conf.CORSEnabled {
		collectionRoutes["OPTIONS"] = aphttp.CORSOptionsHandler([]string{"GET", "POST", "OPTIONS"})
		instanceRoutes["OPTIONS"] = aphttp.CORSOptionsHandler(instanceMethods)
	}

	router.Handle(path, handlers.MethodHandler(collectionRoutes))
	router.Handle(path+"/{id}",
		handlers.HTTPMethodOverrideHandler(handlers.MethodHandler(instanceRoutes)))
}

func read(db *apsql.DB, handler DatabaseAwareHandler) http.Handler {
	return aphttp.JSONErrorCatchingHandler(DatabaseWrappedHandler(db, handler))
}

func write(db *apsql.DB, handler TransactionAwareHandler) http.Handler {
	return aphttp.JSONErrorCatchingHandler(TransactionWrappedHandler(db, handler))
}
