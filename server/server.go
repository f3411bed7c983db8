// Package server composes the serveradmin web surfaces and runs them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"serveradmin/admin"
	"serveradmin/api"
	"serveradmin/config"
	"serveradmin/graphite"
	aphttp "serveradmin/http"
	"serveradmin/inventory"
	"serveradmin/logreport"
	"serveradmin/servershell"
	apsql "serveradmin/sql"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const (
	graphitePrefix    = "/graphite"
	servershellPrefix = "/servershell"
)

// Server encapsulates the web server.
type Server struct {
	conf        config.Configuration
	db          *apsql.DB
	inventory   *inventory.Inventory
	collections *graphite.CollectionCache
	sessions    *sessionStore
	router      *mux.Router
}

// NewServer builds a new server and its routes.
func NewServer(conf config.Configuration, db *apsql.DB) (*Server, error) {
	store, err := setupSessions(conf.Web)
	if err != nil {
		return nil, err
	}

	s := &Server{
		conf:        conf,
		db:          db,
		inventory:   inventory.New(db),
		collections: graphite.NewCollectionCache(db),
		sessions:    store,
		router:      mux.NewRouter(),
	}
	s.route()
	return s, nil
}

func (s *Server) route() {
	api.Setup(s.router, s.inventory, s.db, s.conf)
	admin.Setup(s.router, s.db, s.conf)

	requestIDHeader := s.conf.Web.RequestIDHeader
	web := aphttp.NewAccessLoggingRouter(config.Web, requestIDHeader, s.router)
	RouteSessions(web, s.db, s.sessions)

	var graphs aphttp.Router
	graphs = aphttp.NewAccessLoggingRouter(config.Graphite, requestIDHeader,
		s.router.PathPrefix(graphitePrefix).Subrouter())
	graphs = NewSessionAuthRouter(graphs, s.db, s.sessions, nil)
	graphite.Route(graphs, graphite.NewViews(s.inventory, s.collections, s.conf.Graphite))

	var shell aphttp.Router
	shell = aphttp.NewAccessLoggingRouter(config.Web, requestIDHeader,
		s.router.PathPrefix(servershellPrefix).Subrouter())
	shell = NewSessionAuthRouter(shell, s.db, s.sessions, nil)
	servershell.Route(shell, s.inventory, s.db)

	s.router.NotFoundHandler = aphttp.AccessLoggingHandler(config.Web, requestIDHeader,
		http.NotFoundHandler())
}

// Handler returns the handler serving all routes.
func (s *Server) Handler() http.Handler {
	return handlers.ProxyHeaders(s.router)
}

// Run runs the server until the context is done, then shuts it down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen := fmt.Sprintf("%s:%d", s.conf.Web.Host, s.conf.Web.Port)
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logreport.Printf("%s Server listening at %s", config.System, listen)
		logreport.Printf("%s Admin available at %s%s", config.Admin, listen, s.conf.Admin.PathPrefix)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logreport.Printf("%s Shutting down", config.System)
		timeout := time.Duration(s.conf.Web.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
