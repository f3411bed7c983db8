package servershell

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"serveradmin/config"
	aphttp "serveradmin/http"
	"serveradmin/inventory"
	"serveradmin/logreport"
	"serveradmin/model"
	apsql "serveradmin/sql"

	"github.com/gorilla/handlers"
)

// Route adds the completion endpoints to the router.
func Route(router aphttp.Router, inv *inventory.Inventory, db *apsql.DB) {
	router.Handle("/attributes", handlers.MethodHandler{
		"GET": aphttp.JSONErrorCatchingHandler(AttributesHandler(inv)),
	})
	router.Handle("/servertypes", handlers.MethodHandler{
		"GET": aphttp.JSONErrorCatchingHandler(ServertypesHandler(db)),
	})
}

// AttributesHandler completes attribute ids.
func AttributesHandler(inv *inventory.Inventory) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		byID, err := inv.Attributes()
		if err != nil {
			logreport.Printf("%s [req %s] Error loading attributes: %v", config.Web, aphttp.RequestID(r), err)
			return aphttp.DefaultServerError()
		}
		attributes := make([]*model.Attribute, 0, len(byID))
		for _, a := range byID {
			attributes = append(attributes, a)
		}

		params := r.URL.Query()
		options := AttributeOptions{
			Search:        params.Get("search"),
			ExcludeMulti:  isSet(params.Get("exclude_multi")),
			ExcludeSingle: isSet(params.Get("exclude_single")),
		}
		for _, exclude := range params["exclude"] {
			for _, id := range strings.Split(exclude, ",") {
				if id != "" {
					options.Exclude = append(options.Exclude, id)
				}
			}
		}
		return writeJSON(w, r, CompleteAttributes(attributes, options))
	}
}

// ServertypesHandler completes the servertypes in use.
func ServertypesHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		servers, err := model.AllServers(db)
		if err != nil {
			logreport.Printf("%s [req %s] Error loading servers: %v", config.Web, aphttp.RequestID(r), err)
			return aphttp.DefaultServerError()
		}
		seen := make(map[string]bool)
		servertypes := []string{}
		for _, s := range servers {
			if !seen[s.Servertype] {
				seen[s.Servertype] = true
				servertypes = append(servertypes, s.Servertype)
			}
		}
		sort.Strings(servertypes)
		return writeJSON(w, r, CompleteServertypes(servertypes, r.URL.Query().Get("search")))
	}
}

func isSet(value string) bool {
	switch value {
	case "", "0", "false":
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, data interface{}) aphttp.Error {
	body, err := json.Marshal(data)
	if err != nil {
		logreport.Printf("%s [req %s] Error serializing completions: %v", config.Web, aphttp.RequestID(r), err)
		return aphttp.DefaultServerError()
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
	return nil
}
