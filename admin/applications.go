package admin

import (
	"fmt"
	"net/http"

	"serveradmin/config"
	aphttp "serveradmin/http"
	"serveradmin/logreport"
	"serveradmin/model"
	apsql "serveradmin/sql"
)

// ApplicationsController manages the credentials of API clients. They
// cannot be deleted, only disabled.
type ApplicationsController struct{}

// List lists the applications.
func (c *ApplicationsController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	applications, err := model.AllApplications(db)
	if err != nil {
		logreport.Printf("%s Error listing applications: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(applications, w)
}

// Create creates the application. A token is generated unless one is
// given.
func (c *ApplicationsController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the application.
func (c *ApplicationsController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	id := instanceID(r)
	application, err := model.FindApplication(db, id)
	if err != nil {
		return aphttp.NotFound("No application matches")
	}
	return c.serializeInstance(application, w)
}

// Update updates the application. A blank token is replaced by a new one.
func (c *ApplicationsController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

func (c *ApplicationsController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	application, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	if !isInsert {
		application.ID = instanceID(r)
	}

	if validationErrors := application.Validate(); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = application.Insert
		desc = "inserting"
	} else {
		method = application.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No application matches")
		}
		validationErrors := application.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s application: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s application", desc))
	}

	return c.serializeInstance(application, w)
}

func (c *ApplicationsController) deserializeInstance(r *http.Request) (*model.Application,
	aphttp.Error) {

	var wrapped struct {
		Application *model.Application `json:"application"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.Application == nil {
		return nil, aphttp.BadRequest("Missing application")
	}
	return wrapped.Application, nil
}

func (c *ApplicationsController) serializeInstance(instance *model.Application,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Application *model.Application `json:"application"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *ApplicationsController) serializeCollection(collection []*model.Application,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Applications []*model.Application `json:"applications"`
	}{collection}
	return serialize(wrapped, w)
}
