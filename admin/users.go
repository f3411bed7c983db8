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

// UsersController manages the users allowed on the web pages.
type UsersController struct{}

// List lists the users.
func (c *UsersController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	users, err := model.AllUsers(db)
	if err != nil {
		logreport.Printf("%s Error listing users: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(users, w)
}

// Create creates the user.
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the user.
func (c *UsersController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	user, err := model.FindUser(db, instanceID(r))
	if err != nil {
		return aphttp.NotFound("No user matches")
	}
	return c.serializeInstance(user, w)
}

// Update updates the user. The password is only changed when given.
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

// Delete deletes the user.
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {

	err := model.DeleteUser(tx, instanceID(r))
	if err == apsql.ErrZeroRowsAffected {
		return aphttp.NotFound("No user matches")
	}
	if err != nil {
		logreport.Printf("%s Error deleting user: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *UsersController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	user, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	if !isInsert {
		user.ID = instanceID(r)
	}

	if validationErrors := user.Validate(isInsert); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = user.Insert
		desc = "inserting"
	} else {
		method = user.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No user matches")
		}
		validationErrors := user.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s user: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s user", desc))
	}

	return c.serializeInstance(user, w)
}

func (c *UsersController) deserializeInstance(r *http.Request) (*model.User, aphttp.Error) {
	var wrapped struct {
		User *model.User `json:"user"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.User == nil {
		return nil, aphttp.BadRequest("Missing user")
	}
	return wrapped.User, nil
}

func (c *UsersController) serializeInstance(instance *model.User,
	w http.ResponseWriter) aphttp.Error {

	instance.Password = ""
	wrapped := struct {
		User *model.User `json:"user"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *UsersController) serializeCollection(collection []*model.User,
	w http.ResponseWriter) aphttp.Error {

	for _, user := range collection {
		user.Password = ""
	}
	wrapped := struct {
		Users []*model.User `json:"users"`
	}{collection}
	return serialize(wrapped, w)
}
