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

// CollectionsController manages the graph collections.
type CollectionsController struct{}

// List lists the collections.
func (c *CollectionsController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	collections, err := model.AllCollections(db)
	if err != nil {
		logreport.Printf("%s Error listing collections: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(collections, w)
}

// Create creates the collection.
func (c *CollectionsController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the collection.
func (c *CollectionsController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	collection, err := model.FindCollection(db, instanceID(r))
	if err != nil {
		return aphttp.NotFound("No collection matches")
	}
	return c.serializeInstance(collection, w)
}

// Update updates the collection.
func (c *CollectionsController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

// Delete deletes the collection with its templates and variations.
func (c *CollectionsController) Delete(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {

	err := model.DeleteCollection(tx, instanceID(r))
	if err == apsql.ErrZeroRowsAffected {
		return aphttp.NotFound("No collection matches")
	}
	if err != nil {
		logreport.Printf("%s Error deleting collection: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *CollectionsController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	collection, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	if !isInsert {
		collection.ID = instanceID(r)
	}

	if validationErrors := collection.Validate(); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = collection.Insert
		desc = "inserting"
	} else {
		method = collection.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No collection matches")
		}
		validationErrors := collection.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s collection: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s collection", desc))
	}

	return c.serializeInstance(collection, w)
}

func (c *CollectionsController) deserializeInstance(r *http.Request) (*model.Collection,
	aphttp.Error) {

	var wrapped struct {
		Collection *model.Collection `json:"collection"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.Collection == nil {
		return nil, aphttp.BadRequest("Missing collection")
	}
	return wrapped.Collection, nil
}

func (c *CollectionsController) serializeInstance(instance *model.Collection,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Collection *model.Collection `json:"collection"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *CollectionsController) serializeCollection(collection []*model.Collection,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Collections []*model.Collection `json:"collections"`
	}{collection}
	return serialize(wrapped, w)
}
