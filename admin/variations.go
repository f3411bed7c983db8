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

// VariationsController manages the variations of the collection in the path.
type VariationsController struct{}

// List lists the variations of the collection.
func (c *VariationsController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	variations, err := model.AllVariationsForCollectionID(db, collectionIDFromPath(r))
	if err != nil {
		logreport.Printf("%s Error listing variations: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(variations, w)
}

// Create creates the variation.
func (c *VariationsController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the variation.
func (c *VariationsController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	variation, err := model.FindVariationForCollectionID(db, instanceID(r), collectionIDFromPath(r))
	if err != nil {
		return aphttp.NotFound("No variation matches")
	}
	return c.serializeInstance(variation, w)
}

// Update updates the variation.
func (c *VariationsController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

// Delete deletes the variation.
func (c *VariationsController) Delete(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {

	err := model.DeleteVariationForCollectionID(tx, instanceID(r), collectionIDFromPath(r))
	if err == apsql.ErrZeroRowsAffected {
		return aphttp.NotFound("No variation matches")
	}
	if err != nil {
		logreport.Printf("%s Error deleting variation: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *VariationsController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	variation, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	variation.CollectionID = collectionIDFromPath(r)
	if !isInsert {
		variation.ID = instanceID(r)
	}

	if validationErrors := variation.Validate(); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = variation.Insert
		desc = "inserting"
	} else {
		method = variation.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No variation matches")
		}
		validationErrors := variation.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s variation: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s variation", desc))
	}

	return c.serializeInstance(variation, w)
}

func (c *VariationsController) deserializeInstance(r *http.Request) (*model.Variation,
	aphttp.Error) {

	var wrapped struct {
		Variation *model.Variation `json:"variation"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.Variation == nil {
		return nil, aphttp.BadRequest("Missing variation")
	}
	return wrapped.Variation, nil
}

func (c *VariationsController) serializeInstance(instance *model.Variation,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Variation *model.Variation `json:"variation"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *VariationsController) serializeCollection(collection []*model.Variation,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Variations []*model.Variation `json:"variations"`
	}{collection}
	return serialize(wrapped, w)
}
