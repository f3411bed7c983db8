package admin

import (
	"fmt"
	"net/http"

	"serveradmin/config"
	aphttp "serveradmin/http"
	"serveradmin/logreport"
	"serveradmin/model"
	apsql "serveradmin/sql"

	"github.com/gorilla/mux"
)

// AttributesController manages the attribute definitions. Attributes are
// identified by their attribute_id instead of a numeric id.
type AttributesController struct{}

func attributeID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// List lists the attributes.
func (c *AttributesController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	attributes, err := model.AllAttributes(db)
	if err != nil {
		logreport.Printf("%s Error listing attributes: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(attributes, w)
}

// Create creates the attribute.
func (c *AttributesController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the attribute.
func (c *AttributesController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	attribute, err := model.FindAttribute(db, attributeID(r))
	if err != nil {
		return aphttp.NotFound("No attribute matches")
	}
	return c.serializeInstance(attribute, w)
}

// Update updates the attribute. The attribute_id itself cannot change.
func (c *AttributesController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

// Delete deletes the attribute along with its values.
func (c *AttributesController) Delete(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {

	err := model.DeleteAttribute(tx, attributeID(r))
	if err == apsql.ErrZeroRowsAffected {
		return aphttp.NotFound("No attribute matches")
	}
	if err != nil {
		logreport.Printf("%s Error deleting attribute: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *AttributesController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	attribute, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	if !isInsert {
		attribute.AttributeID = attributeID(r)
	}

	if validationErrors := attribute.Validate(); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = attribute.Insert
		desc = "inserting"
	} else {
		method = attribute.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No attribute matches")
		}
		validationErrors := attribute.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s attribute: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s attribute", desc))
	}

	return c.serializeInstance(attribute, w)
}

func (c *AttributesController) deserializeInstance(r *http.Request) (*model.Attribute,
	aphttp.Error) {

	var wrapped struct {
		Attribute *model.Attribute `json:"attribute"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.Attribute == nil {
		return nil, aphttp.BadRequest("Missing attribute")
	}
	return wrapped.Attribute, nil
}

func (c *AttributesController) serializeInstance(instance *model.Attribute,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Attribute *model.Attribute `json:"attribute"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *AttributesController) serializeCollection(collection []*model.Attribute,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Attributes []*model.Attribute `json:"attributes"`
	}{collection}
	return serialize(wrapped, w)
}
