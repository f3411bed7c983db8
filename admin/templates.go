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

// TemplatesController manages the templates of the collection in the path.
type TemplatesController struct{}

// List lists the templates of the collection.
func (c *TemplatesController) List(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	templates, err := model.AllTemplatesForCollectionID(db, collectionIDFromPath(r))
	if err != nil {
		logreport.Printf("%s Error listing templates: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	return c.serializeCollection(templates, w)
}

// Create creates the template.
func (c *TemplatesController) Create(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, true)
}

// Show shows the template.
func (c *TemplatesController) Show(w http.ResponseWriter, r *http.Request,
	db *apsql.DB) aphttp.Error {

	template, err := model.FindTemplateForCollectionID(db, instanceID(r), collectionIDFromPath(r))
	if err != nil {
		return aphttp.NotFound("No template matches")
	}
	return c.serializeInstance(template, w)
}

// Update updates the template.
func (c *TemplatesController) Update(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {
	return c.insertOrUpdate(w, r, tx, false)
}

// Delete deletes the template.
func (c *TemplatesController) Delete(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx) aphttp.Error {

	err := model.DeleteTemplateForCollectionID(tx, instanceID(r), collectionIDFromPath(r))
	if err == apsql.ErrZeroRowsAffected {
		return aphttp.NotFound("No template matches")
	}
	if err != nil {
		logreport.Printf("%s Error deleting template: %v", config.Admin, err)
		return aphttp.DefaultServerError()
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *TemplatesController) insertOrUpdate(w http.ResponseWriter, r *http.Request,
	tx *apsql.Tx, isInsert bool) aphttp.Error {

	template, httpErr := c.deserializeInstance(r)
	if httpErr != nil {
		return httpErr
	}
	template.CollectionID = collectionIDFromPath(r)
	if !isInsert {
		template.ID = instanceID(r)
	}

	if validationErrors := template.Validate(); !validationErrors.Empty() {
		return validationError(validationErrors)
	}

	var method func(*apsql.Tx) error
	var desc string
	if isInsert {
		method = template.Insert
		desc = "inserting"
	} else {
		method = template.Update
		desc = "updating"
	}

	if err := method(tx); err != nil {
		if err == apsql.ErrZeroRowsAffected {
			return aphttp.NotFound("No template matches")
		}
		validationErrors := template.ValidateFromDatabaseError(err)
		if !validationErrors.Empty() {
			return validationError(validationErrors)
		}
		logreport.Printf("%s Error %s template: %v", config.Admin, desc, err)
		return aphttp.NewServerError(fmt.Errorf("Error %s template", desc))
	}

	return c.serializeInstance(template, w)
}

func (c *TemplatesController) deserializeInstance(r *http.Request) (*model.Template,
	aphttp.Error) {

	var wrapped struct {
		Template *model.Template `json:"template"`
	}
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.Template == nil {
		return nil, aphttp.BadRequest("Missing template")
	}
	return wrapped.Template, nil
}

func (c *TemplatesController) serializeInstance(instance *model.Template,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Template *model.Template `json:"template"`
	}{instance}
	return serialize(wrapped, w)
}

func (c *TemplatesController) serializeCollection(collection []*model.Template,
	w http.ResponseWriter) aphttp.Error {

	wrapped := struct {
		Templates []*model.Template `json:"templates"`
	}{collection}
	return serialize(wrapped, w)
}
