package model

import (
	"net/url"
	"regexp"

	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

var summarizeIntervalPattern = regexp.MustCompile(`^[0-9]+(s|min|h|d|w|mon|y)$`)

// Variation renders every template of a collection with other parameters,
// usually another time range.
type Variation struct {
	ID                int64  `json:"id"`
	CollectionID      int64  `json:"collection_id" db:"collection_id"`
	Name              string `json:"name"`
	Params            string `json:"params"`
	SummarizeInterval string `json:"summarize_interval" db:"summarize_interval"`
	SortOrder         int64  `json:"sort_order" db:"sort_order"`
}

// Validate validates the model.
func (v *Variation) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if v.Name == "" {
		errors.Add("name", "must not be blank")
	}
	if _, err := url.ParseQuery(v.Params); err != nil {
		errors.Add("params", "must be a valid query string")
	}
	if v.SummarizeInterval != "" && !summarizeIntervalPattern.MatchString(v.SummarizeInterval) {
		errors.Add("summarize_interval", "must look like 10min, 1h or 1d")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (v *Variation) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "graph_variations", "name", "collection_id", "name")
	return errors
}

// AllVariations returns the variations of all collections.
func AllVariations(db *apsql.DB) ([]*Variation, error) {
	variations := []*Variation{}
	err := db.Select(&variations, db.SQL("graph_variations/all"))
	return variations, err
}

// AllVariationsForCollectionID returns the collection's variations in sort order.
func AllVariationsForCollectionID(db *apsql.DB, collectionID int64) ([]*Variation, error) {
	variations := []*Variation{}
	err := db.Select(&variations, db.SQL("graph_variations/all_for_collection"), collectionID)
	return variations, err
}

// FindVariationForCollectionID returns the variation with the id specified.
func FindVariationForCollectionID(db *apsql.DB, id, collectionID int64) (*Variation, error) {
	variation := Variation{}
	err := db.Get(&variation, db.SQL("graph_variations/find"), id, collectionID)
	return &variation, err
}

// DeleteVariationForCollectionID deletes the variation with the id specified.
func DeleteVariationForCollectionID(tx *apsql.Tx, id, collectionID int64) error {
	if err := tx.DeleteOne(tx.SQL("graph_variations/delete"), id, collectionID); err != nil {
		return err
	}
	return tx.Notify("graph_variations", id, apsql.Delete)
}

// Insert inserts the variation into the database as a new row.
func (v *Variation) Insert(tx *apsql.Tx) (err error) {
	v.ID, err = tx.InsertOne(tx.SQL("graph_variations/insert"),
		v.CollectionID, v.Name, v.Params, v.SummarizeInterval, v.SortOrder)
	if err != nil {
		return err
	}
	return tx.Notify("graph_variations", v.ID, apsql.Insert)
}

// Update updates the variation in the database.
func (v *Variation) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(tx.SQL("graph_variations/update"),
		v.Name, v.Params, v.SummarizeInterval, v.SortOrder, v.ID, v.CollectionID)
	if err != nil {
		return err
	}
	return tx.Notify("graph_variations", v.ID, apsql.Update)
}
