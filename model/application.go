package model

import (
	"serveradmin/crypto"
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

const authTokenLength = 24

// Application holds the credentials of a remote API client.
type Application struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Author    string `json:"author"`
	Location  string `json:"location"`
	AuthToken string `json:"auth_token" db:"auth_token"`
	AppID     string `json:"app_id" db:"app_id"`
	Superuser bool   `json:"superuser"`
	Disabled  bool   `json:"disabled"`
}

// Validate validates the model.
func (a *Application) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if a.Name == "" {
		errors.Add("name", "must not be blank")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (a *Application) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "applications", "name", "name")
	addTaken(errors, err, "applications", "auth_token", "auth_token")
	addTaken(errors, err, "applications", "auth_token", "app_id")
	return errors
}

// AllApplications returns all applications ordered by name.
func AllApplications(db *apsql.DB) ([]*Application, error) {
	applications := []*Application{}
	err := db.Select(&applications, db.SQL("applications/all"))
	return applications, err
}

// FindApplication returns the application with the id specified.
func FindApplication(db *apsql.DB, id int64) (*Application, error) {
	application := Application{}
	err := db.Get(&application, db.SQL("applications/find"), id)
	return &application, err
}

// FindApplicationByAppID returns the application a client identifies as.
func FindApplicationByAppID(db *apsql.DB, appID string) (*Application, error) {
	application := Application{}
	err := db.Get(&application, db.SQL("applications/find_by_app_id"), appID)
	return &application, err
}

// prepare generates a token when none was given and derives the app id.
func (a *Application) prepare() error {
	if a.AuthToken == "" {
		token, err := crypto.RandomToken(authTokenLength)
		if err != nil {
			return err
		}
		a.AuthToken = token
	}
	a.AppID = crypto.ApplicationID(a.AuthToken)
	return nil
}

// Insert inserts the application into the database as a new row.
func (a *Application) Insert(tx *apsql.Tx) (err error) {
	if err = a.prepare(); err != nil {
		return err
	}
	a.ID, err = tx.InsertOne(tx.SQL("applications/insert"),
		a.Name, a.Author, a.Location, a.AuthToken, a.AppID, a.Superuser, a.Disabled)
	if err != nil {
		return err
	}
	return tx.Notify("applications", a.ID, apsql.Insert)
}

// Update updates the application in the database.
func (a *Application) Update(tx *apsql.Tx) error {
	if err := a.prepare(); err != nil {
		return err
	}
	err := tx.UpdateOne(tx.SQL("applications/update"),
		a.Name, a.Author, a.Location, a.AuthToken, a.AppID, a.Superuser, a.Disabled, a.ID)
	if err != nil {
		return err
	}
	return tx.Notify("applications", a.ID, apsql.Update)
}
