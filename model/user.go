package model

import (
	"serveradmin/crypto"
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

const passwordCost = 10

// User can log in to the web pages.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty" db:"-"`
	HashedPassword string `json:"-" db:"hashed_password"`
	Superuser      bool   `json:"superuser"`
}

// Validate validates the model.
func (u *User) Validate(isInsert bool) aperrors.Errors {
	errors := make(aperrors.Errors)
	if u.Username == "" {
		errors.Add("username", "must not be blank")
	}
	if isInsert && u.Password == "" {
		errors.Add("password", "must not be blank")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (u *User) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "users", "username", "username")
	return errors
}

// AllUsers returns all users ordered by username.
func AllUsers(db *apsql.DB) ([]*User, error) {
	users := []*User{}
	err := db.Select(&users, db.SQL("users/all"))
	return users, err
}

// FindUser returns the user with the id specified.
func FindUser(db *apsql.DB, id int64) (*User, error) {
	user := User{}
	err := db.Get(&user, db.SQL("users/find"), id)
	return &user, err
}

// FindUserByUsernameAndPassword returns the user with the given
// credentials, or an error if they do not match.
func FindUserByUsernameAndPassword(db *apsql.DB, username, password string) (*User, error) {
	user := User{}
	if err := db.Get(&user, db.SQL("users/find_for_login"), username); err != nil {
		return nil, err
	}
	if ok, err := crypto.CompareHashAndPassword(user.HashedPassword, password); !ok {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes the user with the id specified.
func DeleteUser(tx *apsql.Tx, id int64) error {
	if err := tx.DeleteOne(tx.SQL("users/delete"), id); err != nil {
		return err
	}
	return tx.Notify("users", id, apsql.Delete)
}

func (u *User) hashPassword() error {
	hashed, err := crypto.HashPassword(u.Password, passwordCost)
	if err != nil {
		return err
	}
	u.HashedPassword = hashed
	return nil
}

// Insert inserts the user into the database as a new row.
func (u *User) Insert(tx *apsql.Tx) (err error) {
	if err = u.hashPassword(); err != nil {
		return err
	}
	u.ID, err = tx.InsertOne(tx.SQL("users/insert"), u.Username, u.HashedPassword, u.Superuser)
	if err != nil {
		return err
	}
	return tx.Notify("users", u.ID, apsql.Insert)
}

// Update updates the user in the database. The password only changes when
// a new one was given.
func (u *User) Update(tx *apsql.Tx) error {
	var err error
	if u.Password != "" {
		if err = u.hashPassword(); err != nil {
			return err
		}
		err = tx.UpdateOne(tx.SQL("users/update_with_password"),
			u.Username, u.HashedPassword, u.Superuser, u.ID)
	} else {
		err = tx.UpdateOne(tx.SQL("users/update"), u.Username, u.Superuser, u.ID)
	}
	if err != nil {
		return err
	}
	return tx.Notify("users", u.ID, apsql.Update)
}
