package testing

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	apsql "serveradmin/sql"

	gc "gopkg.in/check.v1"
)

// Application fixtures.
const (
	DeployApp   = "deploy"
	DisabledApp = "disabled"
)

// PrepareApplication adds the given application fixture to the database.
func PrepareApplication(c *gc.C, db *apsql.DB, which string) *model.Application {
	a, ok := applications[which]
	c.Assert(ok, gc.Equals, true)
	app := &a

	c.Assert(app.Validate(), gc.DeepEquals, make(aperrors.Errors))
	inTx(c, db, app.Insert)
	return app
}

var applications = map[string]model.Application{
	DeployApp: {
		Name:      "deploy",
		Author:    "ops",
		Location:  "jenkins",
		AuthToken: "deploytoken",
	},
	DisabledApp: {
		Name:      "old-script",
		AuthToken: "disabledtoken",
		Disabled:  true,
	},
}

// PrepareUser adds a user with the given credentials.
func PrepareUser(c *gc.C, db *apsql.DB, username, password string) *model.User {
	user := &model.User{Username: username, Password: password}
	c.Assert(user.Validate(true), gc.DeepEquals, make(aperrors.Errors))
	inTx(c, db, user.Insert)
	return user
}
