package model_test

import (
	"serveradmin/crypto"
	aperrors "serveradmin/errors"
	"serveradmin/model"
	modelt "serveradmin/model/testing"
	apsql "serveradmin/sql"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestApplicationValidate(c *gc.C) {
	app := &model.Application{}
	c.Check(app.Validate(), jc.DeepEquals, aperrors.Errors{
		"name": {"must not be blank"},
	})
}

func (m *ModelSuite) TestApplicationInsertGeneratesToken(c *gc.C) {
	app := &model.Application{Name: "inventory-sync"}
	c.Assert(m.db.DoInTransaction(app.Insert), jc.ErrorIsNil)

	c.Check(app.AuthToken, gc.HasLen, 24)
	c.Check(app.AppID, gc.Equals, crypto.ApplicationID(app.AuthToken))

	found, err := model.FindApplicationByAppID(m.db, app.AppID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.DeepEquals, app)
}

func (m *ModelSuite) TestApplicationUpdateKeepsAppIDInSync(c *gc.C) {
	app := modelt.PrepareApplication(c, m.db, modelt.DeployApp)
	app.AuthToken = "rotated"
	app.Disabled = true
	c.Assert(m.db.DoInTransaction(app.Update), jc.ErrorIsNil)

	found, err := model.FindApplication(m.db, app.ID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found.AppID, gc.Equals, crypto.ApplicationID("rotated"))
	c.Check(found.Disabled, jc.IsTrue)
}

func (m *ModelSuite) TestApplicationNameTaken(c *gc.C) {
	modelt.PrepareApplication(c, m.db, modelt.DeployApp)
	app := &model.Application{Name: "deploy"}
	err := m.db.DoInTransaction(app.Insert)
	c.Assert(err, gc.NotNil)
	c.Check(app.ValidateFromDatabaseError(err), jc.DeepEquals, aperrors.Errors{
		"name": {"is already taken"},
	})
}

func (m *ModelSuite) TestAllApplicationsOrderedByName(c *gc.C) {
	modelt.PrepareApplication(c, m.db, modelt.DisabledApp)
	modelt.PrepareApplication(c, m.db, modelt.DeployApp)

	apps, err := model.AllApplications(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(apps, gc.HasLen, 2)
	c.Check(apps[0].Name, gc.Equals, "deploy")
	c.Check(apps[1].Name, gc.Equals, "old-script")
}

func (m *ModelSuite) TestApplicationNotFound(c *gc.C) {
	_, err := model.FindApplication(m.db, 42)
	c.Check(apsql.IsNoResult(err), jc.IsTrue)
}
