package model_test

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	modelt "serveradmin/model/testing"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestUserValidate(c *gc.C) {
	user := &model.User{}
	c.Check(user.Validate(true), jc.DeepEquals, aperrors.Errors{
		"username": {"must not be blank"},
		"password": {"must not be blank"},
	})
	c.Check(user.Validate(false), jc.DeepEquals, aperrors.Errors{
		"username": {"must not be blank"},
	})
}

func (m *ModelSuite) TestUserLogin(c *gc.C) {
	user := modelt.PrepareUser(c, m.db, "alice", "s3cret")

	found, err := model.FindUserByUsernameAndPassword(m.db, "alice", "s3cret")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found.ID, gc.Equals, user.ID)

	_, err = model.FindUserByUsernameAndPassword(m.db, "alice", "wrong")
	c.Check(err, gc.NotNil)

	_, err = model.FindUserByUsernameAndPassword(m.db, "bob", "s3cret")
	c.Check(err, gc.NotNil)
}

func (m *ModelSuite) TestUserUpdateWithoutPasswordKeepsIt(c *gc.C) {
	user := modelt.PrepareUser(c, m.db, "alice", "s3cret")
	update := &model.User{ID: user.ID, Username: "alice2"}
	c.Assert(m.db.DoInTransaction(update.Update), jc.ErrorIsNil)

	_, err := model.FindUserByUsernameAndPassword(m.db, "alice2", "s3cret")
	c.Check(err, jc.ErrorIsNil)
}

func (m *ModelSuite) TestDeleteUser(c *gc.C) {
	user := modelt.PrepareUser(c, m.db, "alice", "s3cret")
	tx, err := m.db.Begin()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(model.DeleteUser(tx, user.ID), jc.ErrorIsNil)
	c.Assert(tx.Commit(), jc.ErrorIsNil)

	users, err := model.AllUsers(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(users, gc.HasLen, 0)
}
