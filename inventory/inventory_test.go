package inventory_test

import (
	"testing"

	"serveradmin/dataset"
	"serveradmin/inventory"
	"serveradmin/model"
	modelt "serveradmin/model/testing"
	"serveradmin/query"
	apsql "serveradmin/sql"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

type InventorySuite struct {
	db  *apsql.DB
	inv *inventory.Inventory
	web *model.Server
	db1 *model.Server
}

var _ = gc.Suite(&InventorySuite{})

func (s *InventorySuite) SetUpTest(c *gc.C) {
	s.db = modelt.NewMemoryDB(c)
	s.inv = inventory.New(s.db)
	modelt.PrepareAttributes(c, s.db)
	s.web = modelt.PrepareServer(c, s.db, "web01", "vm", map[string][]string{
		"os":         {"bookworm"},
		"num_cpu":    {"4"},
		"backup":     {"true"},
		"tags":       {"web", "prod"},
		"primary_ip": {"10.0.0.1"},
	})
	s.db1 = modelt.PrepareServer(c, s.db, "db01", "hardware", map[string][]string{
		"os":      {"bullseye"},
		"num_cpu": {"32"},
	})
}

func (s *InventorySuite) TearDownTest(c *gc.C) {
	c.Assert(s.db.Close(), gc.IsNil)
}

func (s *InventorySuite) query(c *gc.C, q string, restrict []string, orderBy ...string) []*dataset.Object {
	filters, err := query.Parse(q)
	c.Assert(err, jc.ErrorIsNil)
	objects, err := s.inv.Query(inventory.Query{Filters: filters, Restrict: restrict, OrderBy: orderBy})
	c.Assert(err, jc.ErrorIsNil)
	return objects
}

func hostnames(objects []*dataset.Object) []string {
	names := []string{}
	for _, o := range objects {
		h, _ := o.Get("hostname")
		names = append(names, h.(string))
	}
	return names
}

func (s *InventorySuite) TestQueryTypedValues(c *gc.C) {
	objects := s.query(c, "web01", nil)
	c.Assert(objects, gc.HasLen, 1)
	o := objects[0]

	c.Check(o.ObjectID(), gc.Equals, s.web.ID)
	v, _ := o.Get("num_cpu")
	c.Check(v, gc.Equals, int64(4))
	v, _ = o.Get("backup")
	c.Check(v, gc.Equals, true)
	v, _ = o.Get("game")
	c.Check(v, gc.IsNil)
	tags, ok := o.Multi("tags")
	c.Assert(ok, jc.IsTrue)
	c.Check(tags.Strings(), jc.DeepEquals, []string{"prod", "web"})
}

func (s *InventorySuite) TestQueryDefaults(c *gc.C) {
	o := s.query(c, "db01", nil)[0]
	v, _ := o.Get("backup")
	c.Check(v, gc.Equals, false)
	tags, ok := o.Multi("tags")
	c.Assert(ok, jc.IsTrue)
	c.Check(tags.Len(), gc.Equals, 0)
}

func (s *InventorySuite) TestQueryFiltersAndOrder(c *gc.C) {
	c.Check(hostnames(s.query(c, "num_cpu=GreaterThan(8)", nil)), jc.DeepEquals, []string{"db01"})
	c.Check(hostnames(s.query(c, "tags=web", nil)), jc.DeepEquals, []string{"web01"})
	c.Check(hostnames(s.query(c, "tags=Empty()", nil)), jc.DeepEquals, []string{"db01"})
	c.Check(hostnames(s.query(c, "Regexp(.*01)", nil, "num_cpu")), jc.DeepEquals,
		[]string{"web01", "db01"})
	c.Check(hostnames(s.query(c, "Regexp(.*01)", nil)), jc.DeepEquals,
		[]string{"db01", "web01"})
}

func (s *InventorySuite) TestQueryRestrict(c *gc.C) {
	o := s.query(c, "web01", []string{"hostname", "os"})[0]
	c.Check(o.Keys(), jc.DeepEquals, []string{"hostname", "object_id", "os"})
}

func (s *InventorySuite) TestQueryUnknownAttribute(c *gc.C) {
	filters, err := query.Parse("colour=red")
	c.Assert(err, jc.ErrorIsNil)
	_, err = s.inv.Query(inventory.Query{Filters: filters})
	c.Check(err, gc.ErrorMatches, "Unknown attribute colour")

	_, err = s.inv.Query(inventory.Query{Filters: query.Filters{}, Restrict: []string{"colour"}})
	c.Check(err, gc.ErrorMatches, "Unknown attribute colour")
}

func (s *InventorySuite) TestQueryLoadError(c *gc.C) {
	_, err := s.db.Exec("DROP TABLE server_attributes;")
	c.Assert(err, jc.ErrorIsNil)

	_, err = s.inv.Query(inventory.Query{Filters: query.Filters{}})
	c.Check(err, gc.ErrorMatches, "Could not load attribute values: .*server_attributes.*")
	_, isDatasetErr := err.(*dataset.Error)
	c.Check(isDatasetErr, jc.IsFalse)
}

func (s *InventorySuite) TestGet(c *gc.C) {
	filters, _ := query.Parse("servertype=vm")
	o, err := s.inv.Get(filters, nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(o.ObjectID(), gc.Equals, s.web.ID)

	filters, _ = query.Parse("os=Any(bookworm bullseye)")
	_, err = s.inv.Get(filters, nil)
	c.Check(err, gc.ErrorMatches, "Expecting exactly one object, found 2 objects")
}

func (s *InventorySuite) commitChanges(c *gc.C, mutate func(o *dataset.Object)) error {
	o := s.query(c, "web01", nil)[0]
	mutate(o)
	return s.inv.Commit(dataset.BuildCommit([]*dataset.Object{o}))
}

func (s *InventorySuite) TestCommitUpdates(c *gc.C) {
	err := s.commitChanges(c, func(o *dataset.Object) {
		c.Assert(o.Set("os", "trixie"), jc.ErrorIsNil)
		c.Assert(o.Set("num_cpu", "8"), jc.ErrorIsNil)
		c.Assert(o.Set("primary_ip", nil), jc.ErrorIsNil)
		c.Assert(o.Set("backup", false), jc.ErrorIsNil)
		tags, _ := o.Multi("tags")
		tags.Remove("prod")
		tags.Add("staging")
	})
	c.Assert(err, jc.ErrorIsNil)

	o := s.query(c, "web01", nil)[0]
	v, _ := o.Get("os")
	c.Check(v, gc.Equals, "trixie")
	v, _ = o.Get("num_cpu")
	c.Check(v, gc.Equals, int64(8))
	v, _ = o.Get("primary_ip")
	c.Check(v, gc.IsNil)
	v, _ = o.Get("backup")
	c.Check(v, gc.Equals, false)
	tags, _ := o.Multi("tags")
	c.Check(tags.Strings(), jc.DeepEquals, []string{"staging", "web"})
}

func (s *InventorySuite) TestCommitHostname(c *gc.C) {
	err := s.commitChanges(c, func(o *dataset.Object) {
		c.Assert(o.Set("hostname", "web02"), jc.ErrorIsNil)
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(hostnames(s.query(c, "web02", nil)), jc.DeepEquals, []string{"web02"})

	o := s.query(c, "web02", nil)[0]
	c.Assert(o.Set("hostname", "db01"), jc.ErrorIsNil)
	err = s.inv.Commit(dataset.BuildCommit([]*dataset.Object{o}))
	c.Check(err, gc.ErrorMatches, "Hostname db01 is already taken")
}

func (s *InventorySuite) TestCommitConcurrentChangeRollsBack(c *gc.C) {
	stale := s.query(c, "web01", nil)[0]
	c.Assert(stale.Set("os", "buster"), jc.ErrorIsNil)
	c.Assert(stale.Set("game", "chess"), jc.ErrorIsNil)

	err := s.commitChanges(c, func(o *dataset.Object) {
		c.Assert(o.Set("os", "trixie"), jc.ErrorIsNil)
	})
	c.Assert(err, jc.ErrorIsNil)

	err = s.inv.Commit(dataset.BuildCommit([]*dataset.Object{stale}))
	c.Check(err, gc.ErrorMatches, "Attribute os of object [0-9]+ changed concurrently")

	o := s.query(c, "web01", nil)[0]
	v, _ := o.Get("game")
	c.Check(v, gc.IsNil)
}

func (s *InventorySuite) TestCommitRejectsInvalidValues(c *gc.C) {
	err := s.commitChanges(c, func(o *dataset.Object) {
		c.Assert(o.Set("backup", nil), jc.ErrorIsNil)
	})
	c.Check(err, gc.ErrorMatches, "Attribute backup of type boolean cannot be null")

	err = s.commitChanges(c, func(o *dataset.Object) {
		c.Assert(o.Set("num_cpu", "many"), jc.ErrorIsNil)
	})
	c.Check(err, gc.ErrorMatches, `Invalid value "many" for attribute num_cpu of type number`)
	_, isValidation := err.(*dataset.ValidationError)
	c.Check(isValidation, jc.IsTrue)
}

func (s *InventorySuite) TestCommitUnknownObject(c *gc.C) {
	err := s.inv.Commit(&dataset.Commit{Changed: []dataset.ObjectChanges{{
		ObjectID: 999,
		Attributes: map[string]dataset.AttributeChange{
			"os": {Action: dataset.ActionUpdate, Old: nil, New: "x"},
		},
	}}})
	c.Check(err, gc.ErrorMatches, "Object 999 does not exist")
}

func (s *InventorySuite) TestCommitCreateAndDelete(c *gc.C) {
	created := dataset.NewObject(map[string]interface{}{
		"hostname":   "cache01",
		"servertype": "vm",
		"tags":       dataset.NewMultiAttr("cache"),
		"num_cpu":    int64(2),
	})
	err := s.inv.Commit(&dataset.Commit{Created: []*dataset.Object{created}, Deleted: []int64{s.db1.ID}})
	c.Assert(err, jc.ErrorIsNil)

	c.Check(hostnames(s.query(c, "Regexp(.*)", nil)), jc.DeepEquals, []string{"cache01", "web01"})
	o := s.query(c, "cache01", nil)[0]
	v, _ := o.Get("num_cpu")
	c.Check(v, gc.Equals, int64(2))
}
