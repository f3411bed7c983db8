package main

import (
	"fmt"
	"os"

	"serveradmin/dataset"
	"serveradmin/inventory"
	"serveradmin/model"
	apsql "serveradmin/sql"

	"gopkg.in/yaml.v3"
)

type fixtures struct {
	Attributes   []attributeFixture   `yaml:"attributes"`
	Servers      []serverFixture      `yaml:"servers"`
	Applications []applicationFixture `yaml:"applications"`
	Users        []userFixture        `yaml:"users"`
	Collections  []collectionFixture  `yaml:"collections"`
}

type attributeFixture struct {
	AttributeID string `yaml:"attribute_id"`
	Type        string `yaml:"type"`
	Multi       bool   `yaml:"multi"`
	Group       string `yaml:"group"`
	Help        string `yaml:"help"`
}

type serverFixture struct {
	Hostname   string                 `yaml:"hostname"`
	Servertype string                 `yaml:"servertype"`
	Attributes map[string]interface{} `yaml:"attributes"`
}

type applicationFixture struct {
	Name      string `yaml:"name"`
	Author    string `yaml:"author"`
	Location  string `yaml:"location"`
	AuthToken string `yaml:"auth_token"`
	Superuser bool   `yaml:"superuser"`
	Disabled  bool   `yaml:"disabled"`
}

type userFixture struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Superuser bool   `yaml:"superuser"`
}

type collectionFixture struct {
	Name           string `yaml:"name"`
	Overview       bool   `yaml:"overview"`
	AttributeID    string `yaml:"attribute_id"`
	AttributeValue string `yaml:"attribute_value"`
	SortOrder      int64  `yaml:"sort_order"`
	Templates      []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Params      string `yaml:"params"`
		SortOrder   int64  `yaml:"sort_order"`
	} `yaml:"templates"`
	Variations []struct {
		Name              string `yaml:"name"`
		Params            string `yaml:"params"`
		SummarizeInterval string `yaml:"summarize_interval"`
		SortOrder         int64  `yaml:"sort_order"`
	} `yaml:"variations"`
}

func loadFixtures(path string) (*fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) (*fixtures, error) {
	f := &fixtures{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	return f, nil
}

// seed inserts the records in one transaction, then creates the servers
// through the inventory so their values are checked against the attributes.
func seed(db *apsql.DB, inv *inventory.Inventory, f *fixtures) error {
	err := db.DoInTransaction(func(tx *apsql.Tx) error {
		for _, a := range f.Attributes {
			attribute := &model.Attribute{
				AttributeID: a.AttributeID, Type: a.Type, Multi: a.Multi,
				Group: a.Group, Help: a.Help,
			}
			if errs := attribute.Validate(); !errs.Empty() {
				return fmt.Errorf("attribute %s: %v", attribute.AttributeID, errs)
			}
			if err := attribute.Insert(tx); err != nil {
				return err
			}
		}
		for _, a := range f.Applications {
			app := &model.Application{
				Name: a.Name, Author: a.Author, Location: a.Location,
				AuthToken: a.AuthToken, Superuser: a.Superuser, Disabled: a.Disabled,
			}
			if errs := app.Validate(); !errs.Empty() {
				return fmt.Errorf("application %s: %v", a.Name, errs)
			}
			if err := app.Insert(tx); err != nil {
				return err
			}
		}
		for _, u := range f.Users {
			user := &model.User{Username: u.Username, Password: u.Password, Superuser: u.Superuser}
			if errs := user.Validate(true); !errs.Empty() {
				return fmt.Errorf("user %s: %v", u.Username, errs)
			}
			if err := user.Insert(tx); err != nil {
				return err
			}
		}
		for _, c := range f.Collections {
			if err := insertCollection(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	commit := &dataset.Commit{}
	for _, s := range f.Servers {
		attrs := map[string]interface{}{
			dataset.HostnameAttribute:   s.Hostname,
			dataset.ServertypeAttribute: s.Servertype,
		}
		for id, value := range s.Attributes {
			normalized, err := dataset.Normalize(value)
			if err != nil {
				return fmt.Errorf("server %s attribute %s: %v", s.Hostname, id, err)
			}
			attrs[id] = normalized
		}
		commit.Created = append(commit.Created, dataset.NewObject(attrs))
	}
	if commit.Empty() {
		return nil
	}
	return inv.Commit(commit)
}

func insertCollection(tx *apsql.Tx, c collectionFixture) error {
	collection := &model.Collection{
		Name: c.Name, Overview: c.Overview, AttributeID: c.AttributeID,
		AttributeValue: c.AttributeValue, SortOrder: c.SortOrder,
	}
	if errs := collection.Validate(); !errs.Empty() {
		return fmt.Errorf("collection %s: %v", c.Name, errs)
	}
	if err := collection.Insert(tx); err != nil {
		return err
	}
	for _, t := range c.Templates {
		template := &model.Template{
			CollectionID: collection.ID, Name: t.Name, Description: t.Description,
			Params: t.Params, SortOrder: t.SortOrder,
		}
		if errs := template.Validate(); !errs.Empty() {
			return fmt.Errorf("template %s: %v", t.Name, errs)
		}
		if err := template.Insert(tx); err != nil {
			return err
		}
	}
	for _, v := range c.Variations {
		variation := &model.Variation{
			CollectionID: collection.ID, Name: v.Name, Params: v.Params,
			SummarizeInterval: v.SummarizeInterval, SortOrder: v.SortOrder,
		}
		if errs := variation.Validate(); !errs.Empty() {
			return fmt.Errorf("variation %s: %v", v.Name, errs)
		}
		if err := variation.Insert(tx); err != nil {
			return err
		}
	}
	return nil
}
