package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type testConfig struct {
	Foo string `flag:"foo" default:""`
	Bar int64  `flag:"bar" default:"42"`
	Qux bool   `flag:"qux" default:"true"`
	Baz baz
}

type baz struct {
	Baf string `flag:"baf" default:"doby"`
}

func TestSetDefaults(t *testing.T) {
	config := testConfig{}
	setDefaults(reflect.ValueOf(&config).Elem())
	if config.Foo != "" {
		t.Errorf("Expected default foo value to be set.")
	}
	if config.Bar != 42 {
		t.Errorf("Expected default bar value to be set.")
	}
	if !config.Qux {
		t.Errorf("Expected default qux value to be set.")
	}
	if config.Baz.Baf != "doby" {
		t.Errorf("Expected default baz value to be set.")
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	dir, err := ioutil.TempDir("", "serveradmin-config")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "serveradmin.conf")
	if err := ioutil.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefaultsWithoutFile(t *testing.T) {
	conf, err := Parse([]string{"-config", "/does/not/exist.conf"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if conf.Database.Driver != "sqlite3" {
		t.Errorf("Expected default driver, got %q", conf.Database.Driver)
	}
	if conf.Web.Port != 8000 {
		t.Errorf("Expected default port, got %d", conf.Web.Port)
	}
	if conf.API.MaxClockSkew != 300 {
		t.Errorf("Expected default clock skew, got %d", conf.API.MaxClockSkew)
	}
}

func TestParsePrecedence(t *testing.T) {
	path := writeConfigFile(t, `
[database]
driver = 'postgres'
maxConnections = 7

[graphite]
url = 'https://graphite.file'
user = 'file-user'
`)
	defer os.RemoveAll(filepath.Dir(path))

	os.Setenv("SERVERADMIN_GRAPHITE_URL", "https://graphite.env")
	os.Setenv("SERVERADMIN_DB_MAX_CONNECTIONS", "9")
	defer os.Unsetenv("SERVERADMIN_GRAPHITE_URL")
	defer os.Unsetenv("SERVERADMIN_DB_MAX_CONNECTIONS")

	conf, err := Parse([]string{"-config", path, "-db-max-connections", "11"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if conf.Database.Driver != "postgres" {
		t.Errorf("Expected file to override default, got %q", conf.Database.Driver)
	}
	if conf.Graphite.User != "file-user" {
		t.Errorf("Expected file value, got %q", conf.Graphite.User)
	}
	if conf.Graphite.URL != "https://graphite.env" {
		t.Errorf("Expected environment to override file, got %q", conf.Graphite.URL)
	}
	if conf.Database.MaxConnections != 11 {
		t.Errorf("Expected flag to override environment, got %d", conf.Database.MaxConnections)
	}
}

func TestParseInvalidFlag(t *testing.T) {
	if _, err := Parse([]string{"-no-such-flag"}); err == nil {
		t.Errorf("Expected unknown flag to error")
	}
}

func TestSectionDefaultsAndLogPrefixes(t *testing.T) {
	conf := Configuration{
		Web:      WebServer{},
		Admin:    WebAdmin{},
		API:      RemoteAPI{},
		Graphite: GraphiteServer{},
	}
	setDefaults(reflect.ValueOf(&conf).Elem())
	if conf.Web.Port == 0 {
		t.Error("Expected default web port to be set.")
	}
	if conf.Admin.PathPrefix == "" || conf.API.PathPrefix == "" {
		t.Error("Expected default path prefixes to be set.")
	}

	prefixes := map[string]string{
		System:   "[system]",
		Web:      "[web]",
		Admin:    "[admin]",
		API:      "[api]",
		Graphite: "[graphite]",
	}
	for got, expected := range prefixes {
		if got != expected {
			t.Errorf("Expected log prefix %s, got %s", expected, got)
		}
	}
}
