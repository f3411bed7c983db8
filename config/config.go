// Package config implements configuration parsing for serveradmin.
package config

import (
	"flag"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Configuration specifies the complete serveradmin configuration.
type Configuration struct {
	File string `flag:"config" default:"/etc/serveradmin/serveradmin.conf"`

	Version       bool   `flag:"version" default:"false"`
	ExampleConfig bool   `flag:"example-config" default:"false"`
	LogLevel      string `flag:"log-level" default:"info"`

	Database Database
	Web      WebServer
	Admin    WebAdmin
	API      RemoteAPI
	Graphite GraphiteServer
}

// Database specifies configuration options for your database
type Database struct {
	Migrate          bool   `flag:"db-migrate"     default:"false"`
	Driver           string `flag:"db-driver"      default:"sqlite3"`
	ConnectionString string `flag:"db-conn-string" default:"/etc/serveradmin/serveradmin.db"`
	MaxConnections   int64  `flag:"db-max-connections" default:"50"`
}

// WebServer specifies configuration options that apply to the web server and the
// login protected pages.
type WebServer struct {
	Host string `flag:"web-host" default:"localhost"`
	Port int64  `flag:"web-port" default:"8000"`

	SessionName   string `flag:"web-session-name" default:"serveradmin_session"`
	AuthKey       string `flag:"web-session-auth-key" default:""`
	EncryptionKey string `flag:"web-session-encryption-key" default:""`
	SessionMaxAge int64  `flag:"web-session-max-age" default:"86400"`

	RequestIDHeader string `flag:"web-request-id-header" default:"X-Request-Id"`
	ShutdownTimeout int64  `flag:"web-shutdown-timeout" default:"10"`
}

// WebAdmin specifies configuration options that apply to the admin section.
type WebAdmin struct {
	PathPrefix string `flag:"admin-path-prefix" default:"/admin/"`

	CORSEnabled bool   `flag:"admin-cors-enabled" default:"false"`
	CORSOrigin  string `flag:"admin-cors-origin" default:"*"`

	Username string `flag:"admin-username" default:"admin"`
	Password string `flag:"admin-password" default:""`
	Realm    string `flag:"admin-realm"    default:"serveradmin"`
}

// RemoteAPI specifies configuration options for the remote query API.
type RemoteAPI struct {
	PathPrefix   string `flag:"api-path-prefix" default:"/api/"`
	MaxClockSkew int64  `flag:"api-max-clock-skew" default:"300"`
}

// GraphiteServer specifies how to reach the time-series rendering service.
type GraphiteServer struct {
	URL      string `flag:"graphite-url" default:""`
	User     string `flag:"graphite-user" default:""`
	Password string `flag:"graphite-password" default:""`
	Timeout  int64  `flag:"graphite-timeout" default:"30"`
}

const envPrefix = "SERVERADMIN_"

// Parse all configuration.
//
// Environment variables take precendence over the configuration file,
// but command line flags take precedence over both.
func Parse(args []string) (Configuration, error) {
	config := Configuration{}
	flags := flag.NewFlagSet("serveradmin", flag.ContinueOnError)

	// Parse flags
	setupFlags(flags, reflect.ValueOf(config))
	if err := flags.Parse(args); err != nil {
		return config, err
	}

	// Parse environment
	setUnsetFlagsFromEnv(flags)

	// Set default in our instance
	setDefaults(reflect.ValueOf(&config).Elem())

	// Override values with config file
	if err := parseConfigFile(flags, &config); err != nil {
		return config, err
	}
	// Override values with flags (including environment)
	if err := setFromFlags(flags, reflect.ValueOf(&config).Elem()); err != nil {
		return config, err
	}

	return config, nil
}

func parseConfigFile(flags *flag.FlagSet, config *Configuration) error {
	configFile := flags.Lookup("config").Value.String()
	_, err := toml.DecodeFile(configFile, config)
	if os.IsNotExist(err) {
		logrus.Infof("%s Config file '%s' does not exist and will not be used.",
			System, configFile)
		return nil
	}
	return err
}

func setUnsetFlagsFromEnv(flags *flag.FlagSet) {
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	flags.VisitAll(func(f *flag.Flag) {
		if !set[f.Name] {
			if val := envValueForFlag(f.Name); val != "" {
				flags.Set(f.Name, val)
			}
		}
	})
}

func envValueForFlag(name string) string {
	key := envPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
	return os.Getenv(key)
}
