package config

const dbConnStringHelp = `The connection string for your database

    	For sqlite3 this is the path of the database file, or :memory:.

    	For postgres the connection string is of the format "parameter=value parameter2=value2"

    	Valid parameters:

    	* dbname - The name of the database to connect to
    	* user - The user to sign in as
    	* password - The user's password
    	* host - The host to connect to. Values that start with / are for unix domain sockets. (default is localhost)
    	* port - The port to bind to. (default is 5432)
    	* sslmode - Whether or not to use SSL (default is require, this is not the default for libpq)`

var usageStrings = map[string]string{
	"config":         "The path to the configuration file",
	"version":        "Whether to print the version and quit",
	"example-config": "Whether to print an example serveradmin.conf file and quit",
	"log-level":      "The log level; one of panic, fatal, error, warn, info, debug, trace",

	"db-migrate":         "Whether or not to migrate the database on startup",
	"db-driver":          "The database driver; sqlite3 or postgres",
	"db-conn-string":     dbConnStringHelp,
	"db-max-connections": "The maximum number of connections to use",

	"web-host":                   "The hostname the web server listens on",
	"web-port":                   "The port the web server listens on",
	"web-session-name":           "The name of the session cookie",
	"web-session-auth-key":       "The key used to authenticate session cookies. Required.",
	"web-session-encryption-key": "The key used to encrypt session cookies (16, 24 or 32 bytes)",
	"web-session-max-age":        "The lifetime of a login session in seconds",
	"web-request-id-header":      "The header to send the request ID back in. Not sent if blank.",
	"web-shutdown-timeout":       "The number of seconds to wait for open requests on shutdown",

	"admin-path-prefix":  "The path prefix the administrative area is accessible under",
	"admin-cors-enabled": "Whether or not to send CORS headers from the administrative area",
	"admin-cors-origin":  "The allowed CORS origin",
	"admin-username":     "The username for HTTP basic auth of the administrative area",
	"admin-password":     "The password for HTTP basic auth of the administrative area. Blank disables the area.",
	"admin-realm":        "The HTTP basic auth realm",

	"api-path-prefix":    "The path prefix the remote query API is accessible under",
	"api-max-clock-skew": "The maximum age in seconds of a signed API request",

	"graphite-url":      "The base URL of the Graphite render service",
	"graphite-user":     "The user for HTTP basic auth against Graphite",
	"graphite-password": "The password for HTTP basic auth against Graphite",
	"graphite-timeout":  "The timeout in seconds for render requests",
}
