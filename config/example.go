package config

// ExampleConfigurationFile outputs serveradmin.conf file contents
const ExampleConfigurationFile = `##################################################
### Example serveradmin configuration file
##################################################

## ---------- General ------------
# The log level, default is 'info'.
# logLevel = 'info'

## ---------- Database ------------
[database]
# Whether or not to migrate the database on startup, default is false.
# migrate = true

# The database driver; sqlite3 or postgres, default is 'sqlite3'.
# driver = 'postgres'

# The connection string for your database, default is '/etc/serveradmin/serveradmin.db'.
# connectionString = 'dbname=serveradmin user=serveradmin sslmode=disable host=localhost'

# The maximum number of connections to use, default is 50.
# maxConnections = 50

## ---------- Web ------------
[web]
# host = 'localhost'
# port = 8000

# The key used to authenticate session cookies. Required.
# authKey = ''
# encryptionKey = ''
# sessionMaxAge = 86400

## ---------- Admin ------------
[admin]
# pathPrefix = '/admin/'
# username = 'admin'
# The admin area is disabled while the password is blank.
# password = ''

## ---------- API ------------
[api]
# pathPrefix = '/api/'
# maxClockSkew = 300

## ---------- Graphite ------------
[graphite]
# url = 'https://graphite.example.com'
# user = ''
# password = ''
# timeout = 30
`
