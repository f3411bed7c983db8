package main

import (
	"flag"
	"os"

	"serveradmin/config"
	"serveradmin/inventory"
	"serveradmin/logreport"
	apsql "serveradmin/sql"
)

func main() {
	flags := flag.NewFlagSet("seeddb", flag.ExitOnError)
	driver := flags.String("db-driver", "sqlite3", "The database driver, sqlite3 or postgres")
	connection := flags.String("db-conn-string", "serveradmin.db", "The connection string for the database")
	fixturesPath := flags.String("fixtures", "fixtures.yaml", "Path to the YAML fixtures")
	flags.Parse(os.Args[1:])

	logreport.Setup("info", os.Stdout)

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		logreport.Fatalf("%s Uh-oh: couldn't read fixtures due to %v", config.System, err)
	}

	db, err := apsql.Connect(config.Database{
		Driver:           *driver,
		ConnectionString: *connection,
		MaxConnections:   1,
	})
	if err != nil {
		logreport.Fatalf("%s Uh-oh: couldn't connect to db due to %v", config.System, err)
	}
	if err = db.Migrate(); err != nil {
		logreport.Fatalf("%s Uh-oh: couldn't migrate db due to %v", config.System, err)
	}

	if err = seed(db, inventory.New(db), fixtures); err != nil {
		logreport.Fatalf("%s Uh-oh: couldn't seed db due to %v", config.System, err)
	}
	logreport.Printf("%s Inserted %d attributes, %d servers, %d applications, %d users, %d collections",
		config.System, len(fixtures.Attributes), len(fixtures.Servers), len(fixtures.Applications),
		len(fixtures.Users), len(fixtures.Collections))
}
