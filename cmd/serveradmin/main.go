package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"serveradmin/config"
	"serveradmin/logreport"
	"serveradmin/server"
	"serveradmin/sql"
)

var version = "dev"

func main() {
	conf, err := config.Parse(os.Args[1:])
	if err != nil {
		logreport.Fatalf("%s Error parsing config file: %v", config.System, err)
	}
	if conf.Version {
		fmt.Println(version)
		return
	}
	if conf.ExampleConfig {
		fmt.Print(config.ExampleConfigurationFile)
		return
	}
	logreport.Setup(conf.LogLevel, os.Stdout)

	db, err := sql.Connect(conf.Database)
	if err != nil {
		logreport.Fatalf("%s Error connecting to database: %v", config.System, err)
	}
	if !db.UpToDate() {
		if conf.Database.Migrate {
			if err = db.Migrate(); err != nil {
				logreport.Fatalf("%s Error migrating database: %v", config.System, err)
			}
		} else {
			message := "The database is not up to date.\n"
			message += "Please migrate by invoking with the -db-migrate flag."
			logreport.Fatal(message)
		}
	}

	s, err := server.NewServer(conf, db)
	if err != nil {
		logreport.Fatalf("%s %v", config.System, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logreport.Printf("%s Starting server %s", config.System, version)
	if err := s.Run(ctx); err != nil {
		logreport.Fatalf("%s %v", config.System, err)
	}
}
