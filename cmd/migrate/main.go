package main

import (
	"fmt"
	"os"

	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/repository/postgres"
	"github.com/lunaria-app/lunaria/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Database.Driver == "memory" {
		fmt.Fprintln(os.Stderr, "The memory driver has no schema to migrate")
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(db, migrations.FS()); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}
