package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/promptatrium/atrium-api/internal/config"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report how many communities need migration without changing anything")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrationService := services.NewCommunityMigrationService(db)

	if *dryRun {
		needed, err := migrationService.Preview(ctx)
		if err != nil {
			log.Fatalf("Failed to preview migration: %v", err)
		}
		fmt.Printf("%d communities need migration\n", needed)
		return
	}

	report, err := migrationService.Run(ctx)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Printf("Needed before: %d\n", report.NeededBefore)
	fmt.Printf("Migrated:      %d\n", report.Migrated)
	fmt.Printf("Failed:        %d\n", report.Failed)
	fmt.Printf("Remaining:     %d\n", report.Remaining)
	fmt.Printf("Fields complete: %v\n", report.FieldsComplete)
	fmt.Printf("Integrity OK:    %v\n", report.IntegrityOK)

	if report.Failed > 0 || !report.IntegrityOK {
		os.Exit(1)
	}
}
