package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/repository/postgres"
)

const tableExistsQuery = `SELECT EXISTS (
	SELECT FROM information_schema.tables
	WHERE table_schema = 'public'
	AND table_name = $1
)`

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")

	ctx := context.Background()

	fmt.Println("Executing schema...")
	if err := db.ApplySchema(ctx); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}
	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	missing := 0
	for _, table := range postgres.Tables() {
		var exists bool
		if err := db.Pool.QueryRow(ctx, tableExistsQuery, table).Scan(&exists); err != nil {
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			missing++
			continue
		}

		if exists {
			fmt.Printf("Table '%s' present\n", table)
		} else {
			fmt.Printf("Table '%s' NOT created\n", table)
			missing++
		}
	}

	fmt.Println()
	if missing > 0 {
		log.Fatalf("%d table(s) missing", missing)
	}
	fmt.Println("=== Database Setup Complete ===")
}
