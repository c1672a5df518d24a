package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"blogapi/internal/app"
	"blogapi/internal/config"
	"blogapi/internal/repository/postgres"
	"blogapi/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	fixturePath := flag.String("fixtures", "", "YAML fixture file (default: embedded demo data)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if cfg.StorageBackend != config.StorageBackendPostgres {
		log.Fatalf("seed needs STORAGE_BACKEND=postgres (got %q); the memory backend seeds itself via SEED_FILE", cfg.StorageBackend)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}
	// The mode decides whether category names get a unique index
	if _, err := config.ParseCategoryMode(string(cfg.CategoryMode)); err != nil {
		log.Fatalf("Invalid CATEGORY_MODE: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	if *dropTables {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Printf("Dropping all tables (prefix: %s)", cfg.TablePrefix)
		if err := postgres.DropSchema(ctx, pool, postgres.NewTableNames(cfg.TablePrefix)); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		pool.Close()
	}

	// OpenStorage creates any missing tables
	log.Printf("Ensuring schema (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixtures, err := seed.LoadFixtures(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	svcs := app.NewServices(storage, cfg.CategoryMode, logger)
	seeder := seed.NewSeeder(svcs.Users, svcs.Users, svcs.Categories, svcs.Posts, svcs.Comments, logger)

	res, err := seeder.Apply(ctx, fixtures)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d users, %d categories, %d posts, %d comments",
		res.Users, res.Categories, res.Posts, res.Comments)
}
