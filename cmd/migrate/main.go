package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
)

var (
	projectID  = flag.String("project", "", "GCP project ID (defaults to the configured Spanner database)")
	instanceID = flag.String("instance", "", "Spanner instance ID (defaults to the configured Spanner database)")
	databaseID = flag.String("database", "", "Spanner database ID (defaults to the configured Spanner database)")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
)

var log *zap.Logger

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err = logger.New(nil, cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("migrate")
	defer func() { _ = log.Sync() }()

	if err := resolveTarget(cfg.Storage.SpannerDatabase); err != nil {
		log.Fatal("invalid migration target", zap.Error(err))
	}

	ctx := context.Background()

	if emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST"); emulatorHost != "" {
		log.Info("using Spanner emulator", zap.String("host", emulatorHost))
	}

	if err := run(ctx); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations completed")
}

// resolveTarget fills unset flags from a database path of the form
// projects/P/instances/I/databases/D.
func resolveTarget(databasePath string) error {
	parts := strings.Split(databasePath, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		if *projectID == "" || *instanceID == "" || *databaseID == "" {
			return errors.Newf("cannot derive project, instance and database from %q", databasePath)
		}
		return nil
	}
	for _, target := range []struct {
		flag  *string
		value string
	}{{projectID, parts[1]}, {instanceID, parts[3]}, {databaseID, parts[5]}} {
		if *target.flag == "" {
			*target.flag = target.value
		}
	}
	return nil
}

func run(ctx context.Context) error {
	// Ensure instance exists
	if err := ensureInstance(ctx); err != nil {
		return errors.Wrap(err, "failed to ensure instance")
	}

	if err := ensureDatabase(ctx); err != nil {
		return errors.Wrap(err, "failed to ensure database")
	}

	// Apply migrations
	if err := applyMigrations(ctx); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}

func ensureInstance(ctx context.Context) error {
	log.Info("ensuring instance exists", zap.String("instance", *instanceID))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create instance admin client")
	}
	defer instanceAdmin.Close()

	instanceName := fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID)

	// Check if instance exists
	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{
		Name: instanceName,
	})

	if err == nil {
		log.Info("instance already exists")
		return nil
	}

	// Create instance if it doesn't exist
	if status.Code(err) == codes.NotFound {
		log.Info("creating instance")
		op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
			Parent:     fmt.Sprintf("projects/%s", *projectID),
			InstanceId: *instanceID,
			Instance: &instancepb.Instance{
				Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", *projectID),
				DisplayName: "Development Instance",
				NodeCount:   1,
			},
		})
		if err != nil {
			// Ignore if already exists
			if status.Code(err) != codes.AlreadyExists {
				return errors.Wrap(err, "failed to create instance")
			}
			log.Info("instance already exists")
			return nil
		}

		// Don't wait too long on emulator
		if _, err := op.Wait(ctx); err != nil {
			// Emulator might complete immediately, ignore certain errors
			if status.Code(err) != codes.AlreadyExists {
				log.Warn("instance creation did not complete cleanly", zap.Error(err))
			}
		}

		log.Info("instance created")
		return nil
	}

	log.Warn("unexpected error checking instance", zap.Error(err))
	return nil
}

func ensureDatabase(ctx context.Context) error {
	log.Info("ensuring database exists", zap.String("database", *databaseID))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create admin client")
	}
	defer adminClient.Close()

	dbPath := fmt.Sprintf("projects/%s/instances/%s/databases/%s", *projectID, *instanceID, *databaseID)

	// Check if database exists
	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{
		Name: dbPath,
	})

	if err == nil {
		log.Info("database already exists")
		return nil
	}

	// Create database if it doesn't exist
	if status.Code(err) == codes.NotFound {
		log.Info("creating database")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", *databaseID),
		})
		if err != nil {
			// Ignore if database already exists
			if status.Code(err) != codes.AlreadyExists {
				return errors.Wrap(err, "failed to create database")
			}
			log.Info("database already exists")
			return nil
		}

		if _, err := op.Wait(ctx); err != nil {
			return errors.Wrap(err, "failed to wait for database creation")
		}

		log.Info("database created")
		return nil
	}

	// For other errors on emulator, just proceed - the DB might exist
	if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
		log.Warn("proceeding with database in emulator mode", zap.Error(err))
		return nil
	}

	return errors.Wrap(err, "failed to check database")
}

func applyMigrations(ctx context.Context) error {
	log.Info("applying migrations", zap.String("dir", *migrateDir))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create admin client")
	}
	defer adminClient.Close()

	// Get list of migration files
	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return errors.Wrap(err, "failed to list migration files")
	}

	slices.Sort(files)

	if len(files) == 0 {
		log.Info("no migration files found")
		return nil
	}

	dbPath := fmt.Sprintf("projects/%s/instances/%s/databases/%s", *projectID, *instanceID, *databaseID)

	for _, file := range files {
		migrationName := filepath.Base(file)
		log.Info("applying migration", zap.String("file", migrationName))

		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", file)
		}

		// Split into individual DDL statements
		statements := splitDDLStatements(string(content))

		// Apply DDL statements
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   dbPath,
			Statements: statements,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to start DDL update for %s", migrationName)
		}

		if err := op.Wait(ctx); err != nil {
			return errors.Wrapf(err, "failed to apply DDL for %s", migrationName)
		}

		log.Info("migration applied", zap.String("file", migrationName), zap.Int("statements", len(statements)))
	}

	return nil
}

func splitDDLStatements(content string) []string {
	// Remove comments and empty lines
	lines := strings.Split(content, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	content = strings.Join(cleaned, "\n")

	// Split by semicolon
	statements := strings.Split(content, ";")
	var result []string
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}

	return result
}
