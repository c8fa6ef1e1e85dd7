// Package migrate applies the DDL files in migrations/ through the Spanner
// admin API, creating the instance and database first on the emulator.
package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Migrator targets one database.
type Migrator struct {
	ProjectID  string
	InstanceID string
	DatabaseID string
	Dir        string
	Logger     *zap.Logger
}

func (m *Migrator) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", m.ProjectID, m.InstanceID)
}

func (m *Migrator) databaseName() string {
	return fmt.Sprintf("%s/databases/%s", m.instanceName(), m.DatabaseID)
}

// emulator reports whether SPANNER_EMULATOR_HOST is set.
func emulator() bool {
	return os.Getenv("SPANNER_EMULATOR_HOST") != ""
}

// Run ensures the instance (emulator only) and database exist, then applies
// every *.sql file in Dir in name order.
func (m *Migrator) Run(ctx context.Context) error {
	if emulator() {
		m.Logger.Info("Using Spanner emulator", zap.String("host", os.Getenv("SPANNER_EMULATOR_HOST")))
		if err := m.ensureInstance(ctx); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}

	if err := m.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := m.applyMigrations(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	m.Logger.Info("Migrations completed successfully")
	return nil
}

func (m *Migrator) ensureInstance(ctx context.Context) error {
	m.Logger.Info("Ensuring instance exists", zap.String("instance", m.InstanceID))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.instanceName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check instance: %w", err)
	}

	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + m.ProjectID,
		InstanceId: m.InstanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.ProjectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	// The emulator may finish before Wait is called.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		m.Logger.Warn("Instance creation did not report completion", zap.Error(err))
	}

	m.Logger.Info("Instance created")
	return nil
}

func (m *Migrator) ensureDatabase(ctx context.Context) error {
	m.Logger.Info("Ensuring database exists", zap.String("database", m.DatabaseID))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.databaseName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if emulator() {
			m.Logger.Warn("Proceeding with database (emulator mode)", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.DatabaseID),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}

	m.Logger.Info("Database created")
	return nil
}

func (m *Migrator) applyMigrations(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(m.Dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.Logger.Warn("No migration files found", zap.String("dir", m.Dir))
		return nil
	}
	sort.Strings(files)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := SplitStatements(string(content))
		if len(statements) == 0 {
			continue
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.databaseName(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}

		m.Logger.Info("Applied migration", zap.String("file", name), zap.Int("statements", len(statements)))
	}

	return nil
}

// SplitStatements drops "--" comment lines and splits DDL on semicolons.
func SplitStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
