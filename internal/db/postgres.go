package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/vocabhub/vocab-backend/internal/types"
  "github.com/vocabhub/vocab-backend/internal/utils"
  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "vocabhub", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := AutoMigrate(s.db)
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return nil
}

// AutoMigrate migrates the vocabulary schema on any gorm dialect. Tests
// reuse it against sqlite.
func AutoMigrate(db *gorm.DB) error {
  return db.AutoMigrate(
    &types.UnitDefinition{},
    &types.AttributeType{},
    &types.WorkspaceAttributeType{},
    &types.AttributeValue{},
    &types.WorkspaceAttributeValue{},
    &types.Tag{},
    &types.WorkspaceTag{},
    &types.TagRelation{},
    &types.AttributeRelation{},
    &types.ParseRule{},
  )
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
