package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
  "github.com/kmaruoka/maherama-sub000/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "maherama", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  serviceLog.Info("Connecting to Postgres...")
  gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  return AutoMigrate(s.db)
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// AutoMigrate creates every table the core uses, including the eight
// period-bucketed prayer stat tables and the unique constraints the
// upsert paths rely on. Shared with the sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
  if err := db.AutoMigrate(
    &types.User{},
    &types.LevelTier{},
    &types.AbilityDefinition{},
    &types.UserAbility{},
    &types.AbilityLedgerEntry{},
    &types.Subscription{},
    &types.Shrine{},
    &types.Deity{},
    &types.ShrineDeity{},
    &types.RemotePrayerEvent{},
  ); err != nil {
    return err
  }

  for _, kind := range []types.StatKind{types.StatKindShrine, types.StatKindDeity} {
    for _, period := range types.StatPeriods {
      table := types.StatTableName(kind, period)
      if err := db.Table(table).AutoMigrate(&types.PrayerStat{}); err != nil {
        return fmt.Errorf("migrating %s: %w", table, err)
      }
      // The insert-or-increment upsert needs this constraint; index
      // names are global, so they carry the table name.
      stmt := fmt.Sprintf(
        `CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_target_user ON %s (target_id, user_id)`,
        table, table,
      )
      if err := db.Exec(stmt).Error; err != nil {
        return fmt.Errorf("indexing %s: %w", table, err)
      }
    }
  }
  return nil
}
