package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"artist-portfolio/config"
	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/outbox"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/users"
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open connects to PostgreSQL and checks the connection.
func Open(ctx context.Context, cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logging.NewGormLogger(log.Named("gorm"), slowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every table owned by the application, parents first.
func Models() []any {
	return []any{
		&works.Work{},
		&contacts.Contact{},
		&users.User{},
		&site.ArtistInfo{},
		&site.ContactInfo{},
		&site.Settings{},
		&outbox.Email{},
	}
}

// Migrate brings the schema up to date. It only adds tables, columns,
// indexes and constraints.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)

	if err := consolidateSingletons(db, log); err != nil {
		return err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database migrated")
	return nil
}

// Seed inserts the default settings rows and the admin account.
func Seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if err := site.NewStore(db).EnsureDefaults(ctx); err != nil {
		return err
	}
	_, err := users.NewStore(db).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, log)
	return err
}

var singletonTables = []string{
	site.ArtistInfo{}.TableName(),
	site.ContactInfo{}.TableName(),
	site.Settings{}.TableName(),
}

// consolidateSingletons keeps only the newest row of each settings table
// and renumbers it to the singleton id, so the id = 1 check can be added.
func consolidateSingletons(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range singletonTables {
			if !tx.Migrator().HasTable(table) {
				continue
			}

			var maxID sql.NullInt64
			if err := tx.Table(table).Select("MAX(id)").Row().Scan(&maxID); err != nil {
				return fmt.Errorf("inspect %s: %w", table, err)
			}
			if !maxID.Valid {
				continue
			}
			latest := uint(maxID.Int64)

			res := tx.Exec("DELETE FROM "+table+" WHERE id <> ?", latest)
			if res.Error != nil {
				return fmt.Errorf("consolidate %s: %w", table, res.Error)
			}
			if latest != site.SingletonID {
				if err := tx.Exec("UPDATE "+table+" SET id = ? WHERE id = ?", site.SingletonID, latest).Error; err != nil {
					return fmt.Errorf("renumber %s: %w", table, err)
				}
			}
			if res.RowsAffected > 0 || latest != site.SingletonID {
				log.Info("settings table consolidated",
					zap.String("table", table), zap.Int64("removed", res.RowsAffected), zap.Uint("kept_id", latest))
			}
		}
		return nil
	})
}
