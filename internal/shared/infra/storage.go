package infra

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"sge-admin/internal/config"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
	pgdriver "sge-admin/internal/shared/storage/driver/postgres"
	sqlitedriver "sge-admin/internal/shared/storage/driver/sqlite"
	"sge-admin/internal/shared/storage/mongostore"
	"sge-admin/internal/shared/storage/repository"
)

// OpenStorage 按 DatabaseDriver 选择存储实现并完成建表/建索引
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.PersistentStore, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMongoDB:
		store, err := mongostore.NewStore(cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		log.Printf("[infra] Storage: mongodb (db=%s)", cfg.DatabaseName)
		return store, nil

	case config.DriverPostgres:
		db, err := pgdriver.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return openSQL(ctx, db, pgdriver.NewDialect())

	case config.DriverSQLite:
		db, err := sqlitedriver.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return openSQL(ctx, db, sqlitedriver.NewDialect())
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
}

func openSQL(ctx context.Context, db *sql.DB, dialect dbutil.Dialect) (storage.PersistentStore, error) {
	if err := dialect.AutoMigrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dialect.DriverType(), err)
	}
	log.Printf("[infra] Storage: %s", dialect.DriverType())
	return repository.NewStore(db, dialect), nil
}
