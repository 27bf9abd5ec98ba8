// Package storagetest 为上层包的测试提供 SQLite 内存存储
package storagetest

import (
	"context"
	"testing"

	sqlitedriver "sge-admin/internal/shared/storage/driver/sqlite"
	"sge-admin/internal/shared/storage/repository"
)

// NewSQLite 创建已迁移的 SQLite 内存 Store，测试结束时自动关闭
func NewSQLite(t testing.TB) *repository.Store {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dialect := sqlitedriver.NewDialect()
	if err := dialect.AutoMigrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate sqlite: %v", err)
	}
	store := repository.NewStore(db, dialect)
	t.Cleanup(func() { store.Close() })
	return store
}
