// Package repository 数据库无关的业务逻辑存储层
//
// 通过 dbutil.Dialect 接口屏蔽不同数据库的 SQL 差异，
// 所有 SQL 以 PostgreSQL 风格编写，运行时由 Dialect.Rebind() 转换。
package repository

import (
	"context"
	"database/sql"
	"errors"

	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
)

// Store 通用存储实现
// 实现了 storage.PersistentStore 接口
type Store struct {
	db      *sql.DB
	dialect dbutil.Dialect
}

var _ storage.PersistentStore = (*Store)(nil)

// NewStore 创建通用存储
func NewStore(db *sql.DB, dialect dbutil.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

// DB 返回底层数据库连接（仅用于测试）
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind 快捷方法：将 PG 风格 SQL 转换为当前方言
func (s *Store) rebind(query string) string {
	return s.dialect.Rebind(query)
}

// wrapError 将驱动错误转换为领域错误
func (s *Store) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if s.dialect.IsUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	return err
}

// execAffectingOne 执行写语句，影响行数为 0 时返回 ErrNotFound
func (s *Store) execAffectingOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return s.wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// applyPatch 执行部分更新；没有待更新列时直接返回，存在性由随后的读取判断
func (s *Store) applyPatch(ctx context.Context, table, id string, b *dbutil.SetBuilder) error {
	if b.Empty() {
		return nil
	}
	query, args := b.Build(table, id)
	return s.execAffectingOne(ctx, query, args...)
}

// scanner 统一 *sql.Row 和 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// queryList 执行列表查询并逐行扫描
func queryList[T any](ctx context.Context, s *Store, scan func(scanner) (*T, error), query string, args ...interface{}) ([]*T, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	results := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// wrapNoRows 扫描阶段只需区分 ErrNoRows
func wrapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
