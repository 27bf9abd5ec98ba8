// Package sqlite SQLite 数据库驱动
//
// 提供 SQLite 连接管理、方言实现和自动 Schema 迁移。
// 适用于开发、测试和轻量级部署场景。
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sge-admin/internal/shared/storage/dbutil"

	_ "modernc.org/sqlite"
)

// Dialect SQLite 方言实现
type Dialect struct{}

var _ dbutil.Dialect = (*Dialect)(nil)

func (d *Dialect) DriverType() dbutil.DriverType {
	return dbutil.DriverSQLite
}

func (d *Dialect) Rebind(query string) string {
	return dbutil.StripPgCasts(dbutil.RebindToQuestion(query))
}

func (d *Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

func (d *Dialect) AutoMigrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Open 创建 SQLite 数据库连接
// dsn 示例: "file:sge.db?cache=shared&mode=rwc" 或 ":memory:"
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// 每个 :memory: 连接都是独立的数据库，必须固定为单连接
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// SQLite 优化设置
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return db, nil
}

// NewDialect 创建 SQLite 方言
func NewDialect() *Dialect {
	return &Dialect{}
}

// schema SQLite 完整建表语句（等价于 PostgreSQL 迁移文件）
//
// 实体之间只保存 ID 引用，不声明外键，删除不级联。
const schema = `
-- users
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    email VARCHAR(320) NOT NULL UNIQUE,
    name VARCHAR(200) NOT NULL,
    role VARCHAR(32) NOT NULL DEFAULT 'professor',
    active INTEGER NOT NULL DEFAULT 1,
    password_hash VARCHAR(100) NOT NULL,
    created_at DATETIME NOT NULL
);

-- courses
CREATE TABLE IF NOT EXISTS courses (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    workload INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_courses_name ON courses(name);

-- turmas
CREATE TABLE IF NOT EXISTS turmas (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    course_id VARCHAR(64) NOT NULL,
    course_name VARCHAR(200) NOT NULL DEFAULT '',
    period VARCHAR(64) NOT NULL,
    year INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turmas_name ON turmas(name);

-- students
CREATE TABLE IF NOT EXISTS students (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(320),
    phone VARCHAR(64),
    birth_date VARCHAR(32),
    photo TEXT,
    turma_id VARCHAR(64) NOT NULL,
    turma_name VARCHAR(200) NOT NULL DEFAULT '',
    course_name VARCHAR(200) NOT NULL DEFAULT '',
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_students_name ON students(name);
CREATE INDEX IF NOT EXISTS idx_students_turma_id ON students(turma_id);
CREATE INDEX IF NOT EXISTS idx_students_created_at ON students(created_at);

-- institution（单例）
CREATE TABLE IF NOT EXISTS institution (
    singleton INTEGER PRIMARY KEY CHECK (singleton = 1),
    id VARCHAR(64) NOT NULL,
    name VARCHAR(200) NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    phone VARCHAR(64) NOT NULL DEFAULT '',
    email VARCHAR(320) NOT NULL DEFAULT '',
    logo TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL
);
`
