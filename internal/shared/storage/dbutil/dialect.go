// Package dbutil 提供数据库方言抽象和工具函数
//
// 通过 Dialect 接口屏蔽不同数据库（PostgreSQL、SQLite）的 SQL 差异，
// 使 repository 层可以编写与数据库无关的业务逻辑。
package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// DriverType 数据库驱动类型
type DriverType string

const (
	DriverPostgres DriverType = "postgres"
	DriverSQLite   DriverType = "sqlite"
)

// Dialect 数据库方言接口
//
// 不同数据库的 SQL 语法差异通过该接口屏蔽：
//   - 占位符：PostgreSQL 用 $1, $2；SQLite 用 ?
//   - 唯一约束冲突：PostgreSQL 返回 SQLSTATE 23505；SQLite 返回 "UNIQUE constraint failed"
//   - Schema 管理：PostgreSQL 走 goose 迁移；SQLite 直接执行建表语句
type Dialect interface {
	// DriverType 返回驱动类型标识
	DriverType() DriverType

	// Rebind 将 PostgreSQL 风格的占位符 ($1, $2, ...) 转换为目标数据库的占位符格式
	Rebind(query string) string

	// IsUniqueViolation 判断错误是否为唯一约束冲突
	IsUniqueViolation(err error) bool

	// AutoMigrate 自动创建/迁移数据库 Schema
	AutoMigrate(ctx context.Context, db *sql.DB) error
}

// pgPlaceholderRe 匹配 PostgreSQL 风格占位符 $1, $2, ...
var pgPlaceholderRe = regexp.MustCompile(`\$(\d+)`)

// pgCastRe 匹配 PostgreSQL 类型转换 ::type
var pgCastRe = regexp.MustCompile(`::(\w+)`)

// RebindToPositional 保持 $N 占位符不变（PostgreSQL 专用）
func RebindToPositional(query string) string {
	return query
}

// RebindToQuestion 将 $N 占位符转换为 ? （SQLite 专用）
//
// 仅适用于占位符按 $1..$N 顺序出现且每个只出现一次的语句。
func RebindToQuestion(query string) string {
	return pgPlaceholderRe.ReplaceAllString(query, "?")
}

// StripPgCasts 去除 PostgreSQL 类型转换 (::varchar, ::text 等)
func StripPgCasts(query string) string {
	return pgCastRe.ReplaceAllString(query, "")
}

// SetBuilder 构建部分更新的 SET 子句
//
// 只有调用过 Set 的列才会出现在 UPDATE 中，占位符从 $1 开始顺序编号。
type SetBuilder struct {
	columns []string
	args    []interface{}
}

// Set 追加一列
func (b *SetBuilder) Set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.columns = append(b.columns, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// Empty 是否没有任何列
func (b *SetBuilder) Empty() bool {
	return len(b.columns) == 0
}

// Build 生成 "UPDATE table SET ... WHERE id = $N" 及其参数
func (b *SetBuilder) Build(table, id string) (string, []interface{}) {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(b.columns, ", "), len(args))
	return query, args
}

// SetIf 值非 nil 时追加一列
func SetIf[V any](b *SetBuilder, column string, v *V) {
	if v != nil {
		b.Set(column, *v)
	}
}

// SetNullable set 为 true 时追加一列，v 为 nil 写入 NULL
func SetNullable[V any](b *SetBuilder, column string, set bool, v *V) {
	if !set {
		return
	}
	if v == nil {
		b.Set(column, nil)
		return
	}
	b.Set(column, *v)
}

// Where 构建 AND 连接的 WHERE 条件
type Where struct {
	conditions []string
	args       []interface{}
}

// Eq 追加等值条件
func (w *Where) Eq(column string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

// Apply 将条件拼接到 baseQuery 之后
func (w *Where) Apply(baseQuery string) (string, []interface{}) {
	if len(w.conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(w.conditions, " AND ")
	}
	return baseQuery, w.args
}
