// Package migrations 内嵌 PostgreSQL goose 迁移文件
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
