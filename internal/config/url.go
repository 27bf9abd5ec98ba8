package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// buildDatabaseURL 根据驱动类型构建数据库连接字符串
func buildDatabaseURL(db DatabaseConfig, password string) string {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite:
		dbPath := db.Path
		if dbPath == "" {
			dbPath = "sge-admin.db"
		}
		if dbPath == ":memory:" {
			return dbPath
		}
		return fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath)
	case DriverMongoDB:
		if db.URI != "" {
			return db.URI
		}
		if db.User != "" && password != "" {
			return fmt.Sprintf("mongodb://%s:%s@%s:%d", db.User, password, db.Host, db.Port)
		}
		return fmt.Sprintf("mongodb://%s:%d", db.Host, db.Port)
	default: // postgres
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			db.User, password, db.Host, db.Port, db.Name, db.SSLMode)
	}
}

// detectDatabaseDriver 检测数据库驱动类型
// 优先级：YAML driver 字段 > DATABASE_URL 前缀自动检测 > 默认 mongodb
func detectDatabaseDriver(yamlDriver, databaseURL string) string {
	// 1. YAML 显式指定
	switch d := strings.ToLower(yamlDriver); d {
	case DriverSQLite, DriverPostgres, DriverMongoDB:
		return d
	case "mongo":
		return DriverMongoDB
	}
	// 2. 从 DATABASE_URL 前缀自动检测
	if strings.HasPrefix(databaseURL, "file:") || strings.HasPrefix(databaseURL, "sqlite:") || databaseURL == ":memory:" {
		return DriverSQLite
	}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DriverPostgres
	}
	// 3. 默认 mongodb
	return DriverMongoDB
}

// buildRedisURL 构建 Redis 连接字符串
// 如果 URL 字段非空，直接使用；否则从 host/port/db/password 构建
func buildRedisURL(redis RedisConfig) string {
	if redis.URL != "" {
		return redis.URL
	}
	port := redis.Port
	if port == 0 {
		port = 6379
	}
	if redis.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", redis.Password, redis.Host, port, redis.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", redis.Host, port, redis.DB)
}

var passwordRe = regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)

// maskPassword 隐藏密码
func maskPassword(url string) string {
	return passwordRe.ReplaceAllString(url, "${1}***${3}")
}

// parseEnv 解析环境字符串
func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

// firstEnv 返回第一个非空的环境变量值
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// firstEnvOr 同 firstEnv，全部为空时返回 fallback
func firstEnvOr(fallback string, keys ...string) string {
	if v := firstEnv(keys...); v != "" {
		return v
	}
	return fallback
}

// getEnv 获取环境变量，支持默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList 解析逗号分隔列表，忽略空项
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Driver: %s, DB: %s, DBName: %s, Redis: %s, MinIO: %s, Prefix: %s}",
		c.Env, c.DatabaseDriver, maskPassword(c.DatabaseURL), c.DatabaseName,
		maskPassword(c.RedisURL), c.MinIO.Endpoint, c.Server.Prefix)
}
