// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（密码、密钥）和 APP_ENV
//  2. 默认值 → configs/common.yaml → configs/{env}.yaml
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// 数据库驱动
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	MinIO     MinIOConfig     `yaml:"minio"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Log       LogConfig       `yaml:"log"`

	loadedFrom string
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	Prefix         string        `yaml:"prefix"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver  string `yaml:"driver"` // mongodb | postgres | sqlite
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	Name    string `yaml:"name"`
	SSLMode string `yaml:"sslmode"`
	Path    string `yaml:"path"` // sqlite 文件路径
	URI     string `yaml:"uri"`  // mongodb 完整 URI
}

type AuthConfig struct {
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
}

// RedisConfig 为空时不启用 Redis
type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"`
}

type DashboardConfig struct {
	// CacheTTL 为 0 时不缓存
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// MinIOConfig Endpoint 为空时不启用对象存储
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `yaml:"login_per_second"`
	LoginBurst     int     `yaml:"login_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env Environment
	// ConfigFile 实际加载的 {env}.yaml 路径，未找到时为空
	ConfigFile     string
	Server         ServerConfig
	DatabaseDriver string
	DatabaseURL    string
	DatabaseName   string // mongodb 数据库名
	Auth           AuthConfig
	JWTSecret      []byte
	// JWTSecretGenerated 为 true 表示未配置密钥，使用了进程内随机密钥
	JWTSecretGenerated bool
	AdminEmail         string
	AdminPassword      string
	RedisURL           string
	Dashboard          DashboardConfig
	MinIO              MinIOConfig
	RateLimit          RateLimitConfig
	Log                LogConfig
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 构建最终配置
func Load() (*Config, error) {
	env := parseEnv(getEnv("APP_ENV", "dev"))
	loadEnvFiles(env)
	// .env 可能设置了 APP_ENV
	env = parseEnv(getEnv("APP_ENV", string(env)))

	yamlCfg := loadYAMLConfig(env)
	cfg, err := build(env, yamlCfg)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = yamlCfg.loadedFrom
	return cfg, nil
}

// build 合并 YAML 与环境变量，生成最终配置
func build(env Environment, y *YAMLConfig) (*Config, error) {
	applyServerEnv(&y.Server)

	dbPassword := getEnv("DB_PASSWORD", "")
	databaseURL := os.Getenv("DATABASE_URL")
	driver := detectDatabaseDriver(getEnv("DB_DRIVER", y.Database.Driver), databaseURL)
	y.Database.Driver = driver
	if driver == DriverMongoDB {
		databaseURL = firstEnvOr(databaseURL, "MONGO_URL")
	}
	if databaseURL == "" {
		databaseURL = buildDatabaseURL(y.Database, dbPassword)
	}

	cfg := &Config{
		Env:            env,
		Server:         y.Server,
		DatabaseDriver: driver,
		DatabaseURL:    databaseURL,
		DatabaseName:   getEnv("DB_NAME", y.Database.Name),
		Auth:           y.Auth,
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		Dashboard:      y.Dashboard,
		MinIO:          y.MinIO,
		RateLimit:      y.RateLimit,
		Log:            y.Log,
	}

	// Redis
	y.Redis.Password = getEnv("REDIS_PASSWORD", y.Redis.Password)
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	} else if y.Redis.URL != "" || y.Redis.Host != "" {
		cfg.RedisURL = buildRedisURL(y.Redis)
	}
	if v := os.Getenv("DASHBOARD_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DASHBOARD_CACHE_TTL: %w", err)
		}
		cfg.Dashboard.CacheTTL = d
	}

	// MinIO 凭据只从环境变量读取
	cfg.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", cfg.MinIO.Endpoint)
	cfg.MinIO.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.MinIO.SecretKey = os.Getenv("MINIO_SECRET_KEY")

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	// JWT 签名密钥：进程内只加载一次，轮换即令所有已签发令牌失效
	if secret := firstEnv("JWT_SECRET", "JWT_SECRET_KEY"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else {
		if env == EnvProduction {
			return nil, fmt.Errorf("JWT_SECRET is required in %s environment", env)
		}
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretGenerated = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyServerEnv 环境变量覆盖 server 配置
func applyServerEnv(s *ServerConfig) {
	s.Port = firstEnvOr(s.Port, "API_PORT", "PORT")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		s.CORSOrigins = splitList(origins)
	}
}

// defaultYAMLConfig 默认配置
func defaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Server: ServerConfig{
			Port:           "8001",
			Prefix:         "/api",
			RequestTimeout: 10 * time.Second,
			CORSOrigins:    []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:  DriverMongoDB,
			Host:    "localhost",
			Port:    27017,
			User:    "",
			Name:    "sge_database",
			SSLMode: "disable",
		},
		Auth:      AuthConfig{AccessTokenTTL: 24 * time.Hour, BcryptCost: 12},
		MinIO:     MinIOConfig{Bucket: "sge-admin"},
		RateLimit: RateLimitConfig{LoginPerSecond: 1, LoginBurst: 10},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := defaultYAMLConfig()

	paths := effectiveConfigPaths(env)

	// common.yaml（公共配置）
	for _, base := range paths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range paths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			cfg.loadedFrom = path
			break
		}
	}

	return cfg
}

// validate 检查配置取值，并对可选项回填默认值
func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverMongoDB, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverMongoDB && c.DatabaseName == "" {
		return fmt.Errorf("database name (DB_NAME) is required for mongodb")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if c.Server.Prefix != "" && !strings.HasPrefix(c.Server.Prefix, "/") {
		c.Server.Prefix = "/" + c.Server.Prefix
	}
	c.Server.Prefix = strings.TrimRight(c.Server.Prefix, "/")
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive")
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Dashboard.CacheTTL < 0 {
		return fmt.Errorf("dashboard.cache_ttl must not be negative")
	}
	if c.RateLimit.LoginPerSecond <= 0 {
		c.RateLimit.LoginPerSecond = 1
	}
	if c.RateLimit.LoginBurst <= 0 {
		c.RateLimit.LoginBurst = 10
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// MinIOEnabled 是否配置了对象存储
func (c *Config) MinIOEnabled() bool {
	return c.MinIO.Endpoint != ""
}
