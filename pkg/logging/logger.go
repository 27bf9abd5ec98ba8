// Package logging 结构化日志
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
)

// Logger 结构化日志器
type Logger struct {
	*slog.Logger
	component string
}

// Config 日志配置
type Config struct {
	Level     string    `json:"level"`
	Format    string    `json:"format"` // json or text
	Output    string    `json:"output"` // stdout, stderr, or file path
	Writer    io.Writer `json:"-"`      // 非空时优先于 Output
	Component string    `json:"component"`
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New 创建新的日志器
func New(cfg Config) *Logger {
	level := ParseLevel(cfg.Level)

	output := cfg.Writer
	if output == nil {
		switch cfg.Output {
		case "stdout", "":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				output = os.Stdout
			} else {
				output = f
			}
		}
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With(slog.String("component", cfg.Component))
	}
	return &Logger{
		Logger:    logger,
		component: cfg.Component,
	}
}

// Discard 丢弃所有输出（测试用）
func Discard() *Logger {
	return New(Config{Writer: io.Discard})
}

// Component 派生带有新组件名的日志器
func (l *Logger) Component(name string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(slog.String("component", name)),
		component: name,
	}
}

// WithContext 从上下文提取请求信息
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var attrs []any
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id, ok := ctx.Value(UserIDKey).(string); ok && id != "" {
		attrs = append(attrs, slog.String("user_id", id))
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{
		Logger:    l.Logger.With(attrs...),
		component: l.component,
	}
}

// ContextWithRequestID 在上下文中记录请求 ID
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// ContextWithUserID 在上下文中记录当前用户 ID
func ContextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// RequestIDFromContext 读取请求 ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithError 添加错误信息
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{
		Logger:    l.Logger.With(slog.String("error", err.Error())),
		component: l.component,
	}
}

// WithDuration 添加持续时间
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{
		Logger:    l.Logger.With(slog.Float64("duration_ms", float64(d.Milliseconds()))),
		component: l.component,
	}
}

// HTTPRequestLog HTTP 请求日志
func (l *Logger) HTTPRequestLog(method, path string, status int, duration time.Duration, clientIP string) {
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	l.Logger.Log(context.Background(), level, "HTTP request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
		slog.String("client_ip", clientIP),
	)
}
