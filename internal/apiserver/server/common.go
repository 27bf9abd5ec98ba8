// Package server 路由配置与核心基础设施
//
// 文件组织：
//   - common.go: Handler 定义与依赖组装
//   - handler.go: 路由表与中间件链
//   - middleware.go: 路径规范化、CORS、请求 ID、日志、超时
//   - ratelimit.go: 登录限流
//   - metrics.go: Prometheus 指标
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/apiserver/integrity"
	"sge-admin/internal/config"
	"sge-admin/internal/shared/infra"
	"sge-admin/pkg/logging"
)

// metricsNamespace Prometheus 指标命名空间
const metricsNamespace = "sge"

// Handler API 处理器
//
// 持有进程级依赖（配置、存储、缓存、对象存储）以及由它们构造的
// 认证组件，Router 据此组装各领域的路由。
type Handler struct {
	cfg    *config.Config
	infra  *infra.Infrastructure
	logger *logging.Logger

	creds *auth.Credentials
	codec *auth.TokenCodec
	guard *auth.Guard
	links *integrity.Manager

	registry *prometheus.Registry
	metrics  *Metrics
}

// NewHandler 创建 Handler 实例
func NewHandler(cfg *config.Config, inf *infra.Infrastructure, logger *logging.Logger) (*Handler, error) {
	creds, err := auth.NewCredentials(inf.Storage, cfg.Auth.BcryptCost, logger.Component("auth"))
	if err != nil {
		return nil, err
	}
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.Auth.AccessTokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Handler{
		cfg:      cfg,
		infra:    inf,
		logger:   logger,
		creds:    creds,
		codec:    codec,
		guard:    auth.NewGuard(codec, logger.Component("auth")),
		links:    integrity.NewManager(inf.Storage),
		registry: registry,
		metrics:  NewMetrics(metricsNamespace, registry),
	}, nil
}

// Credentials 返回凭据管理器（启动时用于初始化管理员账号）
func (h *Handler) Credentials() *auth.Credentials {
	return h.creds
}

// Health 健康检查：存储可达时返回 200
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.infra.Storage.Ping(ctx); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Warn("health check failed")
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": h.cfg.DatabaseDriver,
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": h.cfg.DatabaseDriver,
	})
}
