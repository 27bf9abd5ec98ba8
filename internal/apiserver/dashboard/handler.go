package dashboard

import (
	"net/http"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/httpx"
	"sge-admin/pkg/logging"
)

// Handler 仪表盘 HTTP 处理器
type Handler struct {
	reporter *Reporter
	guard    *auth.Guard
	logger   *logging.Logger
}

// NewHandler 创建仪表盘处理器
func NewHandler(reporter *Reporter, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{reporter: reporter, guard: guard, logger: logger}
}

// RegisterRoutes 注册仪表盘路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /dashboard/metrics", h.guard.Require(auth.Authenticated, h.Metrics))
}

// Metrics 返回仪表盘聚合指标
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reporter.Metrics(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, metrics)
}
