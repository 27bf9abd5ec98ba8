package server

import (
	"net/http"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/course"
	"sge-admin/internal/apiserver/dashboard"
	"sge-admin/internal/apiserver/institution"
	"sge-admin/internal/apiserver/student"
	"sge-admin/internal/apiserver/turma"
	"sge-admin/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则（均挂在 cfg.Server.Prefix 下，默认 /api）：
//
// 认证 (Auth):
//   - POST   /auth/login            - 登录（公开，按 IP 限流）
//   - POST   /auth/register         - 注册（公开）
//   - GET    /auth/me               - 当前用户
//   - PUT    /auth/password         - 修改密码
//
// 课程 / 班级 (Course / Turma)：读取需登录，写入需管理员
//   - GET|POST          /courses, /turmas
//   - GET|PUT|DELETE    /courses/{id}, /turmas/{id}
//
// 学生 (Student)：均需登录
//   - GET|POST          /students          - ?turma_id= &status_filter=
//   - GET|PUT|DELETE    /students/{id}
//   - GET               /students/{id}/photo
//
// 机构 (Institution):
//   - GET    /institution           - 首次读取时创建默认记录
//   - PUT    /institution           - 管理员
//
// 用户 (User)：均需管理员
//   - GET|POST          /users
//   - GET|PATCH|DELETE  /users/{id}
//
// 其他:
//   - GET    /dashboard/metrics     - 仪表盘
//   - GET    /health                - 健康检查（公开）
//   - GET    /metrics               - Prometheus 指标（不带前缀，公开）
func (h *Handler) Router() http.Handler {
	api := http.NewServeMux()
	logger := h.logger

	api.HandleFunc("GET /health", h.Health)

	limiter := newIPRateLimiter(h.cfg.RateLimit.LoginPerSecond, h.cfg.RateLimit.LoginBurst, h.metrics, logger.Component("ratelimit"))
	auth.NewHandler(h.creds, h.codec, h.guard, h.infra.Storage, logger.Component("auth")).
		WithLoginLimiter(limiter.Middleware).
		RegisterRoutes(api)

	course.NewHandler(h.infra.Storage, h.guard, logger.Component("course")).RegisterRoutes(api)
	turma.NewHandler(h.infra.Storage, h.links, h.guard, logger.Component("turma")).RegisterRoutes(api)

	var photos *student.Photos
	if h.infra.Objects != nil {
		photos = student.NewPhotos(h.infra.Objects, h.cfg.Server.Prefix, logger.Component("photos"))
	}
	student.NewHandler(h.infra.Storage, h.links, photos, h.guard, logger.Component("student")).RegisterRoutes(api)

	institution.NewHandler(h.infra.Storage, h.guard, logger.Component("institution")).RegisterRoutes(api)
	user.NewHandler(h.infra.Storage, h.creds, h.guard, logger.Component("user")).RegisterRoutes(api)

	reporter := dashboard.NewReporter(h.infra.Storage, h.infra.Cache, h.cfg.Dashboard.CacheTTL, logger.Component("dashboard"))
	dashboard.NewHandler(reporter, h.guard, logger.Component("dashboard")).RegisterRoutes(api)

	// 顶层路由：/metrics 不带前缀，业务接口挂在前缀下
	top := http.NewServeMux()
	top.Handle("GET /metrics", MetricsHandler(h.registry))
	apiHandler := invalidateOnWrite(reporter.Invalidate)(timeoutMiddleware(h.cfg.Server.RequestTimeout)(api))
	prefix := h.cfg.Server.Prefix
	if prefix == "" || prefix == "/" {
		top.Handle("/", apiHandler)
	} else {
		top.Handle(prefix+"/", http.StripPrefix(prefix, apiHandler))
	}

	var handler http.Handler = top
	handler = requestLogMiddleware(logger.Component("http"))(handler)
	handler = h.metrics.MetricsMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = corsMiddleware(h.cfg.Server.CORSOrigins)(handler)
	handler = trailingSlashMiddleware(prefix)(handler)
	return handler
}
