package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"sge-admin/pkg/logging"
)

// trailingSlashMiddleware 去掉路径末尾的斜杠，使 /courses 与 /courses/ 命中同一路由
//
// prefix+"/" 原样放行：它是前缀子树的根，去掉斜杠后 ServeMux 会重定向回来。
func trailingSlashMiddleware(prefix string) func(http.Handler) http.Handler {
	root := strings.TrimRight(prefix, "/") + "/"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p := r.URL.Path; len(p) > 1 && p != root && strings.HasSuffix(p, "/") {
				r.URL.Path = strings.TrimRight(p, "/")
				if r.URL.Path == "" {
					r.URL.Path = "/"
				}
				r.URL.RawPath = ""
			}
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware 添加 CORS 头支持跨域请求
//
// origins 含 "*" 时允许任意来源；否则只回显白名单内的 Origin。
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestIDMiddleware 为每个请求分配 ID（沿用客户端传入的 X-Request-ID）
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = ulid.Make().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// requestLogMiddleware 记录每个请求的方法、路径、状态码与耗时
func requestLogMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			logger.WithContext(r.Context()).HTTPRequestLog(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), clientIP(r))
		})
	}
}

// timeoutMiddleware 为请求上下文设置超时，存储调用随之取消
func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// invalidateOnWrite 写请求成功后使仪表盘快照失效
func invalidateOnWrite(invalidate func(context.Context)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			if wrapped.statusCode < http.StatusBadRequest {
				invalidate(context.WithoutCancel(r.Context()))
			}
		})
	}
}

// clientIP 取连接的对端地址，不信任转发头
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
