package auth

import (
	"errors"
	"net/http"
	"strings"

	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/pkg/logging"
)

// Capability 路由所需的访问能力（封闭集合）
type Capability int

const (
	Public Capability = iota
	Authenticated
	Admin
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// Guard 路由授权检查
//
// 每个路由注册时声明所需 Capability；令牌在每个请求中只解析一次，
// 结果以 AuthUser 形式写入 context。不会回查用户当前的 active 状态，
// 已签发的令牌在过期前持续有效。
type Guard struct {
	codec  *TokenCodec
	logger *logging.Logger
}

// NewGuard 创建授权检查器
func NewGuard(codec *TokenCodec, logger *logging.Logger) *Guard {
	return &Guard{codec: codec, logger: logger}
}

// Require 包装 handler，请求通过 need 检查后才会执行
func (g *Guard) Require(need Capability, next http.HandlerFunc) http.Handler {
	if need == Public {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authorize(r, need)
		if err != nil {
			httpx.WriteError(w, r, g.logger, err)
			return
		}
		ctx := WithAuthUser(r.Context(), user)
		ctx = logging.ContextWithUserID(ctx, user.ID)
		next(w, r.WithContext(ctx))
	})
}

// Authorize 解析请求令牌并检查能力
func (g *Guard) Authorize(r *http.Request, need Capability) (*AuthUser, error) {
	tokenString, ok := bearerToken(r)
	if !ok {
		return nil, apperr.ErrAuthenticationRequired
	}
	claims, err := g.codec.Verify(tokenString)
	if err != nil {
		if !errors.Is(err, ErrTokenExpired) {
			g.logger.WithContext(r.Context()).Debug("rejected token", "error", err)
		}
		return nil, apperr.ErrAuthenticationRequired
	}

	user := &AuthUser{ID: claims.Subject, Email: claims.Email, Role: claims.Role}
	if need == Admin && !user.IsAdmin() {
		return nil, apperr.ErrAuthorizationDenied
	}
	return user, nil
}

// bearerToken 从 Authorization 头提取令牌
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
