// Package auth 用户认证：凭据校验、JWT 令牌编解码、按路由能力授权
package auth

import (
	"context"

	"sge-admin/internal/shared/model"
)

// contextKey context 键类型
type contextKey string

const ctxKeyAuthUser contextKey = "auth_user"

// AuthUser 从 JWT 解析出的用户信息
type AuthUser struct {
	ID    string
	Email string
	Role  model.UserRole
}

// IsAdmin 是否为管理员
func (u *AuthUser) IsAdmin() bool {
	return u != nil && u.Role == model.UserRoleAdmin
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithAuthUser 将认证用户信息注入 context
func WithAuthUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, ctxKeyAuthUser, user)
}

// GetAuthUser 从 context 获取认证用户
func GetAuthUser(ctx context.Context) *AuthUser {
	user, _ := ctx.Value(ctxKeyAuthUser).(*AuthUser)
	return user
}
