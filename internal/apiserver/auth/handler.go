package auth

import (
	"net/http"

	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	creds  *Credentials
	codec  *TokenCodec
	guard  *Guard
	store  storage.UserStore
	logger *logging.Logger

	// loginLimit 登录限流，为 nil 时不限流
	loginLimit func(http.Handler) http.Handler
}

// NewHandler 创建认证处理器
func NewHandler(creds *Credentials, codec *TokenCodec, guard *Guard, store storage.UserStore, logger *logging.Logger) *Handler {
	return &Handler{creds: creds, codec: codec, guard: guard, store: store, logger: logger}
}

// WithLoginLimiter 为登录接口挂载限流中间件
func (h *Handler) WithLoginLimiter(mw func(http.Handler) http.Handler) *Handler {
	h.loginLimit = mw
	return h
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	var login http.Handler = http.HandlerFunc(h.Login)
	if h.loginLimit != nil {
		login = h.loginLimit(login)
	}
	mux.Handle("POST /auth/login", login)
	mux.Handle("POST /auth/register", h.guard.Require(Public, h.Register))
	mux.Handle("GET /auth/me", h.guard.Require(Authenticated, h.Me))
	mux.Handle("PUT /auth/password", h.guard.Require(Authenticated, h.ChangePassword))
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 用户登录
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.creds.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	token, err := h.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("user logged in", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Register 用户注册，不签发令牌
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.creds.Register(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// Me 获取当前用户信息
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		httpx.WriteError(w, r, h.logger, apperr.ErrAuthenticationRequired)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "user"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		httpx.WriteError(w, r, h.logger, apperr.ErrAuthenticationRequired)
		return
	}

	var req changePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.creds.ChangePassword(r.Context(), authUser.ID, req.OldPassword, req.NewPassword); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
