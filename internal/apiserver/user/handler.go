// Package user 用户管理 HTTP 处理器（仅管理员）
package user

import (
	"net/http"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// Handler 用户管理 HTTP 处理器
type Handler struct {
	store  storage.UserStore
	creds  *auth.Credentials
	guard  *auth.Guard
	logger *logging.Logger
}

// NewHandler 创建用户管理处理器
func NewHandler(store storage.UserStore, creds *auth.Credentials, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{store: store, creds: creds, guard: guard, logger: logger}
}

// RegisterRoutes 注册用户管理路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /users", h.guard.Require(auth.Admin, h.List))
	mux.Handle("POST /users", h.guard.Require(auth.Admin, h.Create))
	mux.Handle("GET /users/{id}", h.guard.Require(auth.Admin, h.Get))
	mux.Handle("PATCH /users/{id}", h.guard.Require(auth.Admin, h.Update))
	mux.Handle("DELETE /users/{id}", h.guard.Require(auth.Admin, h.Delete))
}

// Create 管理员创建用户
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.creds.Register(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.WithContext(r.Context()).Info("user created by admin", "new_user_id", user.ID, "role", user.Role)
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// List 列出用户（按创建时间倒序）
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

// Get 获取用户
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "user"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// Update 修改用户名称、角色或启用状态
//
// 管理员不能停用自己，也不能取消自己的管理员角色。
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.UserPatch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if self := auth.GetAuthUser(r.Context()); self != nil && self.ID == id {
		if patch.Active != nil && !*patch.Active {
			httpx.WriteError(w, r, h.logger, apperr.SelfAction("cannot disable your own account"))
			return
		}
		if patch.Role != nil && *patch.Role != model.UserRoleAdmin {
			httpx.WriteError(w, r, h.logger, apperr.SelfAction("cannot remove your own admin role"))
			return
		}
	}

	user, err := h.store.UpdateUser(r.Context(), id, &patch)
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "user"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// Delete 删除用户，不能删除自己
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if self := auth.GetAuthUser(r.Context()); self != nil && self.ID == id {
		httpx.WriteError(w, r, h.logger, apperr.SelfAction("cannot delete your own account"))
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "user"))
		return
	}
	h.logger.WithContext(r.Context()).Info("user deleted", "deleted_user_id", id)
	httpx.NoContent(w)
}
