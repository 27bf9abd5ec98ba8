// Package institution 机构信息 HTTP 处理器
package institution

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// Handler 机构信息处理器
type Handler struct {
	store  storage.InstitutionStore
	guard  *auth.Guard
	logger *logging.Logger
}

// NewHandler 创建机构信息处理器
func NewHandler(store storage.InstitutionStore, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{store: store, guard: guard, logger: logger}
}

// RegisterRoutes 注册机构信息路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /institution", h.guard.Require(auth.Authenticated, h.Get))
	mux.Handle("PUT /institution", h.guard.Require(auth.Admin, h.Update))
}

// updateRequest 整体覆盖：未提供的可选字段写为空串
type updateRequest struct {
	Name    string  `json:"name" validate:"notblank"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Logo    *string `json:"logo"`
}

// Get 读取机构信息，首次读取时以默认值创建
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inst, err := h.store.EnsureInstitution(r.Context(), &model.Institution{
		ID:        uuid.NewString(),
		Name:      model.DefaultInstitutionName,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inst)
}

// Update 覆盖机构信息（不存在则创建）
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	inst, err := h.store.SaveInstitution(r.Context(), &model.Institution{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Address:   deref(req.Address),
		Phone:     deref(req.Phone),
		Email:     deref(req.Email),
		Logo:      deref(req.Logo),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inst)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
