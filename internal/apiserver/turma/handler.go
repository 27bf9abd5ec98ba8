// Package turma 班级管理 HTTP 处理器
//
// 写入前通过 integrity.Manager 解析 course_id 并复制课程名称。
package turma

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"sge-admin/internal/apiserver/auth"
	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/apiserver/integrity"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// Handler 班级 HTTP 处理器
type Handler struct {
	store  storage.TurmaStore
	links  *integrity.Manager
	guard  *auth.Guard
	logger *logging.Logger
}

// NewHandler 创建班级处理器
func NewHandler(store storage.TurmaStore, links *integrity.Manager, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{store: store, links: links, guard: guard, logger: logger}
}

// RegisterRoutes 注册班级路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /turmas", h.guard.Require(auth.Authenticated, h.List))
	mux.Handle("POST /turmas", h.guard.Require(auth.Admin, h.Create))
	mux.Handle("GET /turmas/{id}", h.guard.Require(auth.Authenticated, h.Get))
	mux.Handle("PUT /turmas/{id}", h.guard.Require(auth.Admin, h.Update))
	mux.Handle("DELETE /turmas/{id}", h.guard.Require(auth.Admin, h.Delete))
}

type createRequest struct {
	Name     string `json:"name" validate:"notblank"`
	CourseID string `json:"course_id" validate:"notblank"`
	Period   string `json:"period" validate:"notblank"`
	Year     *int   `json:"year" validate:"required"`
	Active   *bool  `json:"active"`
}

// Create 创建班级；课程不存在时返回 404 且不写入
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	turma := &model.Turma{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CourseID:  req.CourseID,
		Period:    req.Period,
		Year:      *req.Year,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if req.Active != nil {
		turma.Active = *req.Active
	}
	if err := h.links.LinkTurma(r.Context(), turma); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.store.CreateTurma(r.Context(), turma); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, turma)
}

// List 列出班级
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	turmas, err := h.store.ListTurmas(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if turmas == nil {
		turmas = []*model.Turma{}
	}
	httpx.WriteJSON(w, http.StatusOK, turmas)
}

// Get 获取班级
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	turma, err := h.store.GetTurma(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "turma"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, turma)
}

// Update 部分更新班级
//
// 顺序：班级存在性 → course_id 解析 → 写入。
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.TurmaPatch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if _, err := h.store.GetTurma(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "turma"))
		return
	}
	if err := h.links.PrepareTurmaPatch(r.Context(), &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	turma, err := h.store.UpdateTurma(r.Context(), id, &patch)
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "turma"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, turma)
}

// Delete 删除班级，不级联学生
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTurma(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "turma"))
		return
	}
	httpx.NoContent(w)
}
