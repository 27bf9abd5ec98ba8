// Package course 课程管理 HTTP 处理器
package course

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

// Handler 课程 HTTP 处理器
type Handler struct {
	store  storage.CourseStore
	guard  *auth.Guard
	logger *logging.Logger
}

// NewHandler 创建课程处理器
func NewHandler(store storage.CourseStore, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{store: store, guard: guard, logger: logger}
}

// RegisterRoutes 注册课程路由：读取需要登录，写入需要管理员
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /courses", h.guard.Require(auth.Authenticated, h.List))
	mux.Handle("POST /courses", h.guard.Require(auth.Admin, h.Create))
	mux.Handle("GET /courses/{id}", h.guard.Require(auth.Authenticated, h.Get))
	mux.Handle("PUT /courses/{id}", h.guard.Require(auth.Admin, h.Update))
	mux.Handle("DELETE /courses/{id}", h.guard.Require(auth.Admin, h.Delete))
}

type createRequest struct {
	Name        string  `json:"name" validate:"notblank"`
	Workload    *int    `json:"workload" validate:"required"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// Create 创建课程，active 默认为 true
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

	course := &model.Course{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Workload:    *req.Workload,
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err := h.store.CreateCourse(r.Context(), course); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, course)
}

// List 列出课程
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if courses == nil {
		courses = []*model.Course{}
	}
	httpx.WriteJSON(w, http.StatusOK, courses)
}

// Get 获取课程
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.store.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "course"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, course)
}

// Update 部分更新课程，只写入请求中出现的字段
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.CoursePatch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	course, err := h.store.UpdateCourse(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "course"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, course)
}

// Delete 删除课程，不级联班级
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "course"))
		return
	}
	httpx.NoContent(w)
}
