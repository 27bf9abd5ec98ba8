// Package student 学生管理 HTTP 处理器
//
// 所有接口只要求登录。写入前通过 integrity.Manager 解析 turma_id 并复制
// 班级名与课程名。配置了对象存储时，data URL 形式的照片在记录写入后转存到 MinIO。
package student

import (
	"context"
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

// Handler 学生 HTTP 处理器
type Handler struct {
	store  storage.StudentStore
	links  *integrity.Manager
	photos *Photos
	guard  *auth.Guard
	logger *logging.Logger
}

// NewHandler 创建学生处理器；photos 为 nil 时照片按原样内联保存
func NewHandler(store storage.StudentStore, links *integrity.Manager, photos *Photos, guard *auth.Guard, logger *logging.Logger) *Handler {
	return &Handler{store: store, links: links, photos: photos, guard: guard, logger: logger}
}

// RegisterRoutes 注册学生路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /students", h.guard.Require(auth.Authenticated, h.List))
	mux.Handle("POST /students", h.guard.Require(auth.Authenticated, h.Create))
	mux.Handle("GET /students/{id}", h.guard.Require(auth.Authenticated, h.Get))
	mux.Handle("PUT /students/{id}", h.guard.Require(auth.Authenticated, h.Update))
	mux.Handle("DELETE /students/{id}", h.guard.Require(auth.Authenticated, h.Delete))
	mux.Handle("GET /students/{id}/photo", h.guard.Require(auth.Authenticated, h.Photo))
}

type createRequest struct {
	Name      string  `json:"name" validate:"notblank"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Photo     *string `json:"photo"`
	TurmaID   string  `json:"turma_id" validate:"notblank"`
}

// Create 创建学生，状态固定为 active
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
	if err := Check(req.Photo); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	student := &model.Student{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Photo:     req.Photo,
		TurmaID:   req.TurmaID,
		Status:    model.StudentStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.links.LinkStudent(r.Context(), student); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.store.CreateStudent(r.Context(), student); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h.offloadPhoto(r.Context(), student))
}

// List 列出学生，支持 turma_id 与 status_filter 过滤
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.StudentFilter{
		TurmaID: q.Get("turma_id"),
		Status:  model.StudentStatus(q.Get("status_filter")),
	}
	if err := httpx.ValidateVar("status_filter", string(filter.Status), "omitempty,oneof=active inactive graduated"); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	students, err := h.store.ListStudents(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if students == nil {
		students = []*model.Student{}
	}
	httpx.WriteJSON(w, http.StatusOK, students)
}

// Get 获取学生
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "student"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

// Update 部分更新学生
//
// 顺序：学生存在性 → turma_id 解析 → 写入 → 照片转存。
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.StudentPatch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(&patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := Check(patch.Photo.Value); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	if _, err := h.store.GetStudent(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "student"))
		return
	}
	if err := h.links.PrepareStudentPatch(r.Context(), &patch); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	student, err := h.store.UpdateStudent(r.Context(), id, &patch)
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "student"))
		return
	}
	if patch.Photo.Value != nil {
		student = h.offloadPhoto(r.Context(), student)
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

// offloadPhoto 记录写入成功后转存照片并改写 photo 字段
//
// 转存或改写失败时保留内联照片，只记录日志。
func (h *Handler) offloadPhoto(ctx context.Context, student *model.Student) *model.Student {
	url, err := h.photos.Offload(ctx, student.ID, student.Photo)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("photo offload failed, keeping inline copy", "student_id", student.ID)
		return student
	}
	if url == nil {
		return student
	}
	updated, err := h.store.UpdateStudent(ctx, student.ID, &model.StudentPatch{Photo: model.Some(*url)})
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("photo link update failed, keeping inline copy", "student_id", student.ID)
		return student
	}
	return updated
}

// Delete 删除学生
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStudent(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "student"))
		return
	}
	httpx.NoContent(w)
}

// Photo 输出学生照片
func (h *Handler) Photo(w http.ResponseWriter, r *http.Request) {
	student, err := h.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, httpx.NotFoundAs(err, "student"))
		return
	}
	if err := h.photos.Serve(w, r, student); err != nil {
		httpx.WriteError(w, r, h.logger, err)
	}
}
