package student

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sge-admin/internal/shared/apperr"
	objstore "sge-admin/internal/shared/minio"
	"sge-admin/internal/shared/model"
	"sge-admin/pkg/logging"
)

// ObjectStore 照片转存所需的对象存储操作
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (*objstore.Object, error)
	Latest(ctx context.Context, prefix string) (string, error)
}

// Photos 学生照片转存
//
// 零值（nil）可用：不转存，照片字段原样保存，读取时从内联 data URL 解码。
type Photos struct {
	objects   ObjectStore
	urlPrefix string
	now       func() time.Time
	logger    *logging.Logger
}

// NewPhotos 创建照片转存器，urlPrefix 为 API 路由前缀（如 /api）
func NewPhotos(objects ObjectStore, urlPrefix string, logger *logging.Logger) *Photos {
	return &Photos{objects: objects, urlPrefix: urlPrefix, now: time.Now, logger: logger}
}

// URL 学生照片的访问路径
func (p *Photos) URL(studentID string) string {
	return p.urlPrefix + "/students/" + studentID + "/photo"
}

// Check 校验照片字段：data URL 必须是可解码的 image/* 内容，其他字符串原样接受
func Check(photo *string) error {
	if photo == nil || !objstore.IsDataURL(*photo) {
		return nil
	}
	data, err := objstore.ParseDataURL(*photo)
	if err != nil {
		return apperr.Validation("photo: %v", err)
	}
	if !isImage(data.ContentType) {
		return apperr.Validation("photo must be an image, got %s", data.ContentType)
	}
	return nil
}

// Offload 将 data URL 照片上传到对象存储，返回应写入记录的 photo 值
//
// 未启用对象存储或照片不是 data URL 时返回 (nil, nil)，记录保持原值。
func (p *Photos) Offload(ctx context.Context, studentID string, photo *string) (*string, error) {
	if p == nil || p.objects == nil || photo == nil || !objstore.IsDataURL(*photo) {
		return nil, nil
	}
	data, err := objstore.ParseDataURL(*photo)
	if err != nil {
		return nil, apperr.Validation("photo: %v", err)
	}

	key := objstore.StudentPhotoKey(studentID, data.ContentType, p.now())
	if err := p.objects.Upload(ctx, key, bytes.NewReader(data.Data), int64(len(data.Data)), data.ContentType); err != nil {
		return nil, fmt.Errorf("offload photo: %w", err)
	}
	p.logger.WithContext(ctx).Info("student photo stored", "student_id", studentID, "key", key, "bytes", len(data.Data))

	url := p.URL(studentID)
	return &url, nil
}

// Serve 输出照片内容
//
// 内联 data URL 直接解码；值为本服务的照片路径时读取对象存储中的最新版本。
func (p *Photos) Serve(w http.ResponseWriter, r *http.Request, student *model.Student) error {
	if student.Photo == nil {
		return apperr.NotFound("photo")
	}
	photo := *student.Photo

	if objstore.IsDataURL(photo) {
		data, err := objstore.ParseDataURL(photo)
		if err != nil {
			return apperr.NotFound("photo")
		}
		writePhotoHeaders(w, data.ContentType, int64(len(data.Data)))
		w.Write(data.Data)
		return nil
	}

	if p == nil || p.objects == nil || photo != p.URL(student.ID) {
		return apperr.NotFound("photo")
	}
	obj, err := p.open(r.Context(), student.ID)
	if errors.Is(err, objstore.ErrObjectNotFound) {
		return apperr.NotFound("photo")
	}
	if err != nil {
		return err
	}
	defer obj.Body.Close()
	writePhotoHeaders(w, obj.ContentType, obj.Size)
	if _, err := io.Copy(w, obj.Body); err != nil {
		p.logger.WithContext(r.Context()).Warn("photo stream interrupted", "student_id", student.ID, "error", err)
	}
	return nil
}

func (p *Photos) open(ctx context.Context, studentID string) (*objstore.Object, error) {
	key, err := p.objects.Latest(ctx, objstore.StudentPhotoPrefix(studentID))
	if err != nil {
		return nil, err
	}
	return p.objects.Open(ctx, key)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// writePhotoHeaders 非 image/* 的历史数据按二进制下载输出
func writePhotoHeaders(w http.ResponseWriter, contentType string, size int64) {
	if !isImage(contentType) {
		contentType = "application/octet-stream"
	}
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.FormatInt(size, 10))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	h.Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
}
