// Package httpx 各领域 handler 共用的 HTTP 工具：JSON 读写、错误映射、输入校验
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// maxBodyBytes 请求体上限（学生照片可能以 data URL 内联）
const maxBodyBytes = 10 << 20

// ErrorBody 错误响应体
type ErrorBody struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

// WriteJSON 写入 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// NoContent 写入 204
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError 将错误映射为状态码和统一的错误体
//
// Internal 错误只向客户端返回通用信息，原始错误写入日志。
func WriteError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	appErr := apperr.As(err)
	status := apperr.Status(appErr.Kind)

	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithContext(r.Context()).WithError(err).Error("request failed",
			"method", r.Method, "path", r.URL.Path)
	}
	if appErr.Kind == apperr.KindAuthenticationRequired {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	WriteJSON(w, status, ErrorBody{Error: appErr.Kind, Message: appErr.Message})
}

// NotFoundAs 将存储层的 ErrNotFound 转换为指定实体的 NotFound
func NotFoundAs(err error, entity string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}

// DecodeJSON 解析请求体，格式错误返回 Validation
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body too large")
		}
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}
