// Package apperr 定义面向调用方的错误分类
//
// 每种 Kind 对应一个稳定的 HTTP 状态码，处理器只需把错误交给 Status/As 即可，
// 不直接向客户端透出存储层的原始错误。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind string

const (
	KindAuthenticationRequired Kind = "authentication_required"
	KindAuthorizationDenied    Kind = "authorization_denied"
	KindInvalidCredentials     Kind = "invalid_credentials"
	KindAccountDisabled        Kind = "account_disabled"
	KindDuplicateEmail         Kind = "duplicate_email"
	KindNotFound               Kind = "not_found"
	KindParentNotFound         Kind = "parent_not_found"
	KindValidation             Kind = "validation_error"
	KindSelfAction             Kind = "self_action_forbidden"
	KindRateLimited            Kind = "rate_limited"
	KindInternal               Kind = "internal_error"
)

// Error 带分类的应用错误
type Error struct {
	Kind    Kind
	Entity  string // NotFound / ParentNotFound 时的实体名称
	Message string
	Err     error // 内部原因，仅用于日志
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按 Kind 比较，便于 errors.Is(err, apperr.ErrInvalidCredentials)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Entity == "" || t.Entity == e.Entity)
}

// 不带实体信息的哨兵错误
var (
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired, Message: "authentication required"}
	ErrAuthorizationDenied    = &Error{Kind: KindAuthorizationDenied, Message: "admin access required"}
	ErrInvalidCredentials     = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrAccountDisabled        = &Error{Kind: KindAccountDisabled, Message: "account is disabled"}
	ErrDuplicateEmail         = &Error{Kind: KindDuplicateEmail, Message: "email already registered"}
	ErrRateLimited            = &Error{Kind: KindRateLimited, Message: "too many requests"}
)

// NotFound 实体不存在
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

// ParentNotFound 写入时引用的父实体不存在
func ParentNotFound(entity string) *Error {
	return &Error{Kind: KindParentNotFound, Entity: entity, Message: "referenced " + entity + " not found"}
}

// Validation 输入格式错误
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// SelfAction 禁止对自身账号执行的操作
func SelfAction(message string) *Error {
	return &Error{Kind: KindSelfAction, Message: message}
}

// Internal 包装内部错误，对外只暴露通用信息
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// As 将任意错误归类；未分类的错误视为 Internal
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Status 错误类别对应的 HTTP 状态码
func Status(kind Kind) int {
	switch kind {
	case KindAuthenticationRequired, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindAuthorizationDenied, KindAccountDisabled:
		return http.StatusForbidden
	case KindDuplicateEmail, KindSelfAction:
		return http.StatusBadRequest
	case KindNotFound, KindParentNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
