// Package commonerrors 定义仓库层哨兵错误与服务层使用的类型化业务错误。
// 服务层只返回 *AppError（或包装了它的错误），由 HTTP 边界统一映射状态码。
package commonerrors

import (
	"errors"
)

// 仓库层与基础设施哨兵错误
var (
	ErrRepoNotFound           = errors.New("记录未找到")
	ErrRepoDuplicate          = errors.New("记录已存在")
	ErrSystemError            = errors.New("系统内部错误，请稍后重试")
	ErrThirdPartyServiceError = errors.New("第三方服务调用失败")
)

// Kind 业务错误分类
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
	KindStorage
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// AppError 携带分类、对外提示信息以及内部原因
type AppError struct {
	Kind    Kind
	Message string // 可以直接返回给调用方的中文提示
	Err     error  // 内部原因，不对外暴露
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, ErrNotFound) 这类按分类的判断成立。
// 只有 Message 为空的分类哨兵才按 Kind 匹配。
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Message == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// 分类哨兵，仅用于 errors.Is
var (
	ErrValidation      = &AppError{Kind: KindValidation}
	ErrUnauthorized    = &AppError{Kind: KindUnauthorized}
	ErrForbidden       = &AppError{Kind: KindForbidden}
	ErrNotFound        = &AppError{Kind: KindNotFound}
	ErrConflict        = &AppError{Kind: KindConflict}
	ErrTooManyRequests = &AppError{Kind: KindTooManyRequests}
	ErrStorage         = &AppError{Kind: KindStorage}
	ErrInternal        = &AppError{Kind: KindInternal}
)

func NewValidation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewTooManyRequests(msg string) *AppError {
	return &AppError{Kind: KindTooManyRequests, Message: msg}
}

// NewStorage 对象存储等外部服务失败
func NewStorage(msg string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: msg, Err: errors.Join(ErrThirdPartyServiceError, err)}
}

// NewInternal 数据库等基础设施失败，对外统一提示 ErrSystemError
func NewInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: ErrSystemError.Error(), Err: errors.Join(ErrSystemError, err)}
}

// KindOf 提取错误分类；非 AppError 的错误视为内部错误，仓库层未找到视为 NotFound
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, ErrRepoNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// PublicMessage 返回可以安全展示给调用方的提示信息
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if errors.Is(err, ErrRepoNotFound) {
		return ErrRepoNotFound.Error()
	}
	return ErrSystemError.Error()
}
