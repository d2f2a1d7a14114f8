package code

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindInvalidStatus    Kind = "invalid_status"
	KindDoorInactive     Kind = "door_inactive"
	KindAlreadyProcessed Kind = "already_processed"
	KindNoOpRejected     Kind = "noop_rejected"
	KindValidation       Kind = "validation"
	KindDuplicate        Kind = "duplicate"
	KindConflict         Kind = "conflict"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindDeviceSync       Kind = "device_sync_failure"
	KindServer           Kind = "server_error"
)

// Error 结构化业务错误，在边界处被转换为响应信封
type Error struct {
	Code    int
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind 匹配，使 errors.Is(err, code.ErrNotFound) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// 用于 errors.Is 比较的哨兵错误
var (
	ErrNotFound         = &Error{Code: NotFound, Kind: KindNotFound, Message: "not found"}
	ErrInvalidStatus    = &Error{Code: BadRequest, Kind: KindInvalidStatus, Message: "invalid status"}
	ErrDoorInactive     = &Error{Code: BadRequest, Kind: KindDoorInactive, Message: "door is not active"}
	ErrAlreadyProcessed = &Error{Code: BadRequest, Kind: KindAlreadyProcessed, Message: "already processed"}
	ErrNoOpRejected     = &Error{Code: BadRequest, Kind: KindNoOpRejected, Message: "no change"}
	ErrValidation       = &Error{Code: BadRequest, Kind: KindValidation, Message: "validation failed"}
	ErrDuplicate        = &Error{Code: BadRequest, Kind: KindDuplicate, Message: "duplicate"}
	ErrConflict         = &Error{Code: BadRequest, Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized     = &Error{Code: Unauthorized, Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden        = &Error{Code: Forbidden, Kind: KindForbidden, Message: "forbidden"}
	ErrDeviceSync       = &Error{Code: InternalServerError, Kind: KindDeviceSync, Message: "device sync failed"}
	ErrServer           = &Error{Code: InternalServerError, Kind: KindServer, Message: "server error"}
)

func newError(c int, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Code: c, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound 引用的楼栋/楼层/门/申请不存在，或不属于声明的上级
func NewNotFound(format string, args ...interface{}) *Error {
	return newError(NotFound, KindNotFound, format, args...)
}

// NewInvalidStatus 状态值不在枚举范围内
func NewInvalidStatus(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindInvalidStatus, format, args...)
}

// NewDoorInactive 需要门处于 active 状态的操作
func NewDoorInactive(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindDoorInactive, format, args...)
}

// NewAlreadyProcessed 申请已不是 pending 状态
func NewAlreadyProcessed(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindAlreadyProcessed, format, args...)
}

// NewNoOpRejected 目标值与当前值相同
func NewNoOpRejected(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindNoOpRejected, format, args...)
}

// NewValidation 请求参数不合法
func NewValidation(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindValidation, format, args...)
}

// NewDuplicate 唯一性检查失败
func NewDuplicate(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindDuplicate, format, args...)
}

// NewConflict 并发修改导致条件更新失败
func NewConflict(format string, args ...interface{}) *Error {
	return newError(BadRequest, KindConflict, format, args...)
}

// NewUnauthorized 认证失败，c 为 1000 系列响应码
func NewUnauthorized(c int, format string, args ...interface{}) *Error {
	return newError(c, KindUnauthorized, format, args...)
}

// NewForbidden 权限不足
func NewForbidden(c int, format string, args ...interface{}) *Error {
	return newError(c, KindForbidden, format, args...)
}

// NewDeviceSync 设备同步失败；只在适配器内部使用，不会返回给调用方
func NewDeviceSync(err error, format string, args ...interface{}) *Error {
	e := newError(InternalServerError, KindDeviceSync, format, args...)
	e.Err = err
	return e
}

// Wrap 将未预期的错误包装为 ServerError
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	e := newError(InternalServerError, KindServer, format, args...)
	e.Err = err
	return e
}

// As 提取结构化错误
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
