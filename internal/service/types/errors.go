package types

import (
	"errors"
	"fmt"
)

// 服务层错误分类
// Handler 层通过 errors.Is 将其映射为 HTTP 状态码
var (
	ErrNotFound       = errors.New("not found")
	ErrAccessDenied   = errors.New("access denied")
	ErrConfiguration  = errors.New("configuration error")
	ErrValidation     = errors.New("validation error")
	ErrProvider       = errors.New("provider error")
	ErrNotImplemented = errors.New("not implemented")
	ErrInternal       = errors.New("internal error")
)

// NotFoundf 构造 not found 错误
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// AccessDeniedf 构造 access denied 错误
func AccessDeniedf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAccessDenied)
}

// Configurationf 构造配置错误
func Configurationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfiguration)
}

// Validationf 构造校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Providerf 构造下游提供商错误
// 错误信息只包含提供商标识，绝不包含凭证
func Providerf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrProvider)
}

// NotImplementedf 构造未实现错误
func NotImplementedf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotImplemented)
}

// Internalf 构造内部错误
func Internalf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInternal)
}
