package research

import (
	"context"
	"errors"
	"fmt"

	apperrors "research-ai-api/pkg/errors"
)

// 错误分类，可通过 errors.Is 匹配
var (
	ErrValidation  = errors.New("validation error")
	ErrRetrieval   = errors.New("retrieval error")
	ErrSynthesis   = errors.New("synthesis error")
	ErrPersistence = errors.New("persistence error")
	ErrTimeout     = errors.New("request timed out")
)

// statusCoder 由携带上游 HTTP 状态码的错误实现
type statusCoder interface {
	HTTPStatus() int
}

// upstreamStatus 提取错误链中的上游状态码，未知时返回 0
func upstreamStatus(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

// NewValidationError 入参不合法
func NewValidationError(message string) *apperrors.AppError {
	return apperrors.Wrap(ErrValidation, apperrors.CodeInvalidParam, message)
}

// NewRetrievalError 检索服务调用失败
func NewRetrievalError(err error) *apperrors.AppError {
	return apperrors.Wrap(fmt.Errorf("%w: %w", ErrRetrieval, err), apperrors.CodeRetrievalFailed, "retrieval failed").
		WithDetail(err.Error()).
		WithUpstreamStatus(upstreamStatus(err))
}

// NewSynthesisError 补全服务调用失败
func NewSynthesisError(err error) *apperrors.AppError {
	return apperrors.Wrap(fmt.Errorf("%w: %w", ErrSynthesis, err), apperrors.CodeLLMCallFailed, "synthesis failed").
		WithDetail(err.Error()).
		WithUpstreamStatus(upstreamStatus(err))
}

// NewPersistenceError 交互记录写入失败
func NewPersistenceError(err error) *apperrors.AppError {
	return apperrors.Wrap(fmt.Errorf("%w: %w", ErrPersistence, err), apperrors.CodeDatabaseError, "failed to record interaction")
}

// NewTimeoutError 超出整体处理时限
func NewTimeoutError(err error) *apperrors.AppError {
	return apperrors.Wrap(fmt.Errorf("%w: %w", ErrTimeout, err), apperrors.CodeTimeout, "request timed out")
}

// deadlineExceeded 判断 ctx 是否因整体时限到期而终止
func deadlineExceeded(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
