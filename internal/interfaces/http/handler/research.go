// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"research-ai-api/internal/application/research"
	"research-ai-api/internal/interfaces/http/dto"
	apperrors "research-ai-api/pkg/errors"
	"research-ai-api/pkg/logger"
)

// Answerer 问答流水线
type Answerer interface {
	Run(ctx context.Context, text string) (*research.Answer, error)
}

// ResearchHandler 问答处理器
type ResearchHandler struct {
	pipeline Answerer
}

// NewResearchHandler 创建问答处理器
func NewResearchHandler(pipeline Answerer) *ResearchHandler {
	return &ResearchHandler{pipeline: pipeline}
}

// Answer 处理一次提问
// @Summary 带引用的医学问答
// @Description 检索可信来源并生成带引用的回答，必要时自动重查询一次
// @Tags Research
// @Accept json
// @Produce json
// @Param body body dto.ResearchRequest true "问题"
// @Success 200 {object} dto.ResearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /api/gpt [post]
func (h *ResearchHandler) Answer(c *gin.Context) {
	var req dto.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.Error(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		dto.BadRequest(c, "invalid request body")
		return
	}

	// 客户端断开不取消上游调用，整体时限由流水线控制
	ctx := context.WithoutCancel(c.Request.Context())
	answer, err := h.pipeline.Run(ctx, req.Text)
	if err != nil {
		status, message := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Warn(c.Request.Context(), "research request returned error",
				"status", status,
				"error", err.Error(),
			)
		}
		dto.Error(c, status, message)
		return
	}

	dto.Result(c, answer.Text)
}

// errorResponse 将错误映射为 HTTP 状态码与对外消息
func errorResponse(err error) (int, string) {
	if !apperrors.IsAppError(err) {
		return http.StatusInternalServerError, err.Error()
	}
	appErr := apperrors.AsAppError(err)
	return appErr.HTTPStatus, appErr.PublicMessage()
}
