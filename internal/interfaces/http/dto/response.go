// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error 返回错误响应，附带 trace_id 响应头
func Error(c *gin.Context, httpCode int, message string) {
	if traceID := c.GetString("trace_id"); traceID != "" {
		c.Header("X-Trace-ID", traceID)
	}
	c.JSON(httpCode, ErrorResponse{Error: message})
}

// AbortWithError 返回错误响应并终止后续处理
func AbortWithError(c *gin.Context, httpCode int, message string) {
	Error(c, httpCode, message)
	c.Abort()
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
