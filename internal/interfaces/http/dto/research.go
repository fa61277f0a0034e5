package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResearchRequest 问答请求
type ResearchRequest struct {
	Text string `json:"text"`
}

// ResearchResponse 问答成功响应
type ResearchResponse struct {
	Result string `json:"result"`
}

// Result 返回最终回答
func Result(c *gin.Context, text string) {
	c.JSON(http.StatusOK, ResearchResponse{Result: text})
}
