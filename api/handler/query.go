package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/adgm-compliance-system/api/middleware"
	"github.com/fyerfyer/adgm-compliance-system/api/model"
	"github.com/fyerfyer/adgm-compliance-system/internal/services"
)

// QueryHandler 知识库问答接口
type QueryHandler struct {
	service *services.QueryService
}

// NewQueryHandler 创建问答接口处理器
func NewQueryHandler(service *services.QueryService) *QueryHandler {
	return &QueryHandler{service: service}
}

// Query 回答关于ADGM监管要求的问题
// POST /api/v1/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	answer, err := h.service.Answer(c.Request.Context(), req.Question)
	if err != nil {
		middleware.HandleError(c, middleware.NewBadRequestError("failed to answer question", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.QueryResponse{
		Question: req.Question,
		Answer:   answer,
	}, middleware.GetTraceID(c)))
}
