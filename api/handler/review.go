package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/api/middleware"
	"github.com/fyerfyer/adgm-compliance-system/api/model"
	"github.com/fyerfyer/adgm-compliance-system/internal/repository"
	"github.com/fyerfyer/adgm-compliance-system/internal/services"
	"github.com/fyerfyer/adgm-compliance-system/pkg/storage"
)

// 单个上传文件的大小上限
const maxUploadSize = 20 << 20 // 20MB

// ReviewHandler 文档合规审查接口
type ReviewHandler struct {
	service *services.ReviewService
	repo    repository.ReviewRepository
	storage storage.Storage
}

// NewReviewHandler 创建审查接口处理器
// storage可以为nil，此时上传文件不做归档
func NewReviewHandler(service *services.ReviewService, repo repository.ReviewRepository, store storage.Storage) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		repo:    repo,
		storage: store,
	}
}

// Review 批量审查上传的文档
// POST /api/v1/review （multipart表单，字段名files）
func (h *ReviewHandler) Review(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		middleware.HandleError(c, middleware.NewBadRequestError("invalid multipart form", err.Error()))
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		middleware.HandleError(c, middleware.NewBadRequestError("no files uploaded", "expected multipart field 'files'"))
		return
	}

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > maxUploadSize {
			middleware.HandleError(c, middleware.NewBadRequestError("file too large", header.Filename))
			return
		}

		file, err := header.Open()
		if err != nil {
			middleware.HandleError(c, middleware.NewBadRequestError("failed to open uploaded file", err.Error()))
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			middleware.HandleError(c, middleware.NewInternalError("failed to read uploaded file", err.Error()))
			return
		}

		files = append(files, services.UploadedFile{
			Name: header.Filename,
			Data: data,
		})

		// 归档原始文件，失败不影响审查
		if h.storage != nil {
			if _, err := h.storage.Save(c.Request.Context(), bytes.NewReader(data), header.Filename); err != nil {
				middleware.GetLogger().WithFields(logrus.Fields{
					"filename": header.Filename,
					"error":    err.Error(),
				}).Warn("Failed to archive uploaded file")
			}
		}
	}

	result, err := h.service.AnalyzeBatch(c.Request.Context(), files)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to analyze documents", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(result, middleware.GetTraceID(c)))
}

// GetReview 获取历史审查记录
// GET /api/v1/review/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	if h.repo == nil {
		middleware.HandleError(c, middleware.NewServiceUnavailableError("review history is not enabled"))
		return
	}

	batch, err := h.repo.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, middleware.NewNotFoundError("review batch not found"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(batch, middleware.GetTraceID(c)))
}

// ListReviews 分页列出历史审查记录
// GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	if h.repo == nil {
		middleware.HandleError(c, middleware.NewServiceUnavailableError("review history is not enabled"))
		return
	}

	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewBadRequestError("invalid query parameters", err.Error()))
		return
	}

	batches, total, err := h.repo.ListBatches(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to list review batches", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(gin.H{
		"total":   total,
		"batches": batches,
	}, middleware.GetTraceID(c)))
}
