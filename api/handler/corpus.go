package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/api/middleware"
	"github.com/fyerfyer/adgm-compliance-system/api/model"
	"github.com/fyerfyer/adgm-compliance-system/internal/repository"
	"github.com/fyerfyer/adgm-compliance-system/internal/services"
	"github.com/fyerfyer/adgm-compliance-system/pkg/taskqueue"
)

// CorpusHandler 语料和索引管理接口
type CorpusHandler struct {
	corpus *services.CorpusService
	queue  *taskqueue.Queue
	repo   repository.ReviewRepository
}

// NewCorpusHandler 创建语料管理接口处理器
// queue可以为nil，此时重建在当前进程的后台协程中执行
func NewCorpusHandler(corpus *services.CorpusService, queue *taskqueue.Queue, repo repository.ReviewRepository) *CorpusHandler {
	return &CorpusHandler{
		corpus: corpus,
		queue:  queue,
		repo:   repo,
	}
}

// Rebuild 触发语料抓取和索引重建
// POST /api/v1/corpus/rebuild
func (h *CorpusHandler) Rebuild(c *gin.Context) {
	var req model.RebuildRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		middleware.HandleError(c, middleware.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	// 队列可用时交给后台工作进程执行
	if h.queue != nil {
		taskID, err := h.enqueue(c.Request.Context(), req)
		if err != nil {
			middleware.HandleError(c, middleware.NewInternalError("failed to enqueue rebuild task", err.Error()))
			return
		}

		c.JSON(http.StatusAccepted, model.NewSuccessResponse(model.RebuildResponse{
			TaskID: taskID,
			Status: "queued",
		}, middleware.GetTraceID(c)))
		return
	}

	// 没有队列时在本进程后台执行，重建期间旧索引继续服务
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		var err error
		if req.IngestCorpus {
			err = h.corpus.Refresh(ctx)
		} else {
			err = h.corpus.RebuildIndex(ctx)
		}
		if err != nil {
			middleware.GetLogger().WithFields(logrus.Fields{
				"error": err.Error(),
			}).Error("Background index rebuild failed")
		}
	}()

	c.JSON(http.StatusAccepted, model.NewSuccessResponse(model.RebuildResponse{
		Status: "started",
	}, middleware.GetTraceID(c)))
}

// enqueue 将重建任务提交到队列
func (h *CorpusHandler) enqueue(ctx context.Context, req model.RebuildRequest) (string, error) {
	if req.IngestCorpus {
		return h.queue.EnqueueCorpusIngest(ctx, taskqueue.CorpusIngestPayload{
			RebuildIndex: true,
			RequestedAt:  time.Now(),
		})
	}
	return h.queue.EnqueueIndexRebuild(ctx, taskqueue.IndexRebuildPayload{
		Reason:      req.Reason,
		RequestedAt: time.Now(),
	})
}

// Status 查询语料和索引状态
// GET /api/v1/corpus/status
func (h *CorpusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, model.NewSuccessResponse(model.CorpusStatusResponse{
		Ready:        h.corpus.IndexReady(),
		IndexEntries: h.corpus.IndexCount(),
		Documents:    len(h.corpus.Documents()),
	}, middleware.GetTraceID(c)))
}

// Sources 列出已收录的语料来源
// GET /api/v1/corpus/sources
func (h *CorpusHandler) Sources(c *gin.Context) {
	if h.repo == nil {
		middleware.HandleError(c, middleware.NewServiceUnavailableError("corpus source records are not enabled"))
		return
	}

	sources, err := h.repo.ListCorpusSources(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to list corpus sources", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(sources, middleware.GetTraceID(c)))
}
