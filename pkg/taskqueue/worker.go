package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Refresher 语料和索引的维护接口
// 由语料管理服务实现，工作进程通过它执行后台任务
type Refresher interface {
	// RebuildIndex 从当前语料重建向量索引
	RebuildIndex(ctx context.Context) error

	// Ingest 抓取所有语料来源
	Ingest(ctx context.Context) error
}

// Worker 后台任务工作进程
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher Refresher
	log       *logrus.Logger
}

// NewWorker 创建后台任务工作进程
func NewWorker(config Config, refresher Refresher, logger *logrus.Logger) *Worker {
	if logger == nil {
		logger = logrus.New()
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}

	server := asynq.NewServer(config.redisOpt(), asynq.Config{
		Concurrency: concurrency,
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		refresher: refresher,
		log:       logger,
	}

	w.mux.HandleFunc(TaskIndexRebuild, w.handleIndexRebuild)
	w.mux.HandleFunc(TaskCorpusIngest, w.handleCorpusIngest)
	return w
}

// Start 启动工作进程
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

// Shutdown 停止工作进程
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleIndexRebuild 处理索引重建任务
func (w *Worker) handleIndexRebuild(ctx context.Context, task *asynq.Task) error {
	var payload IndexRebuildPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal rebuild payload: %v", err)
	}

	w.log.WithFields(logrus.Fields{
		"reason": payload.Reason,
	}).Info("Processing index rebuild task")

	return w.refresher.RebuildIndex(ctx)
}

// handleCorpusIngest 处理语料抓取任务
func (w *Worker) handleCorpusIngest(ctx context.Context, task *asynq.Task) error {
	var payload CorpusIngestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal ingest payload: %v", err)
	}

	w.log.Info("Processing corpus ingest task")

	if err := w.refresher.Ingest(ctx); err != nil {
		return err
	}

	if payload.RebuildIndex {
		return w.refresher.RebuildIndex(ctx)
	}
	return nil
}
