package taskqueue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 后台任务类型
const (
	// TaskIndexRebuild 向量索引全量重建
	TaskIndexRebuild = "index:rebuild"
	// TaskCorpusIngest 语料抓取并重建索引
	TaskCorpusIngest = "corpus:ingest"
)

// IndexRebuildPayload 索引重建任务的参数
type IndexRebuildPayload struct {
	Reason      string    `json:"reason"`       // 触发重建的原因
	RequestedAt time.Time `json:"requested_at"` // 任务提交时间
}

// CorpusIngestPayload 语料抓取任务的参数
type CorpusIngestPayload struct {
	RebuildIndex bool      `json:"rebuild_index"` // 抓取完成后是否重建索引
	RequestedAt  time.Time `json:"requested_at"`  // 任务提交时间
}

// NewIndexRebuildTask 创建索引重建任务
func NewIndexRebuildTask(payload IndexRebuildPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIndexRebuild, data), nil
}

// NewCorpusIngestTask 创建语料抓取任务
func NewCorpusIngestTask(payload CorpusIngestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCorpusIngest, data), nil
}
