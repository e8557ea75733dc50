package taskqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Config 任务队列配置
type Config struct {
	RedisAddr     string // Redis地址
	RedisPassword string // Redis密码
	RedisDB       int    // Redis数据库编号
	Concurrency   int    // 工作协程数
	RetryLimit    int    // 任务最大重试次数
}

// redisOpt 构造asynq的Redis连接配置
func (c Config) redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Queue 后台任务队列
type Queue struct {
	client     *asynq.Client
	retryLimit int
}

// NewQueue 创建任务队列
func NewQueue(config Config) *Queue {
	retryLimit := config.RetryLimit
	if retryLimit <= 0 {
		retryLimit = 3
	}

	return &Queue{
		client:     asynq.NewClient(config.redisOpt()),
		retryLimit: retryLimit,
	}
}

// EnqueueIndexRebuild 提交索引重建任务
func (q *Queue) EnqueueIndexRebuild(ctx context.Context, payload IndexRebuildPayload) (string, error) {
	task, err := NewIndexRebuildTask(payload)
	if err != nil {
		return "", fmt.Errorf("failed to create rebuild task: %v", err)
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(q.retryLimit),
		asynq.Timeout(30*time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue rebuild task: %v", err)
	}
	return info.ID, nil
}

// EnqueueCorpusIngest 提交语料抓取任务
func (q *Queue) EnqueueCorpusIngest(ctx context.Context, payload CorpusIngestPayload) (string, error) {
	task, err := NewCorpusIngestTask(payload)
	if err != nil {
		return "", fmt.Errorf("failed to create ingest task: %v", err)
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(q.retryLimit),
		asynq.Timeout(time.Hour),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue ingest task: %v", err)
	}
	return info.ID, nil
}

// Close 关闭任务队列连接
func (q *Queue) Close() error {
	return q.client.Close()
}
