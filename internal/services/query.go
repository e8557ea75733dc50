package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/internal/cache"
	"github.com/fyerfyer/adgm-compliance-system/internal/embedding"
	"github.com/fyerfyer/adgm-compliance-system/internal/llm"
	"github.com/fyerfyer/adgm-compliance-system/internal/vectordb"
)

// QueryService 知识库问答服务
// 检索向量索引获取相关语料片段，交给LLM生成回答并附上来源列表
type QueryService struct {
	index    *IndexService
	embedder embedding.Client
	rag      *llm.RAGService
	cache    cache.Cache
	cacheTTL time.Duration
	topK     int
	minScore float32
	log      *logrus.Logger
}

// QueryOption 问答服务配置选项
type QueryOption func(*QueryService)

// WithCache 启用问答结果缓存
func WithCache(c cache.Cache, ttl time.Duration) QueryOption {
	return func(s *QueryService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithTopK 设置检索返回的片段数量
func WithTopK(topK int) QueryOption {
	return func(s *QueryService) {
		if topK > 0 {
			s.topK = topK
		}
	}
}

// WithMinScore 设置检索结果的最低相似度
func WithMinScore(minScore float32) QueryOption {
	return func(s *QueryService) {
		s.minScore = minScore
	}
}

// NewQueryService 创建知识库问答服务
func NewQueryService(index *IndexService, embedder embedding.Client, rag *llm.RAGService, logger *logrus.Logger, opts ...QueryOption) *QueryService {
	if logger == nil {
		logger = logrus.New()
	}

	s := &QueryService{
		index:    index,
		embedder: embedder,
		rag:      rag,
		topK:     5,
		log:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer 回答关于ADGM监管要求的问题
// 索引未就绪时返回固定提示，检索或生成失败时把错误描述作为回答返回，
// 调用方不需要区分成功和降级两种情况
func (s *QueryService) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is empty")
	}

	cacheKey := cache.GenerateCacheKey("query", question)
	if s.cache != nil {
		if answer, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
			s.log.WithFields(logrus.Fields{"question": question}).Debug("Query cache hit")
			return answer, nil
		}
	}

	if !s.index.Ready() {
		return llm.NotReadyAnswer, nil
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return s.degraded("failed to embed question", err), nil
	}

	filter := vectordb.DefaultSearchFilter()
	filter.MaxResults = s.topK
	filter.MinScore = s.minScore

	results, err := s.index.Search(vector, filter)
	if err != nil {
		return s.degraded("failed to search index", err), nil
	}

	contexts := make([]string, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, result.Entry.Text)
	}

	answer, err := s.rag.Answer(ctx, question, contexts)
	if err != nil {
		return s.degraded("failed to generate answer", err), nil
	}

	answer = appendSources(answer, results)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, answer, s.cacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to cache query answer")
		}
	}

	return answer, nil
}

// degraded 记录失败原因并生成降级回答
func (s *QueryService) degraded(message string, err error) string {
	s.log.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Warn("Knowledge base query degraded: " + message)
	return fmt.Sprintf("Error querying the knowledge base: %v", err)
}

// appendSources 在回答末尾附上去重后的来源列表
// 来源按首次出现的顺序排列
func appendSources(answer string, results []vectordb.SearchResult) string {
	if len(results) == 0 {
		return answer
	}

	seen := make(map[string]bool)
	var lines []string
	for _, result := range results {
		line := fmt.Sprintf("- %s (%s)", result.Entry.DocType, result.Entry.Source)
		if seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}

	return answer + "\n\nSources:\n" + strings.Join(lines, "\n")
}
