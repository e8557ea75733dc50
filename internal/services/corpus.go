package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/internal/corpus"
	"github.com/fyerfyer/adgm-compliance-system/internal/models"
	"github.com/fyerfyer/adgm-compliance-system/internal/repository"
)

// CorpusService 语料管理服务
// 负责抓取ADGM官方文档、维护语料存储并触发索引重建
type CorpusService struct {
	fetcher *corpus.Fetcher
	store   *corpus.Store
	sources []corpus.Source
	index   *IndexService
	repo    repository.ReviewRepository
	log     *logrus.Logger
}

// NewCorpusService 创建语料管理服务
// repo可以为nil，此时来源记录不做持久化
func NewCorpusService(fetcher *corpus.Fetcher, store *corpus.Store, sources []corpus.Source,
	index *IndexService, repo repository.ReviewRepository, logger *logrus.Logger) *CorpusService {
	if logger == nil {
		logger = logrus.New()
	}
	if len(sources) == 0 {
		sources = corpus.DefaultSources
	}
	return &CorpusService{
		fetcher: fetcher,
		store:   store,
		sources: sources,
		index:   index,
		repo:    repo,
		log:     logger,
	}
}

// Ingest 抓取所有语料来源并更新存储
func (s *CorpusService) Ingest(ctx context.Context) error {
	if err := s.fetcher.FetchAll(ctx, s.sources, s.store); err != nil {
		return fmt.Errorf("failed to fetch corpus sources: %v", err)
	}

	docs := s.store.Documents()
	s.log.WithFields(logrus.Fields{
		"documents": len(docs),
	}).Info("Corpus ingestion completed")

	if s.repo != nil {
		records := make([]models.CorpusSource, 0, len(docs))
		for _, doc := range docs {
			records = append(records, models.CorpusSource{
				Category:  doc.Source.Category,
				DocType:   doc.Source.DocType,
				URL:       doc.Source.URL,
				FileName:  doc.FileName,
				FileKind:  string(doc.FileKind),
				FetchedAt: doc.FetchedAt,
			})
		}
		if err := s.repo.SaveCorpusSources(ctx, records); err != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Failed to persist corpus source records")
		}
	}

	return nil
}

// RebuildIndex 从当前语料全量重建向量索引
func (s *CorpusService) RebuildIndex(ctx context.Context) error {
	return s.index.Rebuild(ctx, s.store.Documents())
}

// Refresh 抓取语料并重建索引
func (s *CorpusService) Refresh(ctx context.Context) error {
	if err := s.Ingest(ctx); err != nil {
		return err
	}
	return s.RebuildIndex(ctx)
}

// EnsureIndex 加载已有索引快照，不存在时从语料构建
func (s *CorpusService) EnsureIndex(ctx context.Context) error {
	return s.index.LoadOrBuild(ctx, s.store.Documents())
}

// Documents 返回当前语料文档
func (s *CorpusService) Documents() []corpus.Document {
	return s.store.Documents()
}

// IndexCount 返回索引条目数
func (s *CorpusService) IndexCount() int {
	return s.index.Count()
}

// IndexReady 检查索引是否可用
func (s *CorpusService) IndexReady() bool {
	return s.index.Ready()
}
