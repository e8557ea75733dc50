package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/internal/corpus"
	"github.com/fyerfyer/adgm-compliance-system/internal/document"
	"github.com/fyerfyer/adgm-compliance-system/internal/embedding"
	"github.com/fyerfyer/adgm-compliance-system/internal/vectordb"
)

// ErrIndexNotReady 向量索引尚未构建完成
var ErrIndexNotReady = errors.New("vector index is not ready")

// repoBox 包装索引仓库，保证atomic.Value中存储的具体类型一致
type repoBox struct {
	vectordb.Repository
}

// IndexService 向量索引服务
// 负责索引的加载、全量重建和检索，重建通过原子替换完成，
// 重建期间的查询仍然访问旧索引
type IndexService struct {
	config   vectordb.Config
	embedder embedding.Client
	chunker  *document.Chunker
	log      *logrus.Logger
	repo     atomic.Value // repoBox
}

// NewIndexService 创建向量索引服务
func NewIndexService(config vectordb.Config, embedder embedding.Client, chunker *document.Chunker, logger *logrus.Logger) *IndexService {
	if logger == nil {
		logger = logrus.New()
	}
	return &IndexService{
		config:   config,
		embedder: embedder,
		chunker:  chunker,
		log:      logger,
	}
}

// LoadOrBuild 加载已有索引快照，快照不存在时从语料全量构建
func (s *IndexService) LoadOrBuild(ctx context.Context, docs []corpus.Document) error {
	repo, err := vectordb.Open(s.config)
	if err == nil {
		count, _ := repo.Count()
		s.log.WithFields(logrus.Fields{
			"type":    s.config.Type,
			"path":    s.config.Path,
			"entries": count,
		}).Info("Loaded vector index from snapshot")
		s.repo.Store(repoBox{repo})
		return nil
	}

	if !errors.Is(err, vectordb.ErrIndexNotFound) {
		return fmt.Errorf("failed to open vector index: %v", err)
	}

	// 快照和语料都没有时保持未就绪状态，等待语料抓取
	if len(docs) == 0 {
		s.log.Warn("Vector index snapshot not found and corpus is empty, index stays unavailable")
		return nil
	}

	s.log.Info("Vector index snapshot not found, building from corpus")
	return s.Rebuild(ctx, docs)
}

// Rebuild 从语料全量重建索引
// 新索引构建并保存成功后才替换旧索引，失败时保留旧索引继续服务
func (s *IndexService) Rebuild(ctx context.Context, docs []corpus.Document) error {
	buildConfig := s.config
	buildConfig.Reset = true

	repo, err := vectordb.NewRepository(buildConfig)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %v", err)
	}

	start := time.Now()
	total := 0

	for _, doc := range docs {
		entries, err := s.buildEntries(ctx, doc)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"filename": doc.FileName,
				"error":    err.Error(),
			}).Warn("Failed to index corpus document, skipping")
			continue
		}

		if err := repo.AddBatch(entries); err != nil {
			return fmt.Errorf("failed to add entries for %s: %v", doc.FileName, err)
		}
		total += len(entries)
	}

	if err := repo.Save(); err != nil {
		return fmt.Errorf("failed to save vector index: %v", err)
	}

	s.log.WithFields(logrus.Fields{
		"documents": len(docs),
		"entries":   total,
		"elapsed":   time.Since(start).String(),
	}).Info("Vector index rebuilt")

	s.repo.Store(repoBox{repo})
	return nil
}

// buildEntries 将单个语料文档分块并嵌入为索引条目
func (s *IndexService) buildEntries(ctx context.Context, doc corpus.Document) ([]vectordb.Entry, error) {
	chunks := s.chunker.Split(doc.Content)
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	entries := make([]vectordb.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = vectordb.Entry{
			ID:       uuid.New().String(),
			SourceID: doc.ID,
			Position: chunk.Index,
			Text:     chunk.Text,
			Vector:   vectors[i],
			Category: doc.Source.Category,
			DocType:  doc.Source.DocType,
			Source:   doc.Source.URL,
			FileKind: string(doc.FileKind),
		}
	}
	return entries, nil
}

// Search 在当前索引中做相似度检索
func (s *IndexService) Search(vector []float32, filter vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	repo, ok := s.current()
	if !ok {
		return nil, ErrIndexNotReady
	}
	return repo.Search(vector, filter)
}

// Ready 检查索引是否可用
func (s *IndexService) Ready() bool {
	_, ok := s.current()
	return ok
}

// Count 返回索引中的条目总数
func (s *IndexService) Count() int {
	repo, ok := s.current()
	if !ok {
		return 0
	}
	count, err := repo.Count()
	if err != nil {
		return 0
	}
	return count
}

// Close 关闭当前索引
func (s *IndexService) Close() error {
	repo, ok := s.current()
	if !ok {
		return nil
	}
	return repo.Close()
}

// current 获取当前索引仓库
func (s *IndexService) current() (vectordb.Repository, bool) {
	value := s.repo.Load()
	if value == nil {
		return nil, false
	}
	box := value.(repoBox)
	if box.Repository == nil {
		return nil, false
	}
	return box.Repository, true
}
