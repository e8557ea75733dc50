package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fyerfyer/adgm-compliance-system/internal/models"
)

// ReviewRepository 审查记录仓库接口
type ReviewRepository interface {
	// CreateBatch 保存一次批量审查及其文档结果
	CreateBatch(ctx context.Context, batch *models.ReviewBatch) error

	// GetBatch 获取批量审查记录（包含文档结果）
	GetBatch(ctx context.Context, id string) (*models.ReviewBatch, error)

	// ListBatches 分页列出批量审查记录
	ListBatches(ctx context.Context, limit, offset int) ([]models.ReviewBatch, int64, error)

	// SaveCorpusSources 保存语料来源记录，按URL去重更新
	SaveCorpusSources(ctx context.Context, sources []models.CorpusSource) error

	// ListCorpusSources 列出已收录的语料来源
	ListCorpusSources(ctx context.Context) ([]models.CorpusSource, error)
}

// GormReviewRepository 基于gorm的审查记录仓库
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建审查记录仓库
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// CreateBatch 保存一次批量审查及其文档结果
func (r *GormReviewRepository) CreateBatch(ctx context.Context, batch *models.ReviewBatch) error {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create review batch: %v", err)
	}
	return nil
}

// GetBatch 获取批量审查记录
func (r *GormReviewRepository) GetBatch(ctx context.Context, id string) (*models.ReviewBatch, error) {
	var batch models.ReviewBatch
	err := r.db.WithContext(ctx).
		Preload("Documents").
		First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get review batch %s: %v", id, err)
	}
	return &batch, nil
}

// ListBatches 分页列出批量审查记录
func (r *GormReviewRepository) ListBatches(ctx context.Context, limit, offset int) ([]models.ReviewBatch, int64, error) {
	var batches []models.ReviewBatch
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ReviewBatch{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count review batches: %v", err)
	}

	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&batches).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list review batches: %v", err)
	}

	return batches, total, nil
}

// SaveCorpusSources 保存语料来源记录
// 同一URL的记录只保留最新一条
func (r *GormReviewRepository) SaveCorpusSources(ctx context.Context, sources []models.CorpusSource) error {
	for i := range sources {
		source := &sources[i]

		var existing models.CorpusSource
		err := r.db.WithContext(ctx).First(&existing, "url = ?", source.URL).Error
		switch {
		case err == nil:
			source.ID = existing.ID
			if err := r.db.WithContext(ctx).Save(source).Error; err != nil {
				return fmt.Errorf("failed to update corpus source: %v", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
				return fmt.Errorf("failed to create corpus source: %v", err)
			}
		default:
			return fmt.Errorf("failed to query corpus source: %v", err)
		}
	}
	return nil
}

// ListCorpusSources 列出已收录的语料来源
func (r *GormReviewRepository) ListCorpusSources(ctx context.Context) ([]models.CorpusSource, error) {
	var sources []models.CorpusSource
	err := r.db.WithContext(ctx).Order("category, doc_type").Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus sources: %v", err)
	}
	return sources, nil
}
