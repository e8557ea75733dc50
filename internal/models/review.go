package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewBatch 一次批量审查记录
type ReviewBatch struct {
	ID                   string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Process              string           `gorm:"type:varchar(100);index" json:"process"`
	ProcessDescription   string           `gorm:"type:text" json:"process_description"`
	DocumentsUploaded    datatypes.JSON   `gorm:"type:json" json:"documents_uploaded"`
	RequiredDocuments    int              `json:"required_documents"`
	MissingDocuments     datatypes.JSON   `gorm:"type:json" json:"missing_documents"`
	IssuesCount          int              `json:"issues_count"`
	CriticalIssuesCount  int              `json:"critical_issues_count"`
	CompliancePercentage float64          `json:"compliance_percentage"`
	Documents            []ReviewDocument `gorm:"foreignKey:BatchID" json:"documents,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// TableName 指定表名
func (ReviewBatch) TableName() string {
	return "review_batches"
}

// BeforeCreate 创建前生成主键
func (b *ReviewBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// ReviewDocument 批量审查中单个文档的审查结果
type ReviewDocument struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BatchID    string         `gorm:"type:varchar(36);index" json:"batch_id"`
	FileName   string         `gorm:"type:varchar(255)" json:"file_name"`
	DocType    string         `gorm:"type:varchar(100)" json:"doc_type"`
	Confidence float64        `json:"confidence"`
	Issues     datatypes.JSON `gorm:"type:json" json:"issues"`
	Error      string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (ReviewDocument) TableName() string {
	return "review_documents"
}

// BeforeCreate 创建前生成主键
func (d *ReviewDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// CorpusSource 已收录的语料来源记录
type CorpusSource struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	DocType   string    `gorm:"type:varchar(100)" json:"doc_type"`
	URL       string    `gorm:"type:text" json:"url"`
	FileName  string    `gorm:"type:varchar(255)" json:"file_name"`
	FileKind  string    `gorm:"type:varchar(20)" json:"file_kind"`
	FetchedAt time.Time `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CorpusSource) TableName() string {
	return "corpus_sources"
}

// BeforeCreate 创建前生成主键
func (s *CorpusSource) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
