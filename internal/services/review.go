package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/fyerfyer/adgm-compliance-system/internal/analyzer"
	"github.com/fyerfyer/adgm-compliance-system/internal/document"
	"github.com/fyerfyer/adgm-compliance-system/internal/models"
	"github.com/fyerfyer/adgm-compliance-system/internal/repository"
)

// UploadedFile 用户上传的待审查文件
type UploadedFile struct {
	Name string // 文件名
	Data []byte // 文件内容
}

// DocumentReview 单个文档的审查结果
type DocumentReview struct {
	FileName   string           `json:"file_name"`       // 文件名
	DocType    string           `json:"doc_type"`        // 识别出的文档类型
	Confidence float64          `json:"confidence"`      // 类型识别置信度
	Issues     []analyzer.Issue `json:"issues"`          // 发现的合规问题
	Error      string           `json:"error,omitempty"` // 解析失败时的错误信息
}

// BatchReview 一次批量审查的完整结果
type BatchReview struct {
	ID        string                  `json:"id,omitempty"` // 持久化后的记录ID
	Documents []DocumentReview        `json:"documents"`    // 各文档的审查结果
	Issues    []analyzer.Issue        `json:"issues"`       // 所有问题的汇总
	Summary   analyzer.ProcessSummary `json:"summary"`      // 流程级汇总
}

// ReviewService 文档合规审查服务
type ReviewService struct {
	analyzer *analyzer.Analyzer
	repo     repository.ReviewRepository
	log      *logrus.Logger
}

// NewReviewService 创建文档审查服务
// repo可以为nil，此时审查结果不做持久化
func NewReviewService(a *analyzer.Analyzer, repo repository.ReviewRepository, logger *logrus.Logger) *ReviewService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ReviewService{
		analyzer: a,
		repo:     repo,
		log:      logger,
	}
}

// AnalyzeBatch 批量审查上传的文档
// 逐个解析并分析文档，再汇总识别监管流程、核对文档清单并评分
func (s *ReviewService) AnalyzeBatch(ctx context.Context, files []UploadedFile) (*BatchReview, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to review")
	}

	reviews := make([]DocumentReview, 0, len(files))
	var docTypes []string
	var allIssues []analyzer.Issue

	for _, file := range files {
		review := s.analyzeFile(ctx, file)
		reviews = append(reviews, review)

		if review.Error != "" {
			continue
		}
		docTypes = append(docTypes, review.DocType)
		allIssues = append(allIssues, review.Issues...)
	}

	match := s.analyzer.IdentifyProcess(ctx, docTypes)
	missing := analyzer.MissingDocuments(match.RequiredDocs, docTypes)
	description := s.analyzer.ProcessDescription(ctx, match.Process)
	summary := analyzer.BuildSummary(match, description, docTypes, missing, allIssues)

	result := &BatchReview{
		Documents: reviews,
		Issues:    allIssues,
		Summary:   summary,
	}

	if s.repo != nil {
		if err := s.persist(ctx, result); err != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Failed to persist review batch")
		}
	}

	return result, nil
}

// analyzeFile 解析并分析单个文件
// 解析失败不会中断整批审查，错误记录在该文档的结果里
func (s *ReviewService) analyzeFile(ctx context.Context, file UploadedFile) DocumentReview {
	doc, err := s.parseFile(file)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"filename": file.Name,
			"error":    err.Error(),
		}).Warn("Failed to parse uploaded file")
		return DocumentReview{
			FileName: file.Name,
			Error:    err.Error(),
		}
	}

	docType, confidence := s.analyzer.IdentifyDocumentType(ctx, file.Name, doc.Content)
	issues := s.analyzer.AnalyzeDocument(ctx, doc, docType)

	return DocumentReview{
		FileName:   file.Name,
		DocType:    docType,
		Confidence: confidence,
		Issues:     issues,
	}
}

// parseFile 将上传文件解析为结构化文档
// Word文档保留段落样式用于章节划分，其他格式按行拆分段落
func (s *ReviewService) parseFile(file UploadedFile) (*document.AnalyzedDocument, error) {
	if document.DetectContentType(file.Name) == document.Docx {
		paragraphs, err := document.NewDocxParser().ParseParagraphs(bytes.NewReader(file.Data))
		if err != nil {
			return nil, err
		}
		return document.NewAnalyzedDocument(file.Name, paragraphs), nil
	}

	parser, err := document.ParserFactory(file.Name)
	if err != nil {
		return nil, err
	}

	text, err := parser.ParseReader(bytes.NewReader(file.Data), file.Name)
	if err != nil {
		return nil, err
	}
	return document.NewAnalyzedDocument(file.Name, document.ParagraphsFromText(text)), nil
}

// persist 将审查结果写入数据库
func (s *ReviewService) persist(ctx context.Context, result *BatchReview) error {
	uploaded, err := json.Marshal(result.Summary.DocumentsUploaded)
	if err != nil {
		return fmt.Errorf("failed to marshal uploaded documents: %v", err)
	}
	missing, err := json.Marshal(result.Summary.MissingDocuments)
	if err != nil {
		return fmt.Errorf("failed to marshal missing documents: %v", err)
	}

	batch := models.ReviewBatch{
		Process:              result.Summary.Process,
		ProcessDescription:   result.Summary.ProcessDescription,
		DocumentsUploaded:    datatypes.JSON(uploaded),
		RequiredDocuments:    result.Summary.RequiredDocuments,
		MissingDocuments:     datatypes.JSON(missing),
		IssuesCount:          result.Summary.IssuesCount,
		CriticalIssuesCount:  result.Summary.CriticalIssuesCount,
		CompliancePercentage: result.Summary.CompliancePercentage,
	}

	for _, review := range result.Documents {
		issues, err := json.Marshal(review.Issues)
		if err != nil {
			return fmt.Errorf("failed to marshal issues: %v", err)
		}
		batch.Documents = append(batch.Documents, models.ReviewDocument{
			FileName:   review.FileName,
			DocType:    review.DocType,
			Confidence: review.Confidence,
			Issues:     datatypes.JSON(issues),
			Error:      review.Error,
		})
	}

	if err := s.repo.CreateBatch(ctx, &batch); err != nil {
		return err
	}

	result.ID = batch.ID
	return nil
}
