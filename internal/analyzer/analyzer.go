package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/internal/document"
	"github.com/fyerfyer/adgm-compliance-system/internal/llm"
)

// QueryEngine 知识库问答引擎
// 由检索增强问答服务实现，分析器通过它查询ADGM监管知识
type QueryEngine interface {
	Answer(ctx context.Context, question string) (string, error)
}

// 送入知识库的内容样本长度限制（按字符计）
const (
	typeQuerySampleSize = 1000
	analysisSampleSize  = 3000
)

// UnknownTypeIssueText 文档类型无法识别时生成的问题描述
const UnknownTypeIssueText = "Unable to identify document type"

// Analyzer ADGM文档合规分析器
// 结合知识库问答和内置规则完成文档类型识别、问题分析和流程识别
type Analyzer struct {
	engine QueryEngine
	log    *logrus.Logger
}

// NewAnalyzer 创建合规分析器
// engine可以为nil，此时所有识别都走内置规则路径
func NewAnalyzer(engine QueryEngine, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{
		engine: engine,
		log:    logger,
	}
}

// IdentifyDocumentType 识别文档类型
// 依次尝试特征短语、知识库问答和关键词三条路径，返回类型和置信度
func (a *Analyzer) IdentifyDocumentType(ctx context.Context, fileName, content string) (string, float64) {
	if strings.TrimSpace(content) == "" {
		return TypeUnknown, 0.0
	}

	if docType, ok := identifyBySignature(content); ok {
		return docType, ConfidenceSignature
	}

	if answer, ok := a.query(ctx, a.typeQuestion(content)); ok {
		if docType, matched := matchTypeCandidate(answer); matched {
			return docType, ConfidenceRAG
		}
	}

	if docType, ok := identifyByKeywords(fileName, content); ok {
		return docType, ConfidenceKeyword
	}

	return TypeUnknown, 0.0
}

// AnalyzeDocument 分析单个文档的合规问题
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc *document.AnalyzedDocument, docType string) []Issue {
	if docType == "" || docType == TypeUnknown {
		return []Issue{{
			Document:   doc.FileName,
			Section:    DefaultSection,
			Issue:      UnknownTypeIssueText,
			Severity:   SeverityHigh,
			Regulation: DefaultRegulation,
		}}
	}

	response := ""
	if answer, ok := a.query(ctx, a.analysisQuestion(docType, doc.Content)); ok {
		response = answer
	}

	issues := ExtractIssues(response, doc.SectionNames())
	for i := range issues {
		issues[i].Document = doc.FileName
	}
	return issues
}

// IdentifyProcess 根据已识别的文档类型推断监管流程
// 优先通过知识库识别，失败时回退到文档类型指示词启发式
func (a *Analyzer) IdentifyProcess(ctx context.Context, docTypes []string) ProcessMatch {
	if answer, ok := a.query(ctx, a.processQuestion(docTypes)); ok {
		if process, matched := matchProcessInAnswer(answer); matched {
			required := extractRequiredDocs(answer)
			if len(required) == 0 {
				required = ragFallbackRequiredDocs[process]
			}

			return ProcessMatch{
				Process:      process,
				Description:  processRequirements[process].Description,
				RequiredDocs: required,
				Confidence:   ragProcessConfidence(required, docTypes),
			}
		}
	}

	return IdentifyProcessHeuristic(docTypes)
}

// ProcessDescription 获取流程的简要描述
// 取知识库回答的第一句话，知识库不可用时使用内置描述
func (a *Analyzer) ProcessDescription(ctx context.Context, process string) string {
	if process == "" || process == ProcessUnknown {
		return defaultProcessDescription
	}

	question := fmt.Sprintf("Briefly describe the %s process in ADGM (Abu Dhabi Global Market).", process)
	if answer, ok := a.query(ctx, question); ok {
		if desc := firstSentence(answer); desc != "" {
			return desc
		}
	}

	return FallbackProcessDescription(process)
}

// query 向知识库发起问答
// 引擎缺失、调用失败或知识库未就绪都视为不可用
func (a *Analyzer) query(ctx context.Context, question string) (string, bool) {
	if a.engine == nil {
		return "", false
	}

	answer, err := a.engine.Answer(ctx, question)
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Knowledge base query failed, falling back to built-in rules")
		return "", false
	}

	if strings.TrimSpace(answer) == "" || answer == llm.NotReadyAnswer {
		return "", false
	}
	return answer, true
}

// typeQuestion 构造文档类型识别的问题
func (a *Analyzer) typeQuestion(content string) string {
	return fmt.Sprintf(
		"Based on ADGM document templates, what type of document is this? "+
			"Choose from: %s.\n\nDocument content:\n%s",
		strings.Join(ragTypeCandidates, ", "),
		truncateRunes(content, typeQuerySampleSize),
	)
}

// analysisQuestion 构造合规分析的问题
func (a *Analyzer) analysisQuestion(docType, content string) string {
	return fmt.Sprintf(
		"You are reviewing an ADGM %s for compliance with ADGM regulations. "+
			"Identify any missing clauses, incorrect statements or compliance issues. "+
			"For each issue state the section, the issue, its severity (High/Medium/Low), "+
			"a suggestion and the relevant regulation.\n\nDocument content:\n%s",
		docType,
		truncateRunes(content, analysisSampleSize),
	)
}

// processQuestion 构造流程识别的问题
func (a *Analyzer) processQuestion(docTypes []string) string {
	return fmt.Sprintf(
		"A company uploaded the following ADGM documents: %s. "+
			"Which ADGM regulatory process are they most likely completing "+
			"(e.g. Company Incorporation, Employment Setup, Annual Compliance)? "+
			"List the required documents for that process.",
		strings.Join(docTypes, ", "),
	)
}

// truncateRunes 按字符数截断文本
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
