package analyzer

import "strings"

// ProcessSummary 批量审查的流程汇总
type ProcessSummary struct {
	Process              string   `json:"process"`               // 识别出的监管流程
	ProcessDescription   string   `json:"process_description"`   // 流程描述
	DocumentsUploaded    []string `json:"documents_uploaded"`    // 已上传的文档类型
	RequiredDocuments    int      `json:"required_documents"`    // 必备文档数量
	MissingDocuments     []string `json:"missing_documents"`     // 缺失的文档类型
	IssuesCount          int      `json:"issues_count"`          // 问题总数
	CriticalIssuesCount  int      `json:"critical_issues_count"` // 高严重度问题数
	CompliancePercentage float64  `json:"compliance_percentage"` // 合规评分
}

// fallbackProcessDescriptions 知识库不可用时的流程描述
var fallbackProcessDescriptions = map[string]string{
	ProcessCompanyIncorporation:      "The process of incorporating a new company in ADGM.",
	ProcessEmploymentSetup:           "Setting up employment documentation for ADGM companies.",
	ProcessAnnualCompliance:          "Annual filing and compliance requirements for ADGM companies.",
	ProcessCorporateGovernanceUpdate: "Updating corporate governance documentation.",
	ProcessBranchEstablishment:       "Establishing a branch office in ADGM.",
	ProcessDataProtectionCompliance:  "Ensuring compliance with ADGM Data Protection Regulations.",
}

// defaultProcessDescription 未知流程的默认描述
const defaultProcessDescription = "ADGM regulatory process."

// FallbackProcessDescription 返回流程的内置描述
func FallbackProcessDescription(process string) string {
	if desc, ok := fallbackProcessDescriptions[process]; ok {
		return desc
	}
	return defaultProcessDescription
}

// firstSentence 取回答的第一句并补上句号
func firstSentence(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}

	if idx := strings.Index(answer, "."); idx >= 0 {
		answer = answer[:idx]
	}
	return strings.TrimSpace(answer) + "."
}

// BuildSummary 汇总流程识别结果和各文档的问题，生成审查摘要
func BuildSummary(match ProcessMatch, description string, uploaded []string, missing []string, issues []Issue) ProcessSummary {
	if description == "" {
		description = FallbackProcessDescription(match.Process)
	}

	return ProcessSummary{
		Process:              match.Process,
		ProcessDescription:   description,
		DocumentsUploaded:    uploaded,
		RequiredDocuments:    len(match.RequiredDocs),
		MissingDocuments:     missing,
		IssuesCount:          len(issues),
		CriticalIssuesCount:  CountBySeverity(issues, SeverityHigh),
		CompliancePercentage: ComplianceScore(len(missing), issues),
	}
}
