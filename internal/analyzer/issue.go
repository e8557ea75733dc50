package analyzer

// 问题严重程度
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// 提取失败时的默认值
const (
	DefaultSection    = "General"
	DefaultSeverity   = SeverityMedium
	DefaultRegulation = "ADGM Regulations"
)

// Issue 文档合规问题
type Issue struct {
	Document   string `json:"document"`   // 问题所在的文档名
	Section    string `json:"section"`    // 问题所在的章节
	Issue      string `json:"issue"`      // 问题描述
	Severity   string `json:"severity"`   // 严重程度：High/Medium/Low
	Suggestion string `json:"suggestion"` // 整改建议
	Regulation string `json:"regulation"` // 相关监管条文
}

// CountBySeverity 按严重程度统计问题数量
func CountBySeverity(issues []Issue, severity string) int {
	count := 0
	for _, issue := range issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}
