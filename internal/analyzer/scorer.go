package analyzer

// 合规评分的扣分权重
const (
	penaltyMissingDoc  = 15
	penaltyHighIssue   = 5
	penaltyMediumIssue = 2
	penaltyLowIssue    = 1
)

// ComplianceScore 计算合规评分
// 满分100，按缺失文档和问题严重程度扣分，结果限制在[0, 100]
func ComplianceScore(missingCount int, issues []Issue) float64 {
	score := 100
	score -= penaltyMissingDoc * missingCount
	score -= penaltyHighIssue * CountBySeverity(issues, SeverityHigh)
	score -= penaltyMediumIssue * CountBySeverity(issues, SeverityMedium)
	score -= penaltyLowIssue * CountBySeverity(issues, SeverityLow)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return float64(score)
}
