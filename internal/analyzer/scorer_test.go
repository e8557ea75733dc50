package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplianceScore(t *testing.T) {
	t.Run("没有缺失和问题时为满分", func(t *testing.T) {
		assert.Equal(t, 100.0, ComplianceScore(0, nil))
	})

	t.Run("按缺失文档和问题严重程度扣分", func(t *testing.T) {
		issues := []Issue{
			{Severity: SeverityHigh},
			{Severity: SeverityLow},
		}

		// 100 - 15*1 - 5*1 - 1*1 = 79
		assert.Equal(t, 79.0, ComplianceScore(1, issues))
	})

	t.Run("中等严重度每个扣2分", func(t *testing.T) {
		issues := []Issue{
			{Severity: SeverityMedium},
			{Severity: SeverityMedium},
		}
		assert.Equal(t, 96.0, ComplianceScore(0, issues))
	})

	t.Run("评分不会低于0", func(t *testing.T) {
		var issues []Issue
		for i := 0; i < 30; i++ {
			issues = append(issues, Issue{Severity: SeverityHigh})
		}
		assert.Equal(t, 0.0, ComplianceScore(5, issues))
	})
}

func TestBuildSummary(t *testing.T) {
	t.Run("汇总流程识别结果和问题统计", func(t *testing.T) {
		match := ProcessMatch{
			Process: ProcessCompanyIncorporation,
			RequiredDocs: []string{
				TypeArticlesOfAssociation,
				TypeMemorandum,
				TypeBoardResolution,
				TypeUBODeclaration,
			},
			Confidence: 0.8,
		}
		uploaded := []string{TypeArticlesOfAssociation, TypeBoardResolution}
		missing := []string{TypeMemorandum, TypeUBODeclaration}
		issues := []Issue{
			{Severity: SeverityHigh},
			{Severity: SeverityMedium},
		}

		summary := BuildSummary(match, "Establishing a new company in ADGM.", uploaded, missing, issues)

		assert.Equal(t, ProcessCompanyIncorporation, summary.Process)
		assert.Equal(t, 4, summary.RequiredDocuments)
		assert.Equal(t, missing, summary.MissingDocuments)
		assert.Equal(t, 2, summary.IssuesCount)
		assert.Equal(t, 1, summary.CriticalIssuesCount)
		// 100 - 15*2 - 5 - 2 = 63
		assert.Equal(t, 63.0, summary.CompliancePercentage)
	})

	t.Run("描述为空时使用内置描述", func(t *testing.T) {
		match := ProcessMatch{Process: ProcessEmploymentSetup}
		summary := BuildSummary(match, "", nil, nil, nil)

		assert.Equal(t, "Setting up employment documentation for ADGM companies.", summary.ProcessDescription)
	})

	t.Run("未知流程使用默认描述", func(t *testing.T) {
		match := ProcessMatch{Process: ProcessUnknown}
		summary := BuildSummary(match, "", nil, nil, nil)

		assert.Equal(t, defaultProcessDescription, summary.ProcessDescription)
	})
}

func TestFirstSentence(t *testing.T) {
	t.Run("取第一句并补句号", func(t *testing.T) {
		answer := "Company Incorporation is the process of registering a new entity in ADGM. It involves several steps."
		assert.Equal(t, "Company Incorporation is the process of registering a new entity in ADGM.", firstSentence(answer))
	})

	t.Run("没有句号时整句补句号", func(t *testing.T) {
		assert.Equal(t, "A short answer.", firstSentence("A short answer"))
	})

	t.Run("空回答返回空串", func(t *testing.T) {
		assert.Equal(t, "", firstSentence("   "))
	})
}
