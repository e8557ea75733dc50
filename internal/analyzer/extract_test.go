package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONIssues(t *testing.T) {
	t.Run("提取包含section和issue字段的JSON块", func(t *testing.T) {
		response := `Here are the issues I found:
{"section": "Share Capital", "issue": "Missing authorized share capital clause", "severity": "High", "suggestion": "Add the clause", "regulation": "ADGM Companies Regulations 2020"}
{"section": "Directors", "issue": "Quorum requirement not stated"}`

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 2)

		assert.Equal(t, "Share Capital", issues[0].Section)
		assert.Equal(t, SeverityHigh, issues[0].Severity)
		assert.Equal(t, "ADGM Companies Regulations 2020", issues[0].Regulation)

		// 缺失字段使用默认值
		assert.Equal(t, SeverityMedium, issues[1].Severity)
		assert.Equal(t, DefaultRegulation, issues[1].Regulation)
	})

	t.Run("跳过缺少必要字段的JSON块", func(t *testing.T) {
		response := `{"note": "this block has no issue fields"}
Issue: The jurisdiction clause is missing`

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 1)
		assert.Equal(t, "The jurisdiction clause is missing", issues[0].Issue)
	})
}

func TestExtractLabeledIssues(t *testing.T) {
	t.Run("提取标签行格式的问题", func(t *testing.T) {
		response := `Issue: Missing jurisdiction clause
Problem: Share capital amount is not specified
Section: Governing Law
Severity: High
Suggestion: Specify ADGM courts as the jurisdiction
Regulation: ADGM Companies Regulations 2020`

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 2)

		assert.Equal(t, "Missing jurisdiction clause", issues[0].Issue)
		assert.Equal(t, "Share capital amount is not specified", issues[1].Issue)
	})

	t.Run("首个标签值应用到所有问题", func(t *testing.T) {
		response := `Issue: First problem found
Issue: Second problem found
Section: Definitions
Section: Share Capital
Severity: Low`

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 2)

		// 只有第一个Section标签生效，后续的被忽略
		for _, issue := range issues {
			assert.Equal(t, "Definitions", issue.Section)
			assert.Equal(t, SeverityLow, issue.Severity)
		}
	})

	t.Run("标签匹配不区分大小写", func(t *testing.T) {
		response := `issue: lowercase label still works
severity: high`

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 1)
		assert.Equal(t, SeverityHigh, issues[0].Severity)
	})
}

func TestExtractSentenceIssues(t *testing.T) {
	t.Run("识别包含问题关键词的句子", func(t *testing.T) {
		response := "The document looks mostly complete. " +
			"The jurisdiction clause is missing from the agreement. " +
			"This is a critical omission that must be fixed."

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 2)

		assert.Contains(t, issues[0].Issue, "jurisdiction clause is missing")
		assert.Equal(t, SeverityMedium, issues[0].Severity)

		// 包含critical的句子判定为高严重度
		assert.Equal(t, SeverityHigh, issues[1].Severity)
	})

	t.Run("根据程度词判断严重级别", func(t *testing.T) {
		response := "The formatting issue is minor and cosmetic only."

		issues := ExtractIssues(response, nil)
		require.Len(t, issues, 1)
		assert.Equal(t, SeverityLow, issues[0].Severity)
	})

	t.Run("句首方位词加已知章节名时归入该章节", func(t *testing.T) {
		response := "In the Share Capital section the minimum amount is missing."

		issues := ExtractIssues(response, []string{"Share Capital", "Directors"})
		require.Len(t, issues, 1)
		assert.Equal(t, "Share Capital", issues[0].Section)
	})

	t.Run("章节句之后的问题句归入该章节", func(t *testing.T) {
		response := "Regarding the Share Capital section, several rules apply. " +
			"The minimum capital amount is missing."

		issues := ExtractIssues(response, []string{"Share Capital", "Directors"})
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Issue, "minimum capital amount")
		assert.Equal(t, "Share Capital", issues[0].Section)
	})

	t.Run("新的章节句更新后续问题的归属", func(t *testing.T) {
		response := "Regarding the Share Capital section, note the following. " +
			"The authorized amount is missing. " +
			"In the Directors section there are further points. " +
			"A quorum clause is required here."

		issues := ExtractIssues(response, []string{"Share Capital", "Directors"})
		require.Len(t, issues, 2)
		assert.Equal(t, "Share Capital", issues[0].Section)
		assert.Equal(t, "Directors", issues[1].Section)
	})

	t.Run("没有章节句时归入General", func(t *testing.T) {
		response := "A governing law clause is missing from the draft."

		issues := ExtractIssues(response, []string{"Share Capital"})
		require.Len(t, issues, 1)
		assert.Equal(t, DefaultSection, issues[0].Section)
	})
}

func TestExtractFallback(t *testing.T) {
	t.Run("无法提取任何问题时返回兜底问题", func(t *testing.T) {
		issues := ExtractIssues("The document appears to be fine.", nil)
		require.Len(t, issues, 1)

		assert.Equal(t, FallbackIssueText, issues[0].Issue)
		assert.Equal(t, SeverityLow, issues[0].Severity)
		assert.Equal(t, DefaultSection, issues[0].Section)
	})

	t.Run("空回复返回兜底问题", func(t *testing.T) {
		issues := ExtractIssues("", nil)
		require.Len(t, issues, 1)
		assert.Equal(t, FallbackIssueText, issues[0].Issue)
	})
}

func TestSplitSentences(t *testing.T) {
	t.Run("在句末标点后断句", func(t *testing.T) {
		sentences := splitSentences("First sentence. Second sentence! Third sentence?")
		require.Len(t, sentences, 3)
		assert.Equal(t, "First sentence.", sentences[0])
		assert.Equal(t, "Second sentence!", sentences[1])
	})

	t.Run("小数点不会导致断句", func(t *testing.T) {
		sentences := splitSentences("The fee is 1.5 percent of the capital. Payment is required.")
		require.Len(t, sentences, 2)
		assert.Equal(t, "The fee is 1.5 percent of the capital.", sentences[0])
	})

	t.Run("小写开头的后续句子也会断开", func(t *testing.T) {
		sentences := splitSentences("The clause is missing. it must be added before filing.")
		require.Len(t, sentences, 2)
		assert.Equal(t, "The clause is missing.", sentences[0])
		assert.Equal(t, "it must be added before filing.", sentences[1])
	})
}
