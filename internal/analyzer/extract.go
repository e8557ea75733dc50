package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// FallbackIssueText 所有提取策略都失败时生成的兜底问题描述
const FallbackIssueText = "Document analysis completed but no specific issues were identified. Recommend manual review."

var (
	jsonBlockRegex = regexp.MustCompile(`\{[\s\S]*?\}`)

	issueLineRegex      = regexp.MustCompile(`(?i)(?:Issue|Problem|Missing|Incorrect):\s*([^\n]+)`)
	sectionLineRegex    = regexp.MustCompile(`(?i)(?:Section|Part|Clause):\s*([^\n]+)`)
	severityLineRegex   = regexp.MustCompile(`(?i)(?:Severity|Priority):\s*(High|Medium|Low)`)
	suggestionLineRegex = regexp.MustCompile(`(?i)(?:Suggestion|Recommendation|Fix):\s*([^\n]+)`)
	regulationLineRegex = regexp.MustCompile(`(?i)(?:Regulation|Compliance|Reference):\s*([^\n]+)`)
)

// 句子启发式使用的关键词表
var (
	issueKeywords       = []string{"missing", "should", "required", "must", "incorrect", "issue"}
	highSeverityWords   = []string{"critical", "serious", "major", "high"}
	lowSeverityWords    = []string{"minor", "small", "low"}
	sectionPrefixWords  = []string{"in", "the", "section", "regarding", "part"}
)

// ExtractIssues 从LLM分析回复中提取合规问题
// 依次尝试三种提取策略：JSON块、标签行、句子启发式
// 全部失败时返回单个兜底问题，保证分析结果永远非空
func ExtractIssues(response string, sectionNames []string) []Issue {
	if issues := extractJSONIssues(response); len(issues) > 0 {
		return issues
	}

	if issues := extractLabeledIssues(response); len(issues) > 0 {
		return issues
	}

	if issues := extractSentenceIssues(response, sectionNames); len(issues) > 0 {
		return issues
	}

	return []Issue{{
		Section:    DefaultSection,
		Issue:      FallbackIssueText,
		Severity:   SeverityLow,
		Regulation: DefaultRegulation,
	}}
}

// extractJSONIssues 从回复中的JSON块提取问题
// 只接受同时包含section和issue字段的块
func extractJSONIssues(response string) []Issue {
	var issues []Issue

	for _, block := range jsonBlockRegex.FindAllString(response, -1) {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(block), &fields); err != nil {
			continue
		}

		section, hasSection := stringField(fields, "section")
		issueText, hasIssue := stringField(fields, "issue")
		if !hasSection || !hasIssue {
			continue
		}

		severity, _ := stringField(fields, "severity")
		if severity == "" {
			severity = DefaultSeverity
		}
		suggestion, _ := stringField(fields, "suggestion")
		regulation, _ := stringField(fields, "regulation")
		if regulation == "" {
			regulation = DefaultRegulation
		}

		issues = append(issues, Issue{
			Section:    section,
			Issue:      issueText,
			Severity:   severity,
			Suggestion: suggestion,
			Regulation: regulation,
		})
	}

	return issues
}

// stringField 从JSON字段映射中取出字符串值
func stringField(fields map[string]interface{}, key string) (string, bool) {
	value, ok := fields[key]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// extractLabeledIssues 从标签行格式的回复中提取问题
// 回复中首个出现的Section/Severity/Suggestion/Regulation标签
// 被应用到所有提取出的问题上
func extractLabeledIssues(response string) []Issue {
	issueMatches := issueLineRegex.FindAllStringSubmatch(response, -1)
	if len(issueMatches) == 0 {
		return nil
	}

	section := DefaultSection
	if m := sectionLineRegex.FindStringSubmatch(response); m != nil {
		section = strings.TrimSpace(m[1])
	}

	severity := DefaultSeverity
	if m := severityLineRegex.FindStringSubmatch(response); m != nil {
		severity = normalizeSeverity(m[1])
	}

	suggestion := ""
	if m := suggestionLineRegex.FindStringSubmatch(response); m != nil {
		suggestion = strings.TrimSpace(m[1])
	}

	regulation := DefaultRegulation
	if m := regulationLineRegex.FindStringSubmatch(response); m != nil {
		regulation = strings.TrimSpace(m[1])
	}

	issues := make([]Issue, 0, len(issueMatches))
	for _, m := range issueMatches {
		issues = append(issues, Issue{
			Section:    section,
			Issue:      strings.TrimSpace(m[1]),
			Severity:   severity,
			Suggestion: suggestion,
			Regulation: regulation,
		})
	}

	return issues
}

// extractSentenceIssues 句子级启发式提取
// 逐句扫描并维护当前章节：以方位词开头且提到已知章节名的句子
// 更新当前章节，之后包含问题关键词的句子都归入该章节
func extractSentenceIssues(response string, sectionNames []string) []Issue {
	var issues []Issue
	currentSection := DefaultSection

	for _, sentence := range splitSentences(response) {
		lowered := strings.ToLower(sentence)

		if section, ok := sentenceSection(lowered, sectionNames); ok {
			currentSection = section
		}

		if !containsAny(lowered, issueKeywords) {
			continue
		}

		issues = append(issues, Issue{
			Section:    currentSection,
			Issue:      strings.TrimSpace(sentence),
			Severity:   sentenceSeverity(lowered),
			Regulation: DefaultRegulation,
		})
	}

	return issues
}

// sentenceSection 判断句子是否引入一个已知章节
// 句子以方位词开头且提到已知章节名时返回该章节名
func sentenceSection(lowered string, sectionNames []string) (string, bool) {
	prefixed := false
	for _, prefix := range sectionPrefixWords {
		if strings.HasPrefix(lowered, prefix+" ") {
			prefixed = true
			break
		}
	}
	if !prefixed {
		return "", false
	}

	for _, name := range sectionNames {
		if name == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(name)) {
			return name, true
		}
	}
	return "", false
}

// sentenceSeverity 根据句子中的程度词判断严重级别
func sentenceSeverity(lowered string) string {
	if containsAny(lowered, highSeverityWords) {
		return SeverityHigh
	}
	if containsAny(lowered, lowSeverityWords) {
		return SeverityLow
	}
	return SeverityMedium
}

// splitSentences 将文本切分为句子
// 句末标点后跟空白字符即断句
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// containsAny 检查文本是否包含任意一个关键词
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// normalizeSeverity 将严重程度统一为标准大小写
func normalizeSeverity(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "high":
		return SeverityHigh
	case "low":
		return SeverityLow
	default:
		return SeverityMedium
	}
}
