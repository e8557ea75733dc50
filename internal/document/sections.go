package document

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Paragraph 文档段落
// Style和Bold来自docx样式信息，纯文本来源的段落这两项为零值
type Paragraph struct {
	Text  string `json:"text"`  // 段落文本
	Style string `json:"style"` // 段落样式名（如Heading1）
	Bold  bool   `json:"bold"`  // 首个文本运行是否加粗
}

// Section 文档章节
// Paragraphs保存段落在文档中的下标，标题段落归入其开启的章节
type Section struct {
	Title      string `json:"title"`      // 章节标题
	Paragraphs []int  `json:"paragraphs"` // 章节包含的段落下标
}

// AnalyzedDocument 结构化解析后的文档
type AnalyzedDocument struct {
	FileName   string      `json:"file_name"`  // 文件名
	Content    string      `json:"content"`    // 完整文本内容
	Paragraphs []Paragraph `json:"paragraphs"` // 段落列表
	Sections   []Section   `json:"sections"`   // 章节列表
}

// maxHeadingLength 标题段落的最大字符数
const maxHeadingLength = 100

// ParagraphsFromText 将纯文本按行拆分为段落
// 没有样式信息的来源（txt、pdf、markdown提取结果）走这条路径
func ParagraphsFromText(text string) []Paragraph {
	lines := strings.Split(text, "\n")
	paragraphs := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		paragraphs = append(paragraphs, Paragraph{Text: line})
	}
	return paragraphs
}

// NewAnalyzedDocument 构建结构化文档
func NewAnalyzedDocument(fileName string, paragraphs []Paragraph) *AnalyzedDocument {
	return &AnalyzedDocument{
		FileName:   fileName,
		Content:    joinParagraphText(paragraphs),
		Paragraphs: paragraphs,
		Sections:   ExtractSections(paragraphs),
	}
}

// ExtractSections 根据标题段落将文档划分为章节
// 首个标题之前的内容归入合成的General章节
// 每个段落恰好属于一个章节，标题段落属于它开启的章节
func ExtractSections(paragraphs []Paragraph) []Section {
	sections := []Section{{Title: "General"}}
	current := 0

	for i, p := range paragraphs {
		if isHeading(p) {
			sections = append(sections, Section{
				Title:      strings.TrimSpace(p.Text),
				Paragraphs: []int{i},
			})
			current = len(sections) - 1
			continue
		}
		sections[current].Paragraphs = append(sections[current].Paragraphs, i)
	}

	// 丢弃没有任何段落的章节（如空的General）
	result := make([]Section, 0, len(sections))
	for _, s := range sections {
		if len(s.Paragraphs) > 0 {
			result = append(result, s)
		}
	}
	return result
}

// isHeading 判断段落是否为章节标题
// 标题特征：Heading样式、短加粗段落或短的全大写段落
func isHeading(p Paragraph) bool {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return false
	}

	if strings.HasPrefix(p.Style, "Heading") {
		return true
	}

	length := utf8.RuneCountInString(text)
	if p.Bold && length < maxHeadingLength {
		return true
	}

	if length < maxHeadingLength && text == strings.ToUpper(text) && containsLetter(text) {
		return true
	}

	return false
}

// containsLetter 检查文本中是否包含字母
func containsLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// SectionNames 返回文档的所有章节标题
func (d *AnalyzedDocument) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Title)
	}
	return names
}

// SectionText 返回指定章节的完整文本
func (d *AnalyzedDocument) SectionText(section Section) string {
	var builder strings.Builder
	for i, idx := range section.Paragraphs {
		if idx < 0 || idx >= len(d.Paragraphs) {
			continue
		}
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(d.Paragraphs[idx].Text)
	}
	return builder.String()
}
