package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Run("Heading样式段落开启新章节", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "Preamble text"},
			{Text: "Share Capital", Style: "Heading1"},
			{Text: "The share capital of the company is USD 50,000."},
			{Text: "Directors", Style: "Heading2"},
			{Text: "The board consists of three directors."},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 3)

		assert.Equal(t, "General", sections[0].Title)
		assert.Equal(t, []int{0}, sections[0].Paragraphs)

		assert.Equal(t, "Share Capital", sections[1].Title)
		assert.Equal(t, []int{1, 2}, sections[1].Paragraphs)

		assert.Equal(t, "Directors", sections[2].Title)
		assert.Equal(t, []int{3, 4}, sections[2].Paragraphs)
	})

	t.Run("短加粗段落识别为标题", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "Objects of the Company", Bold: true},
			{Text: "The company may carry on any lawful business."},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 1)
		assert.Equal(t, "Objects of the Company", sections[0].Title)
	})

	t.Run("短的全大写段落识别为标题", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "ARTICLES OF ASSOCIATION"},
			{Text: "These are the articles of the company."},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 1)
		assert.Equal(t, "ARTICLES OF ASSOCIATION", sections[0].Title)
	})

	t.Run("没有标题时所有段落归入General", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "First paragraph of the agreement."},
			{Text: "Second paragraph of the agreement."},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 1)
		assert.Equal(t, "General", sections[0].Title)
		assert.Equal(t, []int{0, 1}, sections[0].Paragraphs)
	})

	t.Run("空段落归入当前章节", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "Definitions", Style: "Heading1"},
			{Text: ""},
			{Text: "In these articles the following terms apply."},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 1)
		assert.Equal(t, "Definitions", sections[0].Title)
		assert.Equal(t, []int{0, 1, 2}, sections[0].Paragraphs)
	})

	t.Run("每个段落恰好属于一个章节", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "Intro"},
			{Text: "SECTION ONE"},
			{Text: "Body one"},
			{Text: ""},
			{Text: "Clause Two", Bold: true},
			{Text: "Body two"},
		}

		sections := ExtractSections(paragraphs)

		seen := make(map[int]int)
		for _, s := range sections {
			for _, idx := range s.Paragraphs {
				seen[idx]++
			}
		}
		for i := range paragraphs {
			assert.Equal(t, 1, seen[i], "paragraph %d should appear exactly once", i)
		}
	})

	t.Run("超长加粗段落不视为标题", func(t *testing.T) {
		longText := ""
		for i := 0; i < 30; i++ {
			longText += "emphasis "
		}
		paragraphs := []Paragraph{
			{Text: "Overview", Style: "Heading1"},
			{Text: longText, Bold: true},
		}

		sections := ExtractSections(paragraphs)
		require.Len(t, sections, 1)
		assert.Equal(t, []int{0, 1}, sections[0].Paragraphs)
	})
}

func TestParagraphsFromText(t *testing.T) {
	t.Run("按行拆分为段落", func(t *testing.T) {
		paragraphs := ParagraphsFromText("line one\nline two\n\nline four")
		require.Len(t, paragraphs, 4)
		assert.Equal(t, "line one", paragraphs[0].Text)
		assert.Equal(t, "", paragraphs[2].Text)
		assert.False(t, paragraphs[0].Bold)
	})
}

func TestAnalyzedDocument(t *testing.T) {
	t.Run("构建结构化文档", func(t *testing.T) {
		paragraphs := []Paragraph{
			{Text: "EMPLOYMENT CONTRACT"},
			{Text: "This contract is made between the employer and the employee."},
			{Text: "Salary", Style: "Heading1"},
			{Text: "The monthly salary is AED 20,000."},
		}

		doc := NewAnalyzedDocument("contract.docx", paragraphs)
		assert.Equal(t, "contract.docx", doc.FileName)
		assert.Contains(t, doc.Content, "EMPLOYMENT CONTRACT")
		assert.Equal(t, []string{"EMPLOYMENT CONTRACT", "Salary"}, doc.SectionNames())

		salaryText := doc.SectionText(doc.Sections[1])
		assert.Contains(t, salaryText, "AED 20,000")
	})
}
