package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeEngine 测试用的问答引擎，按问题关键词返回预设回答
type fakeEngine struct {
	answer string
	err    error
	asked  []string
}

func (f *fakeEngine) Answer(ctx context.Context, question string) (string, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.err
}

func TestIdentifyDocumentType(t *testing.T) {
	t.Run("特征短语识别返回最高置信度", func(t *testing.T) {
		a := NewAnalyzer(nil, nil)

		content := "ARTICLES OF ASSOCIATION OF EXAMPLE HOLDINGS LTD\n1. Definitions..."
		docType, confidence := a.IdentifyDocumentType(context.Background(), "articles.docx", content)

		assert.Equal(t, TypeArticlesOfAssociation, docType)
		assert.Equal(t, ConfidenceSignature, confidence)
	})

	t.Run("特征短语匹配不区分大小写", func(t *testing.T) {
		a := NewAnalyzer(nil, nil)

		docType, _ := a.IdentifyDocumentType(context.Background(), "resolution.docx",
			"We, The Undersigned Directors of the company, hereby resolve...")
		assert.Equal(t, TypeBoardResolution, docType)
	})

	t.Run("知识库识别返回次高置信度", func(t *testing.T) {
		engine := &fakeEngine{answer: "This document appears to be a Shareholder Resolution based on its structure."}
		a := NewAnalyzer(engine, nil)

		docType, confidence := a.IdentifyDocumentType(context.Background(), "doc.docx",
			"The members hereby approve the amendment to the articles.")

		assert.Equal(t, TypeShareholderResolution, docType)
		assert.Equal(t, ConfidenceRAG, confidence)
	})

	t.Run("知识库回答支持按词模糊匹配", func(t *testing.T) {
		matched, ok := matchTypeCandidate("The content suggests a declaration related to UBO matters.")
		assert.True(t, ok)
		assert.Equal(t, TypeUBODeclaration, matched)
	})

	t.Run("关键词回退识别返回较低置信度", func(t *testing.T) {
		engine := &fakeEngine{answer: "I cannot determine the category."}
		a := NewAnalyzer(engine, nil)

		docType, confidence := a.IdentifyDocumentType(context.Background(), "ubo-form.docx",
			"Please fill out all fields of this form and submit it.")

		assert.Equal(t, TypeUBODeclaration, docType)
		assert.Equal(t, ConfidenceKeyword, confidence)
	})

	t.Run("空内容返回Unknown", func(t *testing.T) {
		a := NewAnalyzer(nil, nil)

		docType, confidence := a.IdentifyDocumentType(context.Background(), "empty.docx", "   ")
		assert.Equal(t, TypeUnknown, docType)
		assert.Equal(t, 0.0, confidence)
	})

	t.Run("所有路径都失败时返回Unknown", func(t *testing.T) {
		a := NewAnalyzer(nil, nil)

		docType, confidence := a.IdentifyDocumentType(context.Background(), "notes.docx",
			"Some unrelated meeting notes about lunch plans.")
		assert.Equal(t, TypeUnknown, docType)
		assert.Equal(t, 0.0, confidence)
	})
}

func TestMatchTypeCandidate(t *testing.T) {
	t.Run("精确匹配优先于模糊匹配", func(t *testing.T) {
		matched, ok := matchTypeCandidate("It is an Employment Contract under ADGM Employment Regulations.")
		assert.True(t, ok)
		assert.Equal(t, TypeEmploymentContract, matched)
	})

	t.Run("无法匹配时返回失败", func(t *testing.T) {
		_, ok := matchTypeCandidate("The text is unrelated to any template.")
		assert.False(t, ok)
	})
}
