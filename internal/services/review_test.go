package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/adgm-compliance-system/internal/analyzer"
)

func TestReviewServiceAnalyzeBatch(t *testing.T) {
	service := NewReviewService(analyzer.NewAnalyzer(nil, nil), nil, nil)

	t.Run("识别流程并核对文档清单", func(t *testing.T) {
		files := []UploadedFile{
			{
				Name: "employment-contract.txt",
				Data: []byte("EMPLOYMENT CONTRACT\nThis contract of employment is made between the employer and the employee."),
			},
		}

		result, err := service.AnalyzeBatch(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, result.Documents, 1)

		assert.Equal(t, analyzer.TypeEmploymentContract, result.Documents[0].DocType)
		assert.Equal(t, analyzer.ConfidenceSignature, result.Documents[0].Confidence)

		assert.Equal(t, analyzer.ProcessEmploymentSetup, result.Summary.Process)
		assert.Empty(t, result.Summary.MissingDocuments)
		// 无缺失文档，单个低严重度兜底问题：100 - 1 = 99
		assert.Equal(t, 99.0, result.Summary.CompliancePercentage)
	})

	t.Run("无法识别类型的文档产生高严重度问题", func(t *testing.T) {
		files := []UploadedFile{
			{
				Name: "contract.txt",
				Data: []byte("Employment contract between the parties."),
			},
			{
				Name: "notes.txt",
				Data: []byte("Some meeting notes about lunch plans."),
			},
		}

		result, err := service.AnalyzeBatch(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, result.Documents, 2)

		assert.Equal(t, analyzer.TypeUnknown, result.Documents[1].DocType)
		require.Len(t, result.Documents[1].Issues, 1)
		assert.Equal(t, analyzer.UnknownTypeIssueText, result.Documents[1].Issues[0].Issue)
		assert.Equal(t, analyzer.SeverityHigh, result.Documents[1].Issues[0].Severity)

		assert.Equal(t, 1, result.Summary.CriticalIssuesCount)
	})

	t.Run("解析失败的文件不中断整批审查", func(t *testing.T) {
		files := []UploadedFile{
			{
				Name: "image.png",
				Data: []byte{0x89, 0x50, 0x4e, 0x47},
			},
			{
				Name: "contract.txt",
				Data: []byte("This employment contract is made between the parties."),
			},
		}

		result, err := service.AnalyzeBatch(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, result.Documents, 2)

		assert.NotEmpty(t, result.Documents[0].Error)
		assert.Equal(t, analyzer.TypeEmploymentContract, result.Documents[1].DocType)

		// 解析失败的文件不计入上传清单
		assert.Len(t, result.Summary.DocumentsUploaded, 1)
	})

	t.Run("空文件列表返回错误", func(t *testing.T) {
		_, err := service.AnalyzeBatch(context.Background(), nil)
		assert.Error(t, err)
	})
}
