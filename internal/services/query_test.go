package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/adgm-compliance-system/internal/cache"
	"github.com/fyerfyer/adgm-compliance-system/internal/corpus"
	"github.com/fyerfyer/adgm-compliance-system/internal/document"
	"github.com/fyerfyer/adgm-compliance-system/internal/embedding"
	"github.com/fyerfyer/adgm-compliance-system/internal/llm"
	"github.com/fyerfyer/adgm-compliance-system/internal/vectordb"
)

// fakeLLM 测试用的LLM客户端，记录调用次数
type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls++
	return f.answer, f.err
}

// newTestIndex 构建一个包含测试语料的内存索引
func newTestIndex(t *testing.T, embedder embedding.Client) *IndexService {
	t.Helper()

	chunker, err := document.NewChunker(200, 40)
	require.NoError(t, err)

	index := NewIndexService(vectordb.Config{
		Type:         "memory",
		Dimension:    embedder.GetDimension(),
		DistanceType: vectordb.Cosine,
	}, embedder, chunker, nil)

	docs := []corpus.Document{
		{
			ID: "doc-employment",
			Source: corpus.Source{
				Category: "Employment",
				DocType:  "Contract 2024",
				URL:      "https://www.adgm.com/employment-contract",
			},
			FileName: "contract.docx",
			FileKind: corpus.KindDocx,
			Content:  "The ADGM standard employment contract requires the employer to state salary, working hours and notice period.",
		},
		{
			ID: "doc-incorporation",
			Source: corpus.Source{
				Category: "Company Formation",
				DocType:  "General Incorporation",
				URL:      "https://www.adgm.com/registration",
			},
			FileName: "incorporation.html",
			FileKind: corpus.KindWebpage,
			Content:  "Company incorporation in ADGM requires articles of association, a memorandum and a UBO declaration.",
		},
	}

	require.NoError(t, index.Rebuild(context.Background(), docs))
	return index
}

func TestQueryServiceAnswer(t *testing.T) {
	embedder, err := embedding.NewPlaceholderClient(embedding.WithDimensions(32))
	require.NoError(t, err)

	t.Run("索引未就绪时返回固定提示", func(t *testing.T) {
		chunker, err := document.NewChunker(200, 40)
		require.NoError(t, err)

		index := NewIndexService(vectordb.Config{
			Type:      "memory",
			Dimension: 32,
		}, embedder, chunker, nil)

		service := NewQueryService(index, embedder, llm.NewRAGService(&fakeLLM{}), nil)

		answer, err := service.Answer(context.Background(), "What documents are required?")
		require.NoError(t, err)
		assert.Equal(t, llm.NotReadyAnswer, answer)
	})

	t.Run("回答末尾附上去重的来源列表", func(t *testing.T) {
		index := newTestIndex(t, embedder)
		client := &fakeLLM{answer: "An employment contract must state salary and working hours."}
		service := NewQueryService(index, embedder, llm.NewRAGService(client), nil)

		answer, err := service.Answer(context.Background(), "What must an employment contract contain?")
		require.NoError(t, err)

		assert.Contains(t, answer, "An employment contract must state salary and working hours.")
		assert.Contains(t, answer, "Sources:")
		assert.True(t,
			strings.Contains(answer, "- Contract 2024 (https://www.adgm.com/employment-contract)") ||
				strings.Contains(answer, "- General Incorporation (https://www.adgm.com/registration)"))

		// 每个来源只出现一次
		assert.LessOrEqual(t, strings.Count(answer, "- Contract 2024"), 1)
		assert.LessOrEqual(t, strings.Count(answer, "- General Incorporation"), 1)
	})

	t.Run("生成失败时返回降级回答", func(t *testing.T) {
		index := newTestIndex(t, embedder)
		client := &fakeLLM{err: assert.AnError}
		service := NewQueryService(index, embedder, llm.NewRAGService(client), nil)

		answer, err := service.Answer(context.Background(), "What is required?")
		require.NoError(t, err)
		assert.Contains(t, answer, "Error querying the knowledge base:")
	})

	t.Run("命中缓存时不再调用LLM", func(t *testing.T) {
		index := newTestIndex(t, embedder)
		client := &fakeLLM{answer: "Cached answer about ADGM."}

		memCache, err := cache.NewMemoryCache(cache.Config{TTL: time.Minute})
		require.NoError(t, err)

		service := NewQueryService(index, embedder, llm.NewRAGService(client), nil,
			WithCache(memCache, time.Minute))

		first, err := service.Answer(context.Background(), "What is ADGM?")
		require.NoError(t, err)
		callsAfterFirst := client.calls

		second, err := service.Answer(context.Background(), "What is ADGM?")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, callsAfterFirst, client.calls)
	})

	t.Run("空问题返回错误", func(t *testing.T) {
		index := newTestIndex(t, embedder)
		service := NewQueryService(index, embedder, llm.NewRAGService(&fakeLLM{}), nil)

		_, err := service.Answer(context.Background(), "   ")
		assert.Error(t, err)
	})
}
