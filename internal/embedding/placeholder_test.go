package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderClient(t *testing.T) {
	client, err := NewPlaceholderClient(WithDimensions(768))
	require.NoError(t, err)

	t.Run("相同文本生成相同向量", func(t *testing.T) {
		v1, err := client.Embed(context.Background(), "ADGM company incorporation requirements")
		require.NoError(t, err)
		v2, err := client.Embed(context.Background(), "ADGM company incorporation requirements")
		require.NoError(t, err)

		assert.Equal(t, v1, v2)
	})

	t.Run("不同文本生成不同向量", func(t *testing.T) {
		v1, err := client.Embed(context.Background(), "articles of association")
		require.NoError(t, err)
		v2, err := client.Embed(context.Background(), "employment contract")
		require.NoError(t, err)

		assert.NotEqual(t, v1, v2)
	})

	t.Run("向量为单位长度", func(t *testing.T) {
		v, err := client.Embed(context.Background(), "data protection policy")
		require.NoError(t, err)
		require.Len(t, v, 768)

		var sum float64
		for _, val := range v {
			sum += float64(val) * float64(val)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
	})

	t.Run("空文本返回错误", func(t *testing.T) {
		_, err := client.Embed(context.Background(), "  ")
		require.Error(t, err)

		var embedErr *EmbeddingError
		require.ErrorAs(t, err, &embedErr)
		assert.Equal(t, ErrCodeEmptyInput, embedErr.Code)
	})

	t.Run("批量嵌入保持顺序", func(t *testing.T) {
		texts := []string{"first chunk", "second chunk", "third chunk"}
		vectors, err := client.EmbedBatch(context.Background(), texts)
		require.NoError(t, err)
		require.Len(t, vectors, 3)

		for i, text := range texts {
			single, err := client.Embed(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, single, vectors[i])
		}
	})
}

func TestClientRegistry(t *testing.T) {
	t.Run("已注册的提供商可以创建客户端", func(t *testing.T) {
		client, err := NewClient("placeholder", WithDimensions(128))
		require.NoError(t, err)
		assert.Equal(t, 128, client.GetDimension())
	})

	t.Run("未知提供商返回错误", func(t *testing.T) {
		_, err := NewClient("unknown-provider")
		assert.Error(t, err)
	})
}
