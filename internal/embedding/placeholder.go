package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// PlaceholderClient 确定性占位嵌入客户端
// 在没有可用嵌入服务时使用，根据文本哈希生成稳定的单位向量
// 相同文本始终得到相同向量，保证索引构建和检索可以离线运行
type PlaceholderClient struct {
	dimensions int
}

// NewPlaceholderClient 创建占位嵌入客户端
func NewPlaceholderClient(opts ...Option) (Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &PlaceholderClient{
		dimensions: options.Dimensions,
	}, nil
}

// Embed 生成确定性的占位向量
func (c *PlaceholderClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewEmbeddingError(ErrCodeEmptyInput, "embedding input text is empty", nil)
	}

	vector := make([]float32, c.dimensions)

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	// 用哈希播种的线性同余序列填充向量分量
	state := seed
	for i := range vector {
		state = state*6364136223846793005 + 1442695040888963407
		vector[i] = float32(int64(state>>33))/float32(1<<30) - 1
	}

	return normalizeUnit(vector), nil
}

// EmbedBatch 批量生成占位向量
func (c *PlaceholderClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// GetDimension 返回嵌入向量的维数
func (c *PlaceholderClient) GetDimension() int {
	return c.dimensions
}

// normalizeUnit 将向量归一化为单位向量
func normalizeUnit(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		v[0] = 1
		return v
	}

	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

func init() {
	RegisterClient("placeholder", NewPlaceholderClient)
}
