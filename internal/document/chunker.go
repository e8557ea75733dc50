package document

import (
	"fmt"
	"strings"
)

// Chunk 文档分块
type Chunk struct {
	Text  string // 分块文本内容
	Index int    // 分块序号（从0开始）
	Start int    // 分块在原文中的起始位置（按字符计）
}

// Chunker 固定窗口文档分块器
// 相邻分块之间保留重叠部分，保证检索时上下文连续
type Chunker struct {
	chunkSize int
	overlap   int
}

// DefaultChunkSize 默认分块大小（按字符计）
const DefaultChunkSize = 1000

// DefaultChunkOverlap 默认分块重叠大小（按字符计）
const DefaultChunkOverlap = 200

// NewChunker 创建文档分块器
// overlap必须小于chunkSize，否则分块无法前进
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}

	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// Split 将文本切分为固定大小的分块
// 按字符（rune）计数，避免把多字节字符切断
func (c *Chunker) Split(text string) []Chunk {
	if text == "" {
		return []Chunk{}
	}

	runes := []rune(text)
	step := c.chunkSize - c.overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Text:  string(runes[start:end]),
			Index: len(chunks),
			Start: start,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}

// Reconstruct 从分块序列恢复原始文本
// 第一个分块完整保留，后续分块去掉与前一块重叠的前缀
func (c *Chunker) Reconstruct(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(chunks[0].Text)

	for _, chunk := range chunks[1:] {
		runes := []rune(chunk.Text)
		if len(runes) <= c.overlap {
			// 末尾短块完全落在重叠区内
			continue
		}
		builder.WriteString(string(runes[c.overlap:]))
	}

	return builder.String()
}
