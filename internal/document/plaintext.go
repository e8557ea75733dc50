package document

import (
	"fmt"
	"io"
	"os"
)

// PlainTextParser 纯文本文档解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() *PlainTextParser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文档
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %v", err)
	}

	return normalizeWhitespace(string(content)), nil
}

// ParseReader 从Reader解析纯文本文档
func (p *PlainTextParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text content: %v", err)
	}

	return normalizeWhitespace(string(content)), nil
}
