package document

import (
	"fmt"
	"io"
	"os"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
type MarkdownParser struct{}

// NewMarkdownParser 创建一个新的Markdown解析器
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文档，提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %v", err)
	}

	return p.extractText(content), nil
}

// ParseReader 从Reader解析Markdown文档
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %v", err)
	}

	return p.extractText(content), nil
}

// extractText 将Markdown渲染为HTML后剥离标签，得到纯文本
func (p *MarkdownParser) extractText(content []byte) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	htmlFlags := html.CommonFlags
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	htmlContent := markdown.ToHTML(content, mdParser, renderer)
	return normalizeWhitespace(extractTextFromHTML(string(htmlContent)))
}
