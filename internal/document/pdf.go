package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFParser PDF文档解析器
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse 解析PDF文档，提取文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	// 检查文件是否存在
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	// 创建临时目录存放提取出的内容
	tempDir, err := os.MkdirTemp("", "pdf-extract-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// 提取PDF内容到临时目录
	if err := api.ExtractContentFile(filePath, tempDir, nil, nil); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %v", err)
	}

	// 读取所有提取出的文本文件并按页码排序
	files, err := filepath.Glob(filepath.Join(tempDir, "*.txt"))
	if err != nil {
		return "", fmt.Errorf("failed to list extracted files: %v", err)
	}
	sort.Strings(files)

	var builder strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read extracted file %s: %v", f, err)
		}
		builder.Write(content)
		builder.WriteString("\n")
	}

	return normalizeWhitespace(builder.String()), nil
}

// ParseReader 从Reader解析PDF文档
// pdfcpu的内容提取需要文件路径，因此先写入临时文件
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	tempFile, err := os.CreateTemp("", "pdf-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := io.Copy(tempFile, r); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp file: %v", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %v", err)
	}

	return p.Parse(tempPath)
}
