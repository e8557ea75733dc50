package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxParser Word文档解析器
// 直接读取docx压缩包内的document.xml，保留段落样式信息
type DocxParser struct{}

// NewDocxParser 创建一个新的Word文档解析器
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

// Parse 解析Word文档，提取文本内容
func (p *DocxParser) Parse(filePath string) (string, error) {
	reader, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx file: %v", err)
	}
	defer reader.Close()

	paragraphs, err := parseDocxArchive(&reader.Reader)
	if err != nil {
		return "", err
	}

	return joinParagraphText(paragraphs), nil
}

// ParseReader 从Reader解析Word文档
func (p *DocxParser) ParseReader(r io.Reader, filename string) (string, error) {
	paragraphs, err := p.ParseParagraphs(r)
	if err != nil {
		return "", err
	}

	return joinParagraphText(paragraphs), nil
}

// ParseParagraphs 从Reader解析Word文档，返回带样式信息的段落列表
// 段落样式用于后续的章节划分
func (p *DocxParser) ParseParagraphs(r io.Reader) ([]Paragraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read docx content: %v", err)
	}

	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %v", err)
	}

	return parseDocxArchive(zipReader)
}

// parseDocxArchive 从docx压缩包中定位并解析document.xml
func parseDocxArchive(reader *zip.Reader) ([]Paragraph, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open document.xml: %v", err)
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}

	return nil, fmt.Errorf("document.xml not found in docx archive")
}

// parseDocumentXML 遍历document.xml的XML流，提取段落文本和样式
// 记录每个段落的样式名（w:pStyle）和首个文本运行的加粗标记
func parseDocumentXML(r io.Reader) ([]Paragraph, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []Paragraph
	var textBuilder strings.Builder

	var (
		inParagraph  bool
		inRun        bool
		style        string
		pendingBold  bool
		firstRunBold bool
		firstRunSeen bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document.xml: %v", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				style = ""
				firstRunBold = false
				firstRunSeen = false
				textBuilder.Reset()
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						style = attr.Value
					}
				}
			case "r":
				inRun = true
				pendingBold = false
			case "b":
				if inRun && !boldDisabled(t) {
					pendingBold = true
				}
			case "t":
				if !inParagraph {
					continue
				}
				var text string
				if err := decoder.DecodeElement(&text, &t); err != nil {
					return nil, fmt.Errorf("failed to decode text element: %v", err)
				}
				if !firstRunSeen && text != "" {
					firstRunBold = pendingBold
					firstRunSeen = true
				}
				textBuilder.WriteString(text)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, Paragraph{
						Text:  textBuilder.String(),
						Style: style,
						Bold:  firstRunBold,
					})
				}
				inParagraph = false
			}
		}
	}

	return paragraphs, nil
}

// boldDisabled 检查加粗标记是否被显式关闭（w:val="0"或"false"）
func boldDisabled(elem xml.StartElement) bool {
	for _, attr := range elem.Attr {
		if attr.Name.Local == "val" && (attr.Value == "0" || attr.Value == "false") {
			return true
		}
	}
	return false
}

// joinParagraphText 将段落文本拼接为完整文档内容
func joinParagraphText(paragraphs []Paragraph) string {
	var builder strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(p.Text)
	}
	return builder.String()
}
