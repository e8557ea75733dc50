package document

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// 连续空白字符匹配
	multiSpaceRegex = regexp.MustCompile(`[ \t]+`)
	// 连续空行匹配
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// extractTextFromHTML 从HTML中提取纯文本
// 块级元素结束时插入换行，保留段落结构
func extractTextFromHTML(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// 解析失败时退回到原始内容
		return htmlContent
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}

		// 跳过脚本和样式内容
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			builder.WriteString("\n")
		}
	}
	walk(doc)

	return builder.String()
}

// isBlockElement 判断HTML标签是否为块级元素
func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "ul", "ol", "table", "tr", "br", "section", "article":
		return true
	}
	return false
}

// normalizeWhitespace 规范化文本中的空白字符
// 压缩连续空格，限制连续空行数量
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = multiSpaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = multiNewlineRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
