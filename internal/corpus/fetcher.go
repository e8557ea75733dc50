package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/fyerfyer/adgm-compliance-system/internal/document"
)

// FetcherConfig 语料抓取配置
type FetcherConfig struct {
	Timeout   time.Duration // 单个请求的超时时间
	UserAgent string        // 请求UA标识
}

// Fetcher ADGM官方文档抓取器
// 支持网页、PDF和Word文档三类来源，网页中内嵌的文档链接会被一并抓取
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	log        *logrus.Logger
	pdfParser  *document.PDFParser
	docxParser *document.DocxParser
}

// NewFetcher 创建语料抓取器
func NewFetcher(config FetcherConfig, logger *logrus.Logger) *Fetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "adgm-compliance-system/1.0"
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		log:        logger,
		pdfParser:  document.NewPDFParser(),
		docxParser: document.NewDocxParser(),
	}
}

// FetchAll 抓取所有来源并写入语料存储
// 单个来源失败时记录日志并继续，不中断整体抓取
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source, store *Store) error {
	store.Reset()

	for _, source := range sources {
		docs, err := f.Fetch(ctx, source)
		if err != nil {
			f.log.WithFields(logrus.Fields{
				"url":      source.URL,
				"category": source.Category,
				"error":    err.Error(),
			}).Warn("Failed to fetch corpus source, skipping")
			continue
		}

		for _, doc := range docs {
			if err := store.Add(doc); err != nil {
				f.log.WithFields(logrus.Fields{
					"filename": doc.FileName,
					"error":    err.Error(),
				}).Warn("Failed to store corpus document, skipping")
			}
		}
	}

	return store.SaveMetadata()
}

// Fetch 抓取单个来源
// 网页来源可能返回多个文档（页面本身加上内嵌的PDF/Word文档）
func (f *Fetcher) Fetch(ctx context.Context, source Source) ([]Document, error) {
	switch fileKindFromURL(source.URL) {
	case KindPDF:
		doc, err := f.fetchFile(ctx, source, KindPDF)
		if err != nil {
			return nil, err
		}
		return []Document{doc}, nil
	case KindDocx:
		doc, err := f.fetchFile(ctx, source, KindDocx)
		if err != nil {
			return nil, err
		}
		return []Document{doc}, nil
	default:
		return f.fetchWebpage(ctx, source)
	}
}

// fetchFile 下载并解析PDF或Word文档
func (f *Fetcher) fetchFile(ctx context.Context, source Source, kind FileKind) (Document, error) {
	data, err := f.download(ctx, source.URL)
	if err != nil {
		return Document{}, err
	}

	var content string
	switch kind {
	case KindPDF:
		content, err = f.pdfParser.ParseReader(bytes.NewReader(data), source.URL)
	case KindDocx:
		content, err = f.docxParser.ParseReader(bytes.NewReader(data), source.URL)
	default:
		return Document{}, fmt.Errorf("unsupported file kind: %s", kind)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s content: %v", kind, err)
	}

	return Document{
		ID:        uuid.New().String(),
		Source:    source,
		FileName:  fileNameFromURL(source.URL, kind),
		FileKind:  kind,
		Content:   content,
		FetchedAt: time.Now(),
	}, nil
}

// fetchWebpage 抓取网页并提取内嵌的文档链接
func (f *Fetcher) fetchWebpage(ctx context.Context, source Source) ([]Document, error) {
	data, err := f.download(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse webpage: %v", err)
	}

	pageDoc := Document{
		ID:        uuid.New().String(),
		Source:    source,
		FileName:  fileNameFromURL(source.URL, KindWebpage),
		FileKind:  KindWebpage,
		Content:   extractVisibleText(root),
		FetchedAt: time.Now(),
	}
	docs := []Document{pageDoc}

	// 抓取页面中内嵌的PDF和Word文档链接
	for _, link := range findDocumentLinks(root, source.URL) {
		embedded := Source{
			Category: source.Category,
			DocType:  fmt.Sprintf("%s - %s", source.DocType, link.Text),
			URL:      link.URL,
		}

		doc, err := f.fetchFile(ctx, embedded, link.Kind)
		if err != nil {
			f.log.WithFields(logrus.Fields{
				"url":   link.URL,
				"error": err.Error(),
			}).Warn("Failed to fetch embedded document, skipping")
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// download 下载URL内容
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}

// documentLink 网页中发现的内嵌文档链接
type documentLink struct {
	URL  string
	Text string
	Kind FileKind
}

// findDocumentLinks 从HTML中收集PDF和Word文档链接
// 相对链接会被解析为绝对地址，重复的链接只保留第一次出现
func findDocumentLinks(root *html.Node, baseURL string) []documentLink {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []documentLink

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}

				kind := fileKindFromURL(attr.Val)
				if kind != KindPDF && kind != KindDocx {
					break
				}

				ref, err := url.Parse(attr.Val)
				if err != nil {
					break
				}
				resolved := base.ResolveReference(ref).String()
				if seen[resolved] {
					break
				}
				seen[resolved] = true

				links = append(links, documentLink{
					URL:  resolved,
					Text: strings.TrimSpace(nodeText(n)),
					Kind: kind,
				})
				break
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return links
}

// extractVisibleText 提取网页的可见文本
func extractVisibleText(root *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "footer", "header":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				builder.WriteString(text)
				builder.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.TrimSpace(builder.String())
}

// nodeText 收集节点下的所有文本
func nodeText(n *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return builder.String()
}

// fileKindFromURL 根据URL判断文件种类
// ADGM资产下载链接的扩展名出现在路径中间，因此按子串匹配
func fileKindFromURL(rawURL string) FileKind {
	lowered := strings.ToLower(rawURL)
	if strings.Contains(lowered, ".pdf") {
		return KindPDF
	}
	if strings.Contains(lowered, ".docx") {
		return KindDocx
	}
	return KindWebpage
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// fileNameFromURL 根据URL生成保存用的文件名
func fileNameFromURL(rawURL string, kind FileKind) string {
	parsed, err := url.Parse(rawURL)
	name := ""
	if err == nil {
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		// 从后往前找带扩展名的路径段（下载链接的末段常是哈希）
		for i := len(segments) - 1; i >= 0; i-- {
			if strings.Contains(segments[i], ".") {
				name = segments[i]
				break
			}
		}
		if name == "" && len(segments) > 0 {
			name = segments[len(segments)-1]
		}
	}

	if name == "" {
		name = uuid.New().String()
	}
	name = unsafeFileNameChars.ReplaceAllString(name, "_")

	ext := "." + string(kind)
	if kind == KindWebpage {
		ext = ".html"
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}
