package corpus

import "time"

// FileKind 语料来源文件种类
type FileKind string

const (
	// KindPDF PDF文件
	KindPDF FileKind = "pdf"
	// KindDocx Word文档
	KindDocx FileKind = "docx"
	// KindWebpage 网页
	KindWebpage FileKind = "webpage"
)

// Source ADGM官方语料来源
type Source struct {
	Category string // 监管类别（如Company Formation）
	DocType  string // 文档类型（如Resolution）
	URL      string // 来源URL
}

// Document 抓取到的语料文档
type Document struct {
	ID        string    // 唯一标识符
	Source    Source    // 来源信息
	FileName  string    // 保存的文件名
	FileKind  FileKind  // 文件种类
	Content   string    // 提取出的文本内容
	FetchedAt time.Time // 抓取时间
}

// MetadataRecord 语料元数据记录
// 序列化到document_metadata.json，字段名与检索端约定保持一致
type MetadataRecord struct {
	Source       string `json:"source"`        // 来源URL
	Category     string `json:"category"`      // 监管类别
	DocumentType string `json:"document_type"` // 文档类型
	Filename     string `json:"filename"`      // 保存的文件名
	FileType     string `json:"file_type"`     // 文件种类
}

// MetadataFor 生成文档的元数据记录
func MetadataFor(doc Document) MetadataRecord {
	return MetadataRecord{
		Source:       doc.Source.URL,
		Category:     doc.Source.Category,
		DocumentType: doc.Source.DocType,
		Filename:     doc.FileName,
		FileType:     string(doc.FileKind),
	}
}
