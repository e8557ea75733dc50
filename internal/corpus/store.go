package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// 语料存储的文件布局
const (
	metadataFileName = "document_metadata.json"
	extractedTextDir = "extracted_text"
)

// Store 语料文档存储
// 文本内容保存在extracted_text/目录，元数据汇总在document_metadata.json
type Store struct {
	mu      sync.Mutex
	dataDir string
	docs    []Document
}

// NewStore 创建语料存储
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("corpus data directory is required")
	}

	if err := os.MkdirAll(filepath.Join(dataDir, extractedTextDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create corpus directory: %v", err)
	}

	store := &Store{dataDir: dataDir}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// load 从磁盘恢复已抓取的语料
// 元数据文件不存在时视为空存储，缺失文本的记录跳过
func (s *Store) load() error {
	if _, err := os.Stat(filepath.Join(s.dataDir, metadataFileName)); os.IsNotExist(err) {
		return nil
	}

	records, err := s.LoadMetadata()
	if err != nil {
		return err
	}

	docs := make([]Document, 0, len(records))
	for _, record := range records {
		content, err := s.LoadText(record.Filename)
		if err != nil {
			continue
		}
		docs = append(docs, Document{
			ID:       uuid.New().String(),
			FileName: record.Filename,
			FileKind: FileKind(record.FileType),
			Content:  content,
			Source: Source{
				Category: record.Category,
				DocType:  record.DocumentType,
				URL:      record.Source,
			},
		})
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return nil
}

// Add 添加语料文档并保存其文本内容
func (s *Store) Add(doc Document) error {
	if err := s.SaveText(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

// Reset 清空内存中的语料记录，全量重新抓取前调用
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}

// Documents 返回已收录的所有语料文档
func (s *Store) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}

// SaveText 将文档的提取文本保存到extracted_text目录
func (s *Store) SaveText(doc Document) error {
	name := textFileName(doc.FileName)
	path := filepath.Join(s.dataDir, extractedTextDir, name)

	if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
		return fmt.Errorf("failed to save extracted text for %s: %v", doc.FileName, err)
	}
	return nil
}

// SaveMetadata 将所有文档的元数据写入document_metadata.json
func (s *Store) SaveMetadata() error {
	s.mu.Lock()
	records := make([]MetadataRecord, 0, len(s.docs))
	for _, doc := range s.docs {
		records = append(records, MetadataFor(doc))
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus metadata: %v", err)
	}

	path := filepath.Join(s.dataDir, metadataFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write corpus metadata: %v", err)
	}
	return nil
}

// LoadMetadata 从document_metadata.json加载元数据记录
func (s *Store) LoadMetadata() ([]MetadataRecord, error) {
	path := filepath.Join(s.dataDir, metadataFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus metadata: %v", err)
	}

	var records []MetadataRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus metadata: %v", err)
	}
	return records, nil
}

// LoadText 读取指定文档的提取文本
func (s *Store) LoadText(fileName string) (string, error) {
	path := filepath.Join(s.dataDir, extractedTextDir, textFileName(fileName))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text for %s: %v", fileName, err)
	}
	return string(data), nil
}

// textFileName 生成提取文本的文件名
func textFileName(fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return base + ".txt"
}
