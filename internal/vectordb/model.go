package vectordb

import (
	"errors"
	"time"
)

// 常用错误定义
var (
	ErrEntryNotFound    = errors.New("index entry not found")
	ErrEmptyVector      = errors.New("empty vector")
	ErrInvalidDimension = errors.New("vector dimension mismatch")
	// ErrIndexNotFound 索引快照不存在，调用方应回退到全量重建
	ErrIndexNotFound = errors.New("vector index snapshot not found")
)

// Entry 索引条目模型
// 每个条目对应一个语料分块，携带监管来源信息
type Entry struct {
	ID        string    `json:"id"`         // 唯一标识符
	SourceID  string    `json:"source_id"`  // 所属语料文档ID
	Position  int       `json:"position"`   // 分块在原文档中的序号
	Text      string    `json:"text"`       // 分块文本内容
	Vector    []float32 `json:"vector"`     // 向量表示
	Category  string    `json:"category"`   // 监管类别（如Company Formation）
	DocType   string    `json:"doc_type"`   // 文档类型（如Resolution）
	Source    string    `json:"source"`     // 来源URL或文件名
	FileKind  string    `json:"file_kind"`  // 来源文件种类：pdf/docx/webpage
	CreatedAt time.Time `json:"created_at"` // 创建时间
}

// DistanceType 向量距离计算方法
type DistanceType string

const (
	// Cosine 余弦相似度
	Cosine DistanceType = "cosine"
	// DotProduct 点积
	DotProduct DistanceType = "dot"
	// Euclidean 欧几里得距离
	Euclidean DistanceType = "l2"
)

// SearchResult 搜索结果
type SearchResult struct {
	Entry    Entry   // 索引条目
	Score    float32 // 相似度得分
	Distance float32 // 计算的距离
}

// SearchFilter 搜索过滤条件
type SearchFilter struct {
	SourceIDs  []string // 按语料文档ID过滤
	Category   string   // 按监管类别过滤
	DocType    string   // 按文档类型过滤
	MinScore   float32  // 最小相似度分数
	MaxResults int      // 最大返回结果数
}

// DefaultSearchFilter 返回默认的搜索过滤器
func DefaultSearchFilter() SearchFilter {
	return SearchFilter{
		MinScore:   0.0,
		MaxResults: 5,
	}
}

// Repository 向量索引仓库接口
type Repository interface {
	// Add 添加单个条目
	Add(entry Entry) error

	// AddBatch 批量添加条目
	AddBatch(entries []Entry) error

	// Get 获取单个条目
	Get(id string) (Entry, error)

	// DeleteBySourceID 删除指定语料文档的所有条目
	DeleteBySourceID(sourceID string) error

	// Search 相似度搜索
	Search(vector []float32, filter SearchFilter) ([]SearchResult, error)

	// Count 获取条目总数
	Count() (int, error)

	// GetDimension 返回向量维数
	GetDimension() int

	// Save 将索引快照持久化到配置的路径
	Save() error

	// Close 关闭索引
	Close() error
}

// Config 向量索引配置
type Config struct {
	Type         string       // 索引类型，如 "memory", "faiss"
	Path         string       // 快照文件路径
	Dimension    int          // 向量维度
	DistanceType DistanceType // 距离计算类型
	Reset        bool         // 忽略已有快照，从空索引开始
}

// Factory 向量索引工厂函数类型
type Factory func(config Config) (Repository, error)

// RepositoryRegistry 注册可用的向量索引实现
var RepositoryRegistry = map[string]Factory{}

// RegisterRepository 注册向量索引工厂函数
func RegisterRepository(name string, factory Factory) {
	RepositoryRegistry[name] = factory
}

// NewRepository 根据配置创建向量索引实例
func NewRepository(config Config) (Repository, error) {
	factory, ok := RepositoryRegistry[config.Type]
	if !ok {
		// 默认使用内存实现
		factory = NewMemoryRepository
	}
	return factory(config)
}

// Open 打开已有的索引快照
// 快照文件不存在时返回ErrIndexNotFound，由调用方决定是否重建
func Open(config Config) (Repository, error) {
	if config.Path == "" || !fileExists(config.Path) {
		return nil, ErrIndexNotFound
	}
	config.Reset = false
	return NewRepository(config)
}
