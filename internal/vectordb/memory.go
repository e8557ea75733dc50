package vectordb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemoryRepository 内存向量索引实现
// 带JSON快照持久化，用于开发、测试以及无faiss环境的回退
type MemoryRepository struct {
	mu          sync.RWMutex
	dimension   int
	distType    DistanceType
	path        string           // 快照文件路径，为空表示纯内存
	entries     map[string]Entry // 条目存储，ID到条目的映射
	sourceToIDs map[string][]string
}

// memorySnapshot 快照文件结构
type memorySnapshot struct {
	Dimension int          `json:"dimension"`
	Distance  DistanceType `json:"distance"`
	Entries   []Entry      `json:"entries"`
}

// NewMemoryRepository 创建内存向量索引
// 如果配置了快照路径且文件存在，则加载已有数据
func NewMemoryRepository(config Config) (Repository, error) {
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}

	distType := config.DistanceType
	if distType != Cosine && distType != DotProduct && distType != Euclidean {
		distType = Cosine // 默认使用余弦距离
	}

	repo := &MemoryRepository{
		dimension:   config.Dimension,
		distType:    distType,
		path:        config.Path,
		entries:     make(map[string]Entry),
		sourceToIDs: make(map[string][]string),
	}

	if config.Path != "" && !config.Reset && fileExists(config.Path) {
		if err := repo.loadSnapshot(config.Path); err != nil {
			return nil, fmt.Errorf("failed to load index snapshot: %v", err)
		}
	}

	return repo, nil
}

// Add 添加单个条目
func (r *MemoryRepository) Add(entry Entry) error {
	if err := ValidateVector(entry.Vector, r.dimension); err != nil {
		return err
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	// 对于余弦距离，先对向量进行归一化处理
	if r.distType == Cosine {
		entry.Vector = normalizeVector(entry.Vector)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.ID] = entry
	r.sourceToIDs[entry.SourceID] = append(r.sourceToIDs[entry.SourceID], entry.ID)

	return nil
}

// AddBatch 批量添加条目
func (r *MemoryRepository) AddBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range entries {
		entry := &entries[i]

		if err := ValidateVector(entry.Vector, r.dimension); err != nil {
			return fmt.Errorf("invalid vector for entry %s: %v", entry.ID, err)
		}

		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}

		if r.distType == Cosine {
			entry.Vector = normalizeVector(entry.Vector)
		}

		r.entries[entry.ID] = *entry
		r.sourceToIDs[entry.SourceID] = append(r.sourceToIDs[entry.SourceID], entry.ID)
	}

	return nil
}

// Get 获取单个条目
func (r *MemoryRepository) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return Entry{}, ErrEntryNotFound
	}

	return entry, nil
}

// DeleteBySourceID 删除指定语料文档的所有条目
func (r *MemoryRepository) DeleteBySourceID(sourceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, exists := r.sourceToIDs[sourceID]
	if !exists {
		return nil
	}

	for _, id := range ids {
		delete(r.entries, id)
	}
	delete(r.sourceToIDs, sourceID)

	return nil
}

// Search 相似度搜索
func (r *MemoryRepository) Search(vector []float32, filter SearchFilter) ([]SearchResult, error) {
	if err := ValidateVector(vector, r.dimension); err != nil {
		return nil, err
	}

	// 对于余弦距离，对查询向量进行归一化处理
	if r.distType == Cosine {
		vector = normalizeVector(vector)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]SearchResult, 0, len(r.entries))
	for _, entry := range r.entries {
		if !matchFilter(entry, filter) {
			continue
		}

		dist, err := ComputeDistance(vector, entry.Vector, r.distType)
		if err != nil {
			return nil, fmt.Errorf("error computing distance: %v", err)
		}

		score := DistanceToScore(dist, r.distType)
		if score < filter.MinScore {
			continue
		}

		results = append(results, SearchResult{
			Entry:    entry,
			Score:    score,
			Distance: dist,
		})
	}

	// 按得分排序（从高到低）
	SortSearchResults(results)

	if filter.MaxResults > 0 && len(results) > filter.MaxResults {
		results = results[:filter.MaxResults]
	}

	return results, nil
}

// Count 获取条目总数
func (r *MemoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries), nil
}

// GetDimension 返回向量维数
func (r *MemoryRepository) GetDimension() int {
	return r.dimension
}

// Save 将索引快照写入配置的路径
func (r *MemoryRepository) Save() error {
	if r.path == "" {
		return nil
	}

	r.mu.RLock()
	snapshot := memorySnapshot{
		Dimension: r.dimension,
		Distance:  r.distType,
		Entries:   make([]Entry, 0, len(r.entries)),
	}
	for _, entry := range r.entries {
		snapshot.Entries = append(snapshot.Entries, entry)
	}
	r.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %v", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %v", err)
	}

	return nil
}

// loadSnapshot 从文件加载索引快照
func (r *MemoryRepository) loadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %v", err)
	}

	var snapshot memorySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}

	if snapshot.Dimension != r.dimension {
		return fmt.Errorf("snapshot dimension mismatch: expected %d, got %d", r.dimension, snapshot.Dimension)
	}

	for _, entry := range snapshot.Entries {
		r.entries[entry.ID] = entry
		r.sourceToIDs[entry.SourceID] = append(r.sourceToIDs[entry.SourceID], entry.ID)
	}

	return nil
}

// Close 关闭索引
// 对于内存实现这是一个空操作
func (r *MemoryRepository) Close() error {
	return nil
}

// 在包初始化时注册内存索引
func init() {
	RegisterRepository("memory", NewMemoryRepository)
}
