//go:build cgo

package vectordb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DataIntelligenceCrew/go-faiss"
)

// FaissRepository 基于Faiss的向量索引实现
// 索引本体由faiss持久化，条目元数据保存在同名的.meta.json文件
type FaissRepository struct {
	mu           sync.RWMutex
	index        faiss.Index
	entries      map[string]Entry
	sourceToIDs  map[string][]string
	idToPosition map[string]int
	indexPath    string
	metaPath     string
	dimension    int
	distanceType DistanceType
}

// NewFaissRepository 创建新的Faiss向量索引
func NewFaissRepository(config Config) (Repository, error) {
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}

	if config.Path != "" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %v", err)
		}
	}

	distType := config.DistanceType
	if distType == "" {
		distType = Cosine
	}

	indexPath := config.Path
	metaPath := ""
	if indexPath != "" {
		metaPath = indexPath + ".meta.json"
	}

	repo := &FaissRepository{
		entries:      make(map[string]Entry),
		sourceToIDs:  make(map[string][]string),
		idToPosition: make(map[string]int),
		indexPath:    indexPath,
		metaPath:     metaPath,
		dimension:    config.Dimension,
		distanceType: distType,
	}

	var index faiss.Index
	var err error

	// 尝试从文件加载索引
	if indexPath != "" && !config.Reset && fileExists(indexPath) {
		index, err = faiss.ReadIndex(indexPath, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to read index file: %v", err)
		}
		if err := repo.loadMetadata(metaPath); err != nil {
			return nil, fmt.Errorf("failed to load index metadata: %v", err)
		}
	} else {
		index, err = createFaissIndex(config.Dimension, distType)
		if err != nil {
			return nil, fmt.Errorf("failed to create faiss index: %v", err)
		}
	}

	repo.index = index
	return repo, nil
}

// createFaissIndex 创建Faiss索引
func createFaissIndex(dimension int, distType DistanceType) (faiss.Index, error) {
	var metric int
	switch distType {
	case Cosine, DotProduct:
		metric = faiss.MetricInnerProduct
	case Euclidean:
		metric = faiss.MetricL2
	default:
		metric = faiss.MetricL2
	}
	return faiss.NewIndexFlat(dimension, metric)
}

// Add 添加单个条目
func (r *FaissRepository) Add(entry Entry) error {
	if err := ValidateVector(entry.Vector, r.dimension); err != nil {
		return err
	}
	if r.distanceType == Cosine {
		entry.Vector = normalizeVector(entry.Vector)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nextPos := int(r.index.Ntotal())
	if err := r.index.Add(entry.Vector); err != nil {
		return fmt.Errorf("failed to add vector to index: %v", err)
	}

	r.entries[entry.ID] = entry
	r.idToPosition[entry.ID] = nextPos
	r.sourceToIDs[entry.SourceID] = append(r.sourceToIDs[entry.SourceID], entry.ID)

	return nil
}

// AddBatch 批量添加条目
func (r *FaissRepository) AddBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	for i := range entries {
		if err := ValidateVector(entries[i].Vector, r.dimension); err != nil {
			return fmt.Errorf("invalid vector for entry %s: %v", entries[i].ID, err)
		}
		if r.distanceType == Cosine {
			entries[i].Vector = normalizeVector(entries[i].Vector)
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = time.Now()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	startPos := int(r.index.Ntotal())
	for _, entry := range entries {
		if err := r.index.Add(entry.Vector); err != nil {
			return fmt.Errorf("failed to add vector to index: %v", err)
		}
	}

	for i, entry := range entries {
		r.entries[entry.ID] = entry
		r.idToPosition[entry.ID] = startPos + i
		r.sourceToIDs[entry.SourceID] = append(r.sourceToIDs[entry.SourceID], entry.ID)
	}

	return nil
}

// Get 获取单个条目
func (r *FaissRepository) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// DeleteBySourceID 删除指定语料文档的所有条目
// 仅移除元数据；faiss平铺索引不支持定点删除，残留向量在搜索时被过滤
func (r *FaissRepository) DeleteBySourceID(sourceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, exists := r.sourceToIDs[sourceID]
	if !exists {
		return nil
	}
	for _, id := range ids {
		delete(r.entries, id)
		delete(r.idToPosition, id)
	}
	delete(r.sourceToIDs, sourceID)

	return nil
}

// Search 相似度搜索
func (r *FaissRepository) Search(vector []float32, filter SearchFilter) ([]SearchResult, error) {
	if err := ValidateVector(vector, r.dimension); err != nil {
		return nil, err
	}
	if r.distanceType == Cosine {
		vector = normalizeVector(vector)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return []SearchResult{}, nil
	}

	k := filter.MaxResults
	if k <= 0 {
		k = 5
	}

	// 超额检索，给过滤条件留出余量
	queryLimit := k * 2
	total := int(r.index.Ntotal())
	if queryLimit > total {
		queryLimit = total
	}
	if queryLimit == 0 {
		return []SearchResult{}, nil
	}

	distances, indices, err := r.index.Search(vector, int64(queryLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %v", err)
	}

	var results []SearchResult
	for i := 0; i < len(indices); i++ {
		idx := indices[i]
		if idx < 0 {
			continue
		}

		var entryID string
		found := false
		for id, pos := range r.idToPosition {
			if pos == int(idx) {
				entryID = id
				found = true
				break
			}
		}
		if !found {
			continue
		}

		entry, exists := r.entries[entryID]
		if !exists {
			continue
		}
		if !matchFilter(entry, filter) {
			continue
		}

		dist := distances[i]
		score := DistanceToScore(dist, r.distanceType)
		if score < filter.MinScore {
			continue
		}

		results = append(results, SearchResult{
			Entry:    entry,
			Score:    score,
			Distance: dist,
		})
		if len(results) >= k {
			break
		}
	}

	SortSearchResults(results)
	return results, nil
}

// Count 获取条目总数
func (r *FaissRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

// GetDimension 返回向量维数
func (r *FaissRepository) GetDimension() int {
	return r.dimension
}

// Save 保存索引和元数据到文件
func (r *FaissRepository) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saveIndex()
}

// Close 关闭索引，保存当前状态
func (r *FaissRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexPath != "" {
		if err := r.saveIndex(); err != nil {
			return fmt.Errorf("failed to save index on close: %v", err)
		}
	}
	return nil
}

// saveIndex 保存索引和条目元数据到文件
// 调用方需持有锁
func (r *FaissRepository) saveIndex() error {
	if r.indexPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}
	if err := faiss.WriteIndex(r.index, r.indexPath); err != nil {
		return fmt.Errorf("failed to write index to file: %v", err)
	}
	return r.saveMetadata()
}

// faissMetadata 元数据文件结构
type faissMetadata struct {
	Entries      map[string]Entry    `json:"entries"`
	SourceToIDs  map[string][]string `json:"source_to_ids"`
	IDToPosition map[string]int      `json:"id_to_position"`
}

// saveMetadata 保存条目元数据到文件
func (r *FaissRepository) saveMetadata() error {
	if r.metaPath == "" {
		return nil
	}

	metadata := faissMetadata{
		Entries:      r.entries,
		SourceToIDs:  r.sourceToIDs,
		IDToPosition: r.idToPosition,
	}
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %v", err)
	}
	if err := os.WriteFile(r.metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %v", err)
	}
	return nil
}

// loadMetadata 从文件加载条目元数据
func (r *FaissRepository) loadMetadata(path string) error {
	if path == "" || !fileExists(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read metadata file: %v", err)
	}

	var metadata faissMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %v", err)
	}

	r.entries = metadata.Entries
	r.sourceToIDs = metadata.SourceToIDs
	r.idToPosition = metadata.IDToPosition
	return nil
}

func init() {
	RegisterRepository("faiss", NewFaissRepository)
}
