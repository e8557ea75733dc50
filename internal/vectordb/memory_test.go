package vectordb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	repo, err := NewMemoryRepository(Config{
		Type:         "memory",
		Dimension:    3,
		DistanceType: Cosine,
	})
	require.NoError(t, err)
	return repo
}

func testEntry(id, sourceID, category string, vector []float32) Entry {
	return Entry{
		ID:       id,
		SourceID: sourceID,
		Text:     "entry " + id,
		Vector:   vector,
		Category: category,
	}
}

func TestMemoryRepositoryAddAndGet(t *testing.T) {
	repo := newTestRepository(t)

	t.Run("添加并读取条目", func(t *testing.T) {
		entry := testEntry("e1", "doc-1", "Employment", []float32{1, 0, 0})
		require.NoError(t, repo.Add(entry))

		got, err := repo.Get("e1")
		require.NoError(t, err)
		assert.Equal(t, "doc-1", got.SourceID)
		assert.False(t, got.CreatedAt.IsZero())

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("维度不匹配返回错误", func(t *testing.T) {
		err := repo.Add(testEntry("e2", "doc-1", "Employment", []float32{1, 0}))
		assert.Error(t, err)
	})

	t.Run("获取不存在的条目", func(t *testing.T) {
		_, err := repo.Get("missing")
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestMemoryRepositorySearch(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.AddBatch([]Entry{
		testEntry("e1", "doc-1", "Employment", []float32{1, 0, 0}),
		testEntry("e2", "doc-1", "Employment", []float32{0.9, 0.1, 0}),
		testEntry("e3", "doc-2", "Company Formation", []float32{0, 1, 0}),
	}))

	t.Run("按相似度降序返回", func(t *testing.T) {
		results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{MaxResults: 3})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "e1", results[0].Entry.ID)
		assert.Equal(t, "e2", results[1].Entry.ID)
		assert.Equal(t, "e3", results[2].Entry.ID)
	})

	t.Run("MaxResults截断结果", func(t *testing.T) {
		results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{MaxResults: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "e1", results[0].Entry.ID)
	})

	t.Run("MinScore过滤低分结果", func(t *testing.T) {
		// e3与查询向量正交，余弦得分为0
		results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{MinScore: 0.5, MaxResults: 10})
		require.NoError(t, err)
		require.Len(t, results, 2)
	})

	t.Run("按监管类别过滤", func(t *testing.T) {
		results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{Category: "company formation", MaxResults: 10})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "e3", results[0].Entry.ID)
	})
}

func TestMemoryRepositoryDeleteBySourceID(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.AddBatch([]Entry{
		testEntry("e1", "doc-1", "Employment", []float32{1, 0, 0}),
		testEntry("e2", "doc-1", "Employment", []float32{0, 1, 0}),
		testEntry("e3", "doc-2", "Compliance", []float32{0, 0, 1}),
	}))

	require.NoError(t, repo.DeleteBySourceID("doc-1"))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.Get("e1")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestMemoryRepositorySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	config := Config{
		Type:         "memory",
		Path:         path,
		Dimension:    3,
		DistanceType: Cosine,
	}

	t.Run("快照不存在时Open返回ErrIndexNotFound", func(t *testing.T) {
		_, err := Open(config)
		assert.ErrorIs(t, err, ErrIndexNotFound)
	})

	t.Run("保存后可以重新打开", func(t *testing.T) {
		repo, err := NewMemoryRepository(config)
		require.NoError(t, err)
		require.NoError(t, repo.Add(testEntry("e1", "doc-1", "Employment", []float32{1, 0, 0})))
		require.NoError(t, repo.Add(testEntry("e2", "doc-1", "Employment", []float32{0, 1, 0})))
		require.NoError(t, repo.Save())

		reopened, err := Open(config)
		require.NoError(t, err)

		count, err := reopened.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := reopened.Get("e1")
		require.NoError(t, err)
		assert.Equal(t, "Employment", got.Category)

		// 重新打开后的检索结果与保存前一致
		query := []float32{1, 0, 0}
		filter := SearchFilter{MaxResults: 2}
		before, err := repo.Search(query, filter)
		require.NoError(t, err)
		after, err := reopened.Search(query, filter)
		require.NoError(t, err)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].Entry.ID, after[i].Entry.ID)
			assert.InDelta(t, before[i].Score, after[i].Score, 1e-5)
		}
	})

	t.Run("Reset忽略已有快照", func(t *testing.T) {
		resetConfig := config
		resetConfig.Reset = true

		repo, err := NewMemoryRepository(resetConfig)
		require.NoError(t, err)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
