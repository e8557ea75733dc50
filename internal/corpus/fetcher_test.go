package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestFindDocumentLinks(t *testing.T) {
	page := `<html><body>
		<a href="/documents/checklist/branch-setup.pdf">Branch Setup Checklist</a>
		<a href="https://assets.adgm.com/download/assets/template.docx/abc123">Resolution Template</a>
		<a href="/documents/checklist/branch-setup.pdf">Duplicate Link</a>
		<a href="/setting-up">Regular page link</a>
	</body></html>`

	root, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	links := findDocumentLinks(root, "https://www.adgm.com/registration")

	t.Run("只收集PDF和Word文档链接", func(t *testing.T) {
		require.Len(t, links, 2)
		assert.Equal(t, KindPDF, links[0].Kind)
		assert.Equal(t, KindDocx, links[1].Kind)
	})

	t.Run("相对链接解析为绝对地址", func(t *testing.T) {
		assert.Equal(t, "https://www.adgm.com/documents/checklist/branch-setup.pdf", links[0].URL)
	})

	t.Run("保留链接文本用于文档类型标注", func(t *testing.T) {
		assert.Equal(t, "Branch Setup Checklist", links[0].Text)
		assert.Equal(t, "Resolution Template", links[1].Text)
	})
}

func TestFileKindFromURL(t *testing.T) {
	t.Run("扩展名在路径中间也能识别", func(t *testing.T) {
		assert.Equal(t, KindDocx, fileKindFromURL("https://assets.adgm.com/download/assets/template.docx/abc123"))
		assert.Equal(t, KindPDF, fileKindFromURL("https://www.adgm.com/documents/checklist.pdf"))
		assert.Equal(t, KindWebpage, fileKindFromURL("https://www.adgm.com/setting-up"))
	})
}

func TestFileNameFromURL(t *testing.T) {
	t.Run("从下载链接中提取带扩展名的路径段", func(t *testing.T) {
		name := fileNameFromURL("https://assets.adgm.com/download/assets/template.docx/abc123", KindDocx)
		assert.Equal(t, "template.docx", name)
	})

	t.Run("网页来源使用html扩展名", func(t *testing.T) {
		name := fileNameFromURL("https://www.adgm.com/setting-up", KindWebpage)
		assert.Equal(t, "setting-up.html", name)
	})

	t.Run("不安全字符被替换", func(t *testing.T) {
		name := fileNameFromURL("https://assets.adgm.com/download/assets/ADGM+Standard+Employment+Contract.docx/xyz", KindDocx)
		assert.NotContains(t, name, "+")
		assert.True(t, strings.HasSuffix(name, ".docx"))
	})
}

func TestStore(t *testing.T) {
	t.Run("保存文本和元数据", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		doc := Document{
			ID:       "doc-1",
			Source:   Source{Category: "Employment", DocType: "Contract 2024", URL: "https://example.com/contract.docx"},
			FileName: "contract.docx",
			FileKind: KindDocx,
			Content:  "This employment contract is made in ADGM.",
		}
		require.NoError(t, store.Add(doc))
		require.NoError(t, store.SaveMetadata())

		text, err := store.LoadText("contract.docx")
		require.NoError(t, err)
		assert.Equal(t, doc.Content, text)

		records, err := store.LoadMetadata()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Employment", records[0].Category)
		assert.Equal(t, "Contract 2024", records[0].DocumentType)
		assert.Equal(t, "contract.docx", records[0].Filename)
		assert.Equal(t, "docx", records[0].FileType)
	})

	t.Run("重新打开时从磁盘恢复语料", func(t *testing.T) {
		dataDir := t.TempDir()

		store, err := NewStore(dataDir)
		require.NoError(t, err)
		require.NoError(t, store.Add(Document{
			Source:   Source{Category: "Compliance", DocType: "Annual Accounts", URL: "https://www.adgm.com/accounts"},
			FileName: "accounts.html",
			FileKind: KindWebpage,
			Content:  "Annual accounts must be filed with the Registrar.",
		}))
		require.NoError(t, store.SaveMetadata())

		reopened, err := NewStore(dataDir)
		require.NoError(t, err)

		docs := reopened.Documents()
		require.Len(t, docs, 1)
		assert.Equal(t, "accounts.html", docs[0].FileName)
		assert.Equal(t, "Annual Accounts", docs[0].Source.DocType)
		assert.Equal(t, "Annual accounts must be filed with the Registrar.", docs[0].Content)
		assert.NotEmpty(t, docs[0].ID)
	})

	t.Run("Reset清空内存记录", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Add(Document{FileName: "a.html", Content: "x"}))

		store.Reset()
		assert.Empty(t, store.Documents())
	})
}
