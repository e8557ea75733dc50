package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyProcessHeuristic(t *testing.T) {
	t.Run("公司设立文档识别为Company Incorporation", func(t *testing.T) {
		match := IdentifyProcessHeuristic([]string{
			TypeArticlesOfAssociation,
			TypeMemorandum,
			TypeBoardResolution,
		})

		assert.Equal(t, ProcessCompanyIncorporation, match.Process)
		assert.Equal(t, heuristicRequiredDocs[ProcessCompanyIncorporation], match.RequiredDocs)
		assert.InDelta(t, 0.666, match.Confidence, 0.01)
	})

	t.Run("单份雇佣合同识别为Employment Setup", func(t *testing.T) {
		match := IdentifyProcessHeuristic([]string{TypeEmploymentContract})

		assert.Equal(t, ProcessEmploymentSetup, match.Process)
		assert.Equal(t, 0.7, match.Confidence)
	})

	t.Run("得分相同取先出现的流程", func(t *testing.T) {
		// Board Resolution同时命中Corporate Governance Update指示词，
		// 但Company Incorporation在遍历顺序中更靠前且得分相同
		match := IdentifyProcessHeuristic([]string{
			TypeArticlesOfAssociation,
		})
		assert.Equal(t, ProcessCompanyIncorporation, match.Process)
	})

	t.Run("无法识别时返回Unknown", func(t *testing.T) {
		match := IdentifyProcessHeuristic([]string{"Random Notes"})
		assert.Equal(t, ProcessUnknown, match.Process)
		assert.Equal(t, 0.0, match.Confidence)
	})

	t.Run("置信度上限为0.7", func(t *testing.T) {
		match := IdentifyProcessHeuristic([]string{
			TypeEmploymentContract,
			TypeEmploymentContract,
		})
		assert.Equal(t, 0.7, match.Confidence)
	})
}

func TestIdentifyProcessRAG(t *testing.T) {
	t.Run("知识库回答中解析流程和文档清单", func(t *testing.T) {
		engine := &fakeEngine{answer: `These documents relate to the Company Incorporation process.
Required documents: Articles of Association, Memorandum of Association, Board Resolution, UBO Declaration

The application is submitted to the ADGM Registration Authority.`}
		a := NewAnalyzer(engine, nil)

		match := a.IdentifyProcess(context.Background(), []string{
			TypeArticlesOfAssociation,
			TypeBoardResolution,
		})

		assert.Equal(t, ProcessCompanyIncorporation, match.Process)
		require.Len(t, match.RequiredDocs, 4)
		assert.Contains(t, match.RequiredDocs, "Articles of Association")
		// 4份必备文档中上传了2份：2/4 + 0.3 = 0.8
		assert.InDelta(t, 0.8, match.Confidence, 0.001)
	})

	t.Run("回答中没有文档清单时使用兜底清单", func(t *testing.T) {
		engine := &fakeEngine{answer: "This is the Employment Setup process in ADGM."}
		a := NewAnalyzer(engine, nil)

		match := a.IdentifyProcess(context.Background(), []string{TypeEmploymentContract})

		assert.Equal(t, ProcessEmploymentSetup, match.Process)
		assert.Equal(t, []string{TypeEmploymentContract}, match.RequiredDocs)
		// 1/1 + 0.3超出上限，钳制到0.9
		assert.InDelta(t, 0.9, match.Confidence, 0.001)
	})

	t.Run("知识库失败时回退到启发式", func(t *testing.T) {
		engine := &fakeEngine{err: assert.AnError}
		a := NewAnalyzer(engine, nil)

		match := a.IdentifyProcess(context.Background(), []string{TypeEmploymentContract})
		assert.Equal(t, ProcessEmploymentSetup, match.Process)
		assert.Equal(t, 0.7, match.Confidence)
	})
}

func TestExtractRequiredDocs(t *testing.T) {
	t.Run("解析逗号分隔的文档清单", func(t *testing.T) {
		answer := "Required documents: Articles of Association, Memorandum of Association, UBO Declaration\n\nOther notes."
		docs := extractRequiredDocs(answer)

		require.Len(t, docs, 3)
		assert.Equal(t, "Articles of Association", docs[0])
	})

	t.Run("过滤过短的清单项", func(t *testing.T) {
		answer := "Necessary documents: Articles of Association, AoA, x\n\n"
		docs := extractRequiredDocs(answer)

		require.Len(t, docs, 1)
	})

	t.Run("没有清单时返回空", func(t *testing.T) {
		assert.Nil(t, extractRequiredDocs("No list here."))
	})
}

func TestMissingDocuments(t *testing.T) {
	t.Run("返回未上传的必备文档", func(t *testing.T) {
		required := []string{
			TypeArticlesOfAssociation,
			TypeMemorandum,
			TypeBoardResolution,
		}
		uploaded := []string{TypeArticlesOfAssociation, TypeBoardResolution}

		missing := MissingDocuments(required, uploaded)
		assert.Equal(t, []string{TypeMemorandum}, missing)
	})

	t.Run("双向子串匹配容忍措辞差异", func(t *testing.T) {
		required := []string{"Articles of Association"}
		uploaded := []string{"articles of association of example ltd"}

		assert.Empty(t, MissingDocuments(required, uploaded))
	})

	t.Run("全部缺失", func(t *testing.T) {
		missing := MissingDocuments([]string{TypeUBODeclaration}, nil)
		assert.Equal(t, []string{TypeUBODeclaration}, missing)
	})
}
