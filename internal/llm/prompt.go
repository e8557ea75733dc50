package llm

import (
	"context"
	"strings"
)

// NotReadyAnswer 知识库尚未就绪时返回的固定回答
const NotReadyAnswer = "RAG system not fully initialized. Please ensure the vector database is properly built."

// ComplianceRAGTemplate ADGM合规问答的提示词模板
// {{.Context}}和{{.Question}}为占位符，由RAGService填充
const ComplianceRAGTemplate = `You are an expert on ADGM (Abu Dhabi Global Market) regulations and compliance requirements.
Answer the question based on the following excerpts from official ADGM documents and templates.
If the context does not contain enough information, say so rather than guessing.

Context:
{{.Context}}

Question: {{.Question}}

Answer:`

// RAGService 检索增强问答服务
// 将检索到的语料片段和用户问题组装为提示词后交给LLM生成回答
type RAGService struct {
	client   Client
	template string
}

// NewRAGService 创建检索增强问答服务
func NewRAGService(client Client) *RAGService {
	return &RAGService{
		client:   client,
		template: ComplianceRAGTemplate,
	}
}

// WithTemplate 替换提示词模板
// 模板需要包含{{.Context}}和{{.Question}}占位符
func (s *RAGService) WithTemplate(template string) *RAGService {
	s.template = template
	return s
}

// Answer 根据检索到的上下文片段回答问题
func (s *RAGService) Answer(ctx context.Context, question string, contexts []string) (string, error) {
	prompt := s.BuildPrompt(question, contexts)

	answer, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// BuildPrompt 组装提示词
func (s *RAGService) BuildPrompt(question string, contexts []string) string {
	contextText := strings.Join(contexts, "\n\n---\n\n")

	prompt := strings.ReplaceAll(s.template, "{{.Context}}", contextText)
	prompt = strings.ReplaceAll(prompt, "{{.Question}}", question)
	return prompt
}
