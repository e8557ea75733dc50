package model

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`               // 业务状态码
	Message string      `json:"message"`            // 响应描述
	Data    interface{} `json:"data,omitempty"`     // 响应数据
	TraceID string      `json:"trace_id,omitempty"` // 请求追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}, traceID string) Response {
	return Response{
		Code:    0,
		Message: "success",
		Data:    data,
		TraceID: traceID,
	}
}

// NewErrorResponse 创建失败响应
func NewErrorResponse(code int, message string, traceID string) Response {
	return Response{
		Code:    code,
		Message: message,
		TraceID: traceID,
	}
}

// QueryResponse 知识库问答响应
type QueryResponse struct {
	Question string `json:"question"` // 原始问题
	Answer   string `json:"answer"`   // 回答内容（含来源列表）
}

// RebuildResponse 索引重建响应
type RebuildResponse struct {
	TaskID string `json:"task_id,omitempty"` // 后台任务ID（队列模式）
	Status string `json:"status"`            // 任务状态
}

// CorpusStatusResponse 语料和索引状态响应
type CorpusStatusResponse struct {
	Ready        bool `json:"ready"`         // 索引是否可用
	IndexEntries int  `json:"index_entries"` // 索引条目数
	Documents    int  `json:"documents"`     // 语料文档数
}
