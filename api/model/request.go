package model

// QueryRequest 知识库问答请求
type QueryRequest struct {
	Question string `json:"question" binding:"required"` // 用户问题
}

// RebuildRequest 索引重建请求
type RebuildRequest struct {
	IngestCorpus bool   `json:"ingest_corpus"` // 是否先重新抓取语料
	Reason       string `json:"reason"`        // 触发原因，用于任务追踪
}

// ListRequest 分页查询参数
type ListRequest struct {
	Limit  int `form:"limit,default=20"` // 每页数量
	Offset int `form:"offset,default=0"` // 偏移量
}
