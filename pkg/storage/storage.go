package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// FileInfo 存储文件的元信息
type FileInfo struct {
	ID         string    `json:"id"`          // 文件唯一标识符
	Name       string    `json:"name"`        // 原始文件名
	Size       int64     `json:"size"`        // 文件大小（字节）
	Path       string    `json:"path"`        // 存储路径或对象键
	UploadTime time.Time `json:"upload_time"` // 上传时间
}

// Storage 文件存储接口
// 保存上传的审查文件和抓取到的语料原始文件
type Storage interface {
	// Save 保存文件，返回文件元信息
	Save(ctx context.Context, reader io.Reader, filename string) (*FileInfo, error)

	// Get 根据文件ID获取文件内容和元信息
	Get(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error)

	// Delete 根据文件ID删除文件
	Delete(ctx context.Context, id string) error
}

// Config 存储配置
type Config struct {
	Type      string // 存储类型："local"或"minio"
	Path      string // 本地存储根目录
	Bucket    string // MinIO桶名
	Endpoint  string // MinIO服务地址
	AccessKey string // MinIO访问密钥
	SecretKey string // MinIO私有密钥
	UseSSL    bool   // 是否使用SSL连接MinIO
}

// NewStorage 根据配置创建存储实例
func NewStorage(config Config) (Storage, error) {
	switch config.Type {
	case "local", "":
		return NewLocalStorage(config.Path)
	case "minio":
		return NewMinioStorage(config)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Type)
	}
}
