package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage 基于MinIO的对象存储
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage 创建MinIO存储
// 桶不存在时自动创建
func NewMinioStorage(config Config) (*MinioStorage, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %v", err)
		}
	}

	return &MinioStorage{
		client: client,
		bucket: config.Bucket,
	}, nil
}

// Save 保存文件到对象存储
func (s *MinioStorage) Save(ctx context.Context, reader io.Reader, filename string) (*FileInfo, error) {
	id := uuid.New().String()
	now := time.Now()

	objectKey := fmt.Sprintf("%s/%s_%s", now.Format("2006/01/02"), id, filepath.Base(filename))

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, -1, minio.PutObjectOptions{
		UserMetadata: map[string]string{"original-name": filepath.Base(filename)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %v", err)
	}

	return &FileInfo{
		ID:         id,
		Name:       filepath.Base(filename),
		Size:       info.Size,
		Path:       objectKey,
		UploadTime: now,
	}, nil
}

// Get 根据文件ID获取文件
func (s *MinioStorage) Get(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	objectKey, err := s.findObjectKeyByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	object, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object: %v", err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, nil, fmt.Errorf("failed to stat object: %v", err)
	}

	name := stat.UserMetadata["Original-Name"]
	if name == "" {
		name = filepath.Base(objectKey)
	}

	return object, &FileInfo{
		ID:         id,
		Name:       name,
		Size:       stat.Size,
		Path:       objectKey,
		UploadTime: stat.LastModified,
	}, nil
}

// Delete 根据文件ID删除文件
func (s *MinioStorage) Delete(ctx context.Context, id string) error {
	objectKey, err := s.findObjectKeyByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

// findObjectKeyByID 遍历桶查找指定ID的对象
func (s *MinioStorage) findObjectKeyByID(ctx context.Context, id string) (string, error) {
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return "", fmt.Errorf("failed to list objects: %v", object.Err)
		}
		base := filepath.Base(object.Key)
		if len(base) > len(id) && base[:len(id)+1] == id+"_" {
			return object.Key, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", id)
}
