package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage 本地文件系统存储
// 文件按日期目录组织，文件名带上ID前缀避免冲突
type LocalStorage struct {
	basePath string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./data/files"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save 保存文件到本地存储
func (s *LocalStorage) Save(ctx context.Context, reader io.Reader, filename string) (*FileInfo, error) {
	id := uuid.New().String()
	now := time.Now()

	// 按日期组织目录
	dateDir := now.Format("2006/01/02")
	dir := filepath.Join(s.basePath, dateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create date directory: %v", err)
	}

	path := filepath.Join(dir, id+"_"+filepath.Base(filename))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %v", err)
	}

	return &FileInfo{
		ID:         id,
		Name:       filepath.Base(filename),
		Size:       size,
		Path:       path,
		UploadTime: now,
	}, nil
}

// Get 根据文件ID获取文件
func (s *LocalStorage) Get(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	path, err := s.findFilePathByID(id)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %v", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %v", err)
	}

	name := strings.TrimPrefix(filepath.Base(path), id+"_")
	return file, &FileInfo{
		ID:         id,
		Name:       name,
		Size:       stat.Size(),
		Path:       path,
		UploadTime: stat.ModTime(),
	}, nil
}

// Delete 根据文件ID删除文件
func (s *LocalStorage) Delete(ctx context.Context, id string) error {
	path, err := s.findFilePathByID(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// findFilePathByID 遍历存储目录查找指定ID的文件
func (s *LocalStorage) findFilePathByID(id string) (string, error) {
	var found string

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), id+"_") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search storage directory: %v", err)
	}

	if found == "" {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return found, nil
}
