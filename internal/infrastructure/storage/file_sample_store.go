package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// FileSampleStore читает файлы образцов из каталога.
type FileSampleStore struct {
	dir string
}

// NewFileSampleStore создаёт хранилище. Пустой dir означает, что файлов нет.
func NewFileSampleStore(dir string) *FileSampleStore {
	return &FileSampleStore{dir: dir}
}

// Load возвращает байты образца и его MIME-тип. Отсутствующий файл не ошибка.
func (s *FileSampleStore) Load(ctx context.Context, id string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if s.dir == "" {
		return nil, "", nil
	}
	if id == "" || filepath.Base(id) != id || id == "." || id == ".." {
		return nil, "", fmt.Errorf("invalid sample id %q", id)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read sample %s: %w", id, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
