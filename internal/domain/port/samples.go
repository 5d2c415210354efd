package port

import "context"

// SampleStore отдаёт файлы подготовленных образцов
type SampleStore interface {
	// Load возвращает байты и MIME-тип образца; nil без ошибки, если файла нет
	Load(ctx context.Context, id string) ([]byte, string, error)
}
