package port

import (
	"context"
	"image"

	"argus-bot/internal/domain/entity"
)

// InjuryModel интерфейс загруженной модели классификации
type InjuryModel interface {
	// Predict выполняет один прямой проход и возвращает вероятности по классам модели
	Predict(ctx context.Context, input *entity.Tensor) ([]float32, error)

	// Close освобождает ресурсы модели
	Close() error
}

// ModelLoader загружает модель один раз при старте
type ModelLoader interface {
	Load(ctx context.Context) (InjuryModel, error)
}

// ImagePreprocessor превращает байты изображения во вход модели
type ImagePreprocessor interface {
	// Decode декодирует изображение
	Decode(data []byte) (image.Image, error)

	// Tensor масштабирует и нормализует изображение; тензор нужно освободить через Release
	Tensor(img image.Image) (*entity.Tensor, error)
}
