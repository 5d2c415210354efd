package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

const (
	DefaultImageSize = 299 // сторона входа модели
	Channels         = 3
)

var (
	ErrEmptyImage    = errors.New("empty image")
	ErrUnknownFormat = errors.New("image: unknown or unsupported format")
)

// Preprocessor декодирует изображения и собирает из них тензоры для модели.
type Preprocessor struct {
	size int
	pool *TensorPool
}

// NewPreprocessor создаёт препроцессор под квадратный вход size x size.
func NewPreprocessor(size int) *Preprocessor {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &Preprocessor{
		size: size,
		pool: NewTensorPool(size, size, Channels),
	}
}

// Size возвращает сторону входа модели.
func (p *Preprocessor) Size() int { return p.size }

// Pool возвращает пул тензоров (нужен для проверки утечек).
func (p *Preprocessor) Pool() *TensorPool { return p.pool }

// Decode декодирует jpeg/png/gif/bmp/webp с учётом EXIF-ориентации.
func (p *Preprocessor) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// Запасной путь для webp, который не распознал стандартный декодер
		if img, err = webp.Decode(bytes.NewReader(data)); err != nil {
			return nil, ErrUnknownFormat
		}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// Tensor масштабирует изображение билинейно до size x size и переводит RGB в [0,1].
// Вызывающий обязан освободить тензор через Release.
func (p *Preprocessor) Tensor(img image.Image) (*entity.Tensor, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	resized := imaging.Resize(img, p.size, p.size, imaging.Linear)
	if resized.Bounds().Dx() != p.size || resized.Bounds().Dy() != p.size {
		return nil, fmt.Errorf("resize: got %dx%d, want %dx%d",
			resized.Bounds().Dx(), resized.Bounds().Dy(), p.size, p.size)
	}

	data := p.pool.get()
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			src := resized.PixOffset(x, y)
			dst := (y*p.size + x) * Channels
			data[dst] = float32(resized.Pix[src]) / 255
			data[dst+1] = float32(resized.Pix[src+1]) / 255
			data[dst+2] = float32(resized.Pix[src+2]) / 255
		}
	}

	return entity.NewTensor(p.size, p.size, Channels, data, resized, p.pool.put), nil
}

var _ port.ImagePreprocessor = (*Preprocessor)(nil)
