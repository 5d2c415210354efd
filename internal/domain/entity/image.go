package entity

import "image"

// HintUploaded — подсказка для изображения, которое прислал сам пользователь.
const HintUploaded = "uploaded"

// ImageRef — текущее изображение демо.
type ImageRef struct {
	Hint        string // HintUploaded или идентификатор образца
	Name        string
	ContentType string
	Data        []byte // может быть пустым у образцов без файла
}

// HasData сообщает, есть ли байты для нейросети.
func (r ImageRef) HasData() bool {
	return len(r.Data) > 0
}

// Tensor — вход модели в раскладке NHWC с батчем 1, значения в [0,1].
type Tensor struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
	Image    image.Image // уменьшенное изображение, из которого собран тензор

	release  func(*Tensor)
	released bool
}

// NewTensor оборачивает буфер; release вызывается один раз при Release.
func NewTensor(height, width, channels int, data []float32, img image.Image, release func(*Tensor)) *Tensor {
	return &Tensor{
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     data,
		Image:    img,
		release:  release,
	}
}

// Shape возвращает форму тензора [1, H, W, C].
func (t *Tensor) Shape() []int {
	return []int{1, t.Height, t.Width, t.Channels}
}

// Release возвращает буфер владельцу. Повторный вызов ничего не делает.
func (t *Tensor) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	if t.release != nil {
		t.release(t)
	}
	t.Data = nil
	t.Image = nil
}
