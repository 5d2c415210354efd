package vision

import (
	"sync"
	"sync/atomic"

	"argus-bot/internal/domain/entity"
)

// TensorPool переиспользует буферы тензоров одного размера и считает выданные.
type TensorPool struct {
	length      int
	pool        sync.Pool
	outstanding atomic.Int64
}

// NewTensorPool создаёт пул буферов длиной height*width*channels.
func NewTensorPool(height, width, channels int) *TensorPool {
	length := height * width * channels
	p := &TensorPool{length: length}
	p.pool.New = func() any {
		buf := make([]float32, length)
		return &buf
	}
	return p
}

func (p *TensorPool) get() []float32 {
	p.outstanding.Add(1)
	buf := p.pool.Get().(*[]float32)
	return (*buf)[:p.length]
}

func (p *TensorPool) put(t *entity.Tensor) {
	if t.Data != nil && cap(t.Data) >= p.length {
		buf := t.Data[:p.length]
		p.pool.Put(&buf)
	}
	p.outstanding.Add(-1)
}

// Outstanding возвращает число тензоров, которые ещё не освобождены.
func (p *TensorPool) Outstanding() int64 {
	return p.outstanding.Load()
}
