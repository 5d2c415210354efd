package app

import (
	"math/rand"
	"sync"
	"time"
)

// Random — источник случайности для выбора тяжести, части тела и класса.
// В тестах подменяется детерминированной последовательностью.
type Random interface {
	Intn(n int) int
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom создаёт потокобезопасный генератор. seed == 0 — от текущего времени.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRandom{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// randomDuration возвращает длительность в [min, max] с шагом в миллисекунду.
func randomDuration(rng Random, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := int((max - min) / time.Millisecond)
	return min + time.Duration(rng.Intn(span+1))*time.Millisecond
}
