package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// sequenceRandom по кругу отдаёт заранее заданные значения.
type sequenceRandom struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func newSequenceRandom(values ...int) *sequenceRandom {
	return &sequenceRandom{values: values}
}

func (r *sequenceRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 || n <= 0 {
		return 0
	}
	v := r.values[r.pos%len(r.values)]
	r.pos++
	return v % n
}

type fakeModel struct {
	predict func(ctx context.Context, input *entity.Tensor) ([]float32, error)
	closed  bool
}

func (m *fakeModel) Predict(ctx context.Context, input *entity.Tensor) ([]float32, error) {
	return m.predict(ctx, input)
}

func (m *fakeModel) Close() error {
	m.closed = true
	return nil
}

type fakeLoader struct {
	model port.InjuryModel
	err   error
	calls int
}

func (l *fakeLoader) Load(ctx context.Context) (port.InjuryModel, error) {
	l.calls++
	return l.model, l.err
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []entity.Notification
}

func (n *recordingNotifier) Notify(message string, level entity.Level) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, entity.Notification{Message: message, Level: level})
}

func (n *recordingNotifier) all() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.items...)
}

func (n *recordingNotifier) has(message string, level entity.Level) bool {
	for _, item := range n.all() {
		if item.Message == message && item.Level == level {
			return true
		}
	}
	return false
}

// stubClassifier отвечает заданной функцией, блокировки управляются тестом.
type stubClassifier struct {
	classify func(ctx context.Context, data []byte) (entity.InjuryRecord, error)
}

func (s stubClassifier) Classify(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
	return s.classify(ctx, data)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func labelIndex(t *testing.T, c entity.Category) int {
	t.Helper()
	for i, label := range entity.ModelLabels() {
		if label == c {
			return i
		}
	}
	t.Fatalf("category %v is not a model label", c)
	return -1
}

func scoresFor(t *testing.T, c entity.Category, top float32) []float32 {
	t.Helper()
	labels := entity.ModelLabels()
	out := make([]float32, len(labels))
	rest := (1 - top) / float32(len(labels)-1)
	for i := range out {
		out[i] = rest
	}
	out[labelIndex(t, c)] = top
	return out
}

func quickConfig() DemoConfig {
	return DemoConfig{Timeout: 5 * time.Second}
}
