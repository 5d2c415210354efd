//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// Load скачивает артефакт и читает его в gocv.Net.
func (l *DNNLoader) Load(ctx context.Context) (port.InjuryModel, error) {
	artifact, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkManifest(artifact.Manifest, DefaultImageSize); err != nil {
		return nil, err
	}

	framework, _ := dnnFramework(artifact.Manifest.Format)
	net, err := gocv.ReadNetBytes(framework, artifact.Weights, nil)
	if err != nil {
		return nil, fmt.Errorf("read %s net: %w", framework, err)
	}
	if net.Empty() {
		net.Close()
		return nil, errors.New("read net: empty network")
	}

	l.logger.Info("model loaded",
		zap.String("framework", framework),
		zap.String("input", inputName(artifact.Manifest)),
		zap.Int("weights_bytes", len(artifact.Weights)))

	return &dnnModel{net: net, input: inputName(artifact.Manifest)}, nil
}

type dnnModel struct {
	mu    sync.Mutex
	net   gocv.Net
	input string
}

// Predict прогоняет тензор через сеть. Все промежуточные Mat закрываются до выхода.
func (m *dnnModel) Predict(ctx context.Context, input *entity.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil || len(input.Data) == 0 {
		return nil, errors.New("empty input tensor")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&input.Data[0])), len(input.Data)*4)
	img, err := gocv.NewMatFromBytes(input.Height, input.Width, gocv.MatTypeCV32FC3, raw)
	if err != nil {
		return nil, fmt.Errorf("tensor to mat: %w", err)
	}
	defer img.Close()

	blob := gocv.BlobFromImage(img, 1.0, image.Pt(input.Width, input.Height), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	m.net.SetInput(blob, m.input)
	prob := m.net.Forward("")
	defer prob.Close()

	if prob.Empty() {
		return nil, errors.New("forward: empty output")
	}

	values, err := prob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	// Память Mat освобождается в defer, поэтому копируем
	out := make([]float32, len(values))
	copy(out, values)
	return out, nil
}

func (m *dnnModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.Close()
}
