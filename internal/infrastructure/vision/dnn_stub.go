//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"argus-bot/internal/domain/port"
)

// Load скачивает и проверяет артефакт, но без тега gocv запустить его нечем.
func (l *DNNLoader) Load(ctx context.Context) (port.InjuryModel, error) {
	artifact, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkManifest(artifact.Manifest, DefaultImageSize); err != nil {
		return nil, err
	}

	l.logger.Warn("model artifact fetched but OpenCV runtime is not compiled in",
		zap.String("format", artifact.Manifest.Format),
		zap.Int("weights_bytes", len(artifact.Weights)))
	return nil, fmt.Errorf("load model: %w", ErrRuntimeUnavailable)
}
