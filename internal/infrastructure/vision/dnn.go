package vision

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"argus-bot/internal/domain/entity"
)

// DefaultInputName — имя входного тензора экспортированной модели.
const DefaultInputName = "conv2d_input"

var (
	ErrUnsupportedFormat  = errors.New("unsupported model format")
	ErrRuntimeUnavailable = errors.New("gocv build tag is not enabled")
)

// DNNLoader скачивает артефакт и поднимает модель в OpenCV DNN.
// Load реализован в dnn_gocv.go (тег gocv) и dnn_stub.go.
type DNNLoader struct {
	fetcher *ArtifactFetcher
	logger  *zap.Logger
}

// NewDNNLoader создаёт загрузчик модели для OpenCV DNN.
func NewDNNLoader(fetcher *ArtifactFetcher, logger *zap.Logger) *DNNLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DNNLoader{fetcher: fetcher, logger: logger}
}

// dnnFramework сопоставляет формат манифеста и фреймворк OpenCV.
func dnnFramework(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "onnx":
		return "onnx", nil
	case "tensorflow", "frozen-graph":
		return "tensorflow", nil
	default:
		// graph-model и layers-model из tfjs OpenCV читать не умеет
		return "", fmt.Errorf("%w: %q, export the model to ONNX or a frozen TensorFlow graph", ErrUnsupportedFormat, format)
	}
}

// checkManifest проверяет, что модель совместима с набором классов и размером входа.
func checkManifest(m entity.ModelManifest, size int) error {
	if _, err := dnnFramework(m.Format); err != nil {
		return err
	}

	meta := m.UserDefinedMetadata
	if meta.ImageSize != 0 && meta.ImageSize != size {
		return fmt.Errorf("model expects %dx%d input, preprocessor produces %dx%d", meta.ImageSize, meta.ImageSize, size, size)
	}
	if len(meta.Classes) == 0 {
		return nil
	}

	labels := entity.ModelLabels()
	if len(meta.Classes) != len(labels) {
		return fmt.Errorf("model has %d classes, expected %d", len(meta.Classes), len(labels))
	}
	for i, name := range meta.Classes {
		c, ok := entity.ParseCategory(name)
		if !ok || c != labels[i] {
			return fmt.Errorf("model class %d is %q, expected %q", i, name, labels[i])
		}
	}
	return nil
}

func inputName(m entity.ModelManifest) string {
	if m.UserDefinedMetadata.InputName != "" {
		return m.UserDefinedMetadata.InputName
	}
	return DefaultInputName
}
