package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// DefaultOllamaModel — мультимодальная модель по умолчанию.
const DefaultOllamaModel = "llava"

// chatClient — часть api.Client, которая нужна модели.
type chatClient interface {
	Heartbeat(ctx context.Context) error
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaLoader подключается к Ollama и проверяет, что сервер отвечает.
type OllamaLoader struct {
	client chatClient
	model  string
	logger *zap.Logger
}

// NewOllamaLoader создаёт загрузчик для сервера Ollama.
func NewOllamaLoader(serverURL, model string, logger *zap.Logger) (*OllamaLoader, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	// Путь вроде /api/chat отбрасываем, клиенту нужен только хост
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	if model == "" {
		model = DefaultOllamaModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaLoader{
		client: api.NewClient(base, &http.Client{Timeout: 5 * time.Minute}),
		model:  model,
		logger: logger,
	}, nil
}

// Load проверяет доступность сервера.
func (l *OllamaLoader) Load(ctx context.Context) (port.InjuryModel, error) {
	if err := l.client.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("%w: ollama heartbeat: %v", ErrModelUnavailable, err)
	}
	l.logger.Info("ollama backend ready", zap.String("model", l.model))
	return &OllamaModel{client: l.client, model: l.model, labels: entity.ModelLabels()}, nil
}

// OllamaModel классифицирует изображение мультимодальной LLM.
type OllamaModel struct {
	client chatClient
	model  string
	labels []entity.Category
}

type ollamaAnswer struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Predict спрашивает модель о классе и раскладывает ответ в вектор вероятностей.
func (m *OllamaModel) Predict(ctx context.Context, input *entity.Tensor) ([]float32, error) {
	if input == nil || input.Image == nil {
		return nil, errors.New("empty input image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, input.Image, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: m.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: m.prompt(),
				Images:  []api.ImageData{api.ImageData(buf.Bytes())},
			},
		},
		Stream: &streamFalse,
		Format: json.RawMessage(`"json"`),
		Options: map[string]any{
			"temperature": 0,
		},
	}

	var content string
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}

	return m.parse(content)
}

// Close ничего не делает: соединение держит http.Client.
func (m *OllamaModel) Close() error { return nil }

func (m *OllamaModel) prompt() string {
	names := make([]string, len(m.labels))
	for i, c := range m.labels {
		names[i] = c.String()
	}
	return "Classify the injury visible in this image. " +
		"Answer with JSON only: {\"label\": <one of " + strings.Join(names, ", ") + ">, " +
		"\"confidence\": <number between 0 and 1>}."
}

func (m *OllamaModel) parse(content string) ([]float32, error) {
	content = strings.TrimSpace(content)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var answer ollamaAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("parse ollama answer: %w", err)
	}

	category, ok := entity.ParseCategory(answer.Label)
	if !ok {
		return nil, fmt.Errorf("ollama returned unknown label %q", answer.Label)
	}
	idx := -1
	for i, c := range m.labels {
		if c == category {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("label %q is not produced by the model", answer.Label)
	}

	conf := answer.Confidence
	if conf <= 0 || conf > 1 {
		conf = 1
	}
	rest := float32(0)
	if len(m.labels) > 1 {
		rest = float32((1 - conf) / float64(len(m.labels)-1))
	}
	if rest >= float32(conf) {
		// Выбранная метка должна остаться argmax
		rest = float32(conf) / float32(len(m.labels))
	}

	probs := make([]float32, len(m.labels))
	for i := range probs {
		probs[i] = rest
	}
	probs[idx] = float32(conf)
	return probs, nil
}
