package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"argus-bot/internal/domain/entity"
)

// DefaultManifestPath — путь к манифесту модели относительно базового URL.
const DefaultManifestPath = "tensorflowjs_model/model.json"

const defaultMaxArtifactBytes = 256 << 20

// ErrModelUnavailable — артефакт модели не удалось скачать или разобрать.
var ErrModelUnavailable = errors.New("model artifact unavailable")

// ArtifactFetcher скачивает манифест модели и файлы весов обычным HTTP GET.
type ArtifactFetcher struct {
	baseURL      *url.URL
	manifestPath string
	client       *http.Client
	maxBytes     int64
	logger       *zap.Logger
}

// NewArtifactFetcher создаёт загрузчик артефакта.
func NewArtifactFetcher(baseURL, manifestPath string, client *http.Client, logger *zap.Logger) (*ArtifactFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid model base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported model URL scheme: %q (only http and https are supported)", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		// Базовый URL всегда каталог
		base.Path += "/"
	}
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactFetcher{
		baseURL:      base,
		manifestPath: manifestPath,
		client:       client,
		maxBytes:     defaultMaxArtifactBytes,
		logger:       logger,
	}, nil
}

// ManifestURL возвращает полный адрес model.json.
func (f *ArtifactFetcher) ManifestURL() string {
	return f.resolve(f.baseURL, f.manifestPath).String()
}

// Fetch скачивает манифест и все файлы весов. Файлы весов склеиваются по порядку.
func (f *ArtifactFetcher) Fetch(ctx context.Context) (*entity.ModelArtifact, error) {
	manifestURL := f.resolve(f.baseURL, f.manifestPath)
	f.logger.Info("fetching model manifest", zap.String("url", manifestURL.String()))

	raw, err := f.get(ctx, manifestURL)
	if err != nil {
		return nil, err
	}

	var manifest entity.ModelManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %v", ErrModelUnavailable, err)
	}
	if manifest.Format == "" {
		return nil, fmt.Errorf("%w: manifest has no format", ErrModelUnavailable)
	}

	var weights []byte
	for _, group := range manifest.WeightsManifest {
		for _, p := range group.Paths {
			shardURL := f.resolve(manifestURL, p)
			shard, err := f.get(ctx, shardURL)
			if err != nil {
				return nil, err
			}
			f.logger.Debug("fetched weight shard",
				zap.String("url", shardURL.String()),
				zap.Int("bytes", len(shard)))
			weights = append(weights, shard...)
		}
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no weights", ErrModelUnavailable)
	}

	return &entity.ModelArtifact{Manifest: manifest, Weights: weights}, nil
}

func (f *ArtifactFetcher) resolve(base *url.URL, ref string) *url.URL {
	u, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return base.ResolveReference(u)
}

func (f *ArtifactFetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrModelUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrModelUnavailable, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: HTTP %d %s", ErrModelUnavailable, u, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelUnavailable, u, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrModelUnavailable, u, f.maxBytes)
	}
	return data, nil
}
