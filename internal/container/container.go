package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"argus-bot/config"
	app "argus-bot/internal/application"
	"argus-bot/internal/domain/port"
	"argus-bot/internal/infrastructure/storage"
	"argus-bot/internal/infrastructure/vision"
)

type Container struct {
	UserService *app.UserService
	Classifier  *app.Classifier
	Demo        *app.DemoService
	Samples     port.SampleStore

	logger *zap.Logger
}

// New собирает сервисы приложения. loadNotifier получает уведомления о загрузке модели,
// notifierFor выдаёт канал уведомлений для конкретного чата.
func New(cfg *config.Config, logger *zap.Logger, loadNotifier port.Notifier, notifierFor app.NotifierFactory) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loader, err := NewLoader(cfg, logger)
	if err != nil {
		return nil, err
	}

	rng := app.NewRandom(0)
	userService := app.NewUserService(storage.NewMemoryUserRepository())
	samples := storage.NewFileSampleStore(cfg.SamplesDir)
	classifier := app.NewClassifier(loader, vision.NewPreprocessor(vision.DefaultImageSize), rng, loadNotifier,
		logger.Named("classifier"))

	demoCfg := app.DemoConfig{
		Timeout:          cfg.Analysis.Timeout,
		FallbackDelayMin: cfg.Analysis.FallbackDelayMin,
		FallbackDelayMax: cfg.Analysis.FallbackDelayMax,
		ModelErrorDelay:  cfg.Analysis.ModelErrorDelay,
	}
	demo := app.NewDemoService(userService, classifier, samples, notifierFor, rng, demoCfg,
		cfg.MaxUploadBytes, logger.Named("demo"))

	return &Container{
		UserService: userService,
		Classifier:  classifier,
		Demo:        demo,
		Samples:     samples,
		logger:      logger,
	}, nil
}

// NewLoader выбирает загрузчик модели по настройке backend.
func NewLoader(cfg *config.Config, logger *zap.Logger) (port.ModelLoader, error) {
	switch cfg.Model.Backend {
	case config.BackendDNN:
		if cfg.Model.BaseURL == "" {
			logger.Warn("model base url is not configured, using fallback analysis only")
			return vision.DisabledLoader{Err: fmt.Errorf("%w: model base url is not configured", vision.ErrModelUnavailable)}, nil
		}
		fetcher, err := vision.NewArtifactFetcher(cfg.Model.BaseURL, cfg.Model.ManifestPath, nil, logger.Named("fetch"))
		if err != nil {
			return nil, err
		}
		return vision.NewDNNLoader(fetcher, logger.Named("dnn")), nil
	case config.BackendOllama:
		return vision.NewOllamaLoader(cfg.Ollama.URL, cfg.Ollama.Model, logger.Named("ollama"))
	case config.BackendNone:
		return vision.DisabledLoader{}, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Model.Backend)
	}
}

// Start запускает фоновую загрузку модели.
func (c *Container) Start(ctx context.Context) {
	c.Classifier.Start(ctx)
}

// Close освобождает модель.
func (c *Container) Close() error {
	if err := c.Classifier.Close(); err != nil {
		c.logger.Warn("failed to close model", zap.Error(err))
		return err
	}
	return nil
}
