package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Бэкенды модели
const (
	BackendDNN    = "dnn"
	BackendOllama = "ollama"
	BackendNone   = "none"
)

type Config struct {
	TelegramToken  string         `yaml:"telegram_token"`
	Model          ModelConfig    `yaml:"model"`
	Ollama         OllamaConfig   `yaml:"ollama"`
	Analysis       AnalysisConfig `yaml:"analysis"`
	MaxUploadBytes int64          `yaml:"max_upload_bytes"`
	SamplesDir     string         `yaml:"samples_dir"`
	LogLevel       string         `yaml:"log_level"`
}

type ModelConfig struct {
	Backend      string `yaml:"backend"`
	BaseURL      string `yaml:"base_url"`
	ManifestPath string `yaml:"manifest_path"`
}

type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

type AnalysisConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	FallbackDelayMin time.Duration `yaml:"fallback_delay_min"`
	FallbackDelayMax time.Duration `yaml:"fallback_delay_max"`
	ModelErrorDelay  time.Duration `yaml:"model_error_delay"`
}

// Default возвращает настройки по умолчанию.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Backend:      BackendDNN,
			ManifestPath: "tensorflowjs_model/model.json",
		},
		Ollama: OllamaConfig{
			URL:   "http://127.0.0.1:11434",
			Model: "llava",
		},
		Analysis: AnalysisConfig{
			Timeout:          30 * time.Second,
			FallbackDelayMin: 2 * time.Second,
			FallbackDelayMax: 4 * time.Second,
			ModelErrorDelay:  time.Second,
		},
		MaxUploadBytes: 10 << 20,
		SamplesDir:     "samples",
		LogLevel:       "info",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл (если path не пуст),
// затем переменные окружения, в том числе из .env.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.Model.Backend, "ARGUS_MODEL_BACKEND")
	setString(&c.Model.BaseURL, "ARGUS_MODEL_BASE_URL")
	setString(&c.Model.ManifestPath, "ARGUS_MODEL_PATH")
	setString(&c.Ollama.URL, "OLLAMA_URL")
	setString(&c.Ollama.Model, "OLLAMA_MODEL")
	setString(&c.SamplesDir, "ARGUS_SAMPLES_DIR")
	setString(&c.LogLevel, "ARGUS_LOG_LEVEL")

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.Analysis.Timeout, "ARGUS_ANALYSIS_TIMEOUT"},
		{&c.Analysis.FallbackDelayMin, "ARGUS_FALLBACK_DELAY_MIN"},
		{&c.Analysis.FallbackDelayMax, "ARGUS_FALLBACK_DELAY_MAX"},
		{&c.Analysis.ModelErrorDelay, "ARGUS_MODEL_ERROR_DELAY"},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("ARGUS_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ARGUS_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model.Backend {
	case BackendDNN:
		// Пустой base_url допустим: модель не загрузится, и анализ пойдёт по таблицам
	case BackendOllama:
		if c.Ollama.URL == "" || c.Ollama.Model == "" {
			errs = append(errs, errors.New("ollama url and model are required for ollama backend"))
		}
	case BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown model backend %q", c.Model.Backend))
	}

	a := c.Analysis
	if a.Timeout <= 0 {
		errs = append(errs, errors.New("analysis timeout must be positive"))
	}
	if a.FallbackDelayMin < 0 || a.FallbackDelayMax < a.FallbackDelayMin {
		errs = append(errs, fmt.Errorf("invalid fallback delay range %s..%s", a.FallbackDelayMin, a.FallbackDelayMax))
	}
	if a.ModelErrorDelay < 0 {
		errs = append(errs, errors.New("model error delay must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max upload bytes must be positive"))
	}

	return errors.Join(errs...)
}
