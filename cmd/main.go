package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"argus-bot/config"
)

var (
	verbose    bool
	configPath string

	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "Injury assessment demo: Telegram bot and CLI",
	Long: `Injury assessment demo: Telegram bot and CLI.

Model backend (ARGUS_MODEL_BACKEND):
  dnn     OpenCV DNN, needs a build with -tags gocv. ARGUS_MODEL_BASE_URL points at a
          directory with ARGUS_MODEL_PATH (default tensorflowjs_model/model.json) and
          its weight shards. The manifest format must be "onnx" or "tensorflow"
          (frozen graph): a TensorFlow.js graph-model export cannot be executed, so
          convert it to ONNX or a frozen graph first, or use the ollama backend.
  ollama  multimodal model served by Ollama (OLLAMA_URL, OLLAMA_MODEL).
  none    reference tables only.

If the model cannot be loaded, analysis continues with the reference tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		cfg.Level = logLevel

		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// loadConfig читает конфигурацию и применяет из неё уровень логирования.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !verbose && cfg.LogLevel != "" {
		if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(samplesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
