package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

const (
	msgNoImage    = "Please upload an image or select a sample image first."
	msgInProgress = "Analysis already in progress..."
	msgTimedOut   = "Analysis timed out - please try again"
	msgReset      = "Demo reset successfully."
	msgModelError = "AI Model Error: "
	msgDetected   = "Injury detected: "
)

// ImageClassifier — то, что умеет классифицировать байты изображения.
type ImageClassifier interface {
	Classify(ctx context.Context, data []byte) (entity.InjuryRecord, error)
}

// DemoConfig задаёт таймаут анализа и искусственные задержки резервного режима.
type DemoConfig struct {
	Timeout          time.Duration
	FallbackDelayMin time.Duration
	FallbackDelayMax time.Duration
	ModelErrorDelay  time.Duration
}

func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Timeout:          30 * time.Second,
		FallbackDelayMin: 2 * time.Second,
		FallbackDelayMax: 4 * time.Second,
		ModelErrorDelay:  time.Second,
	}
}

// DemoController хранит выбранное изображение и проводит анализ.
// Одновременно идёт не больше одного анализа.
type DemoController struct {
	classifier ImageClassifier
	fallback   *FallbackGenerator
	notifier   port.Notifier
	stats      *StatsService
	rng        Random
	cfg        DemoConfig
	logger     *zap.Logger

	after func(time.Duration) <-chan time.Time
	now   func() time.Time

	mu        sync.Mutex
	image     *entity.ImageRef
	analyzing bool
	gen       uint64
}

type classifyResult struct {
	record entity.InjuryRecord
	err    error
}

func NewDemoController(
	classifier ImageClassifier,
	fallback *FallbackGenerator,
	notifier port.Notifier,
	stats *StatsService,
	rng Random,
	cfg DemoConfig,
	logger *zap.Logger,
) *DemoController {
	if rng == nil {
		rng = NewRandom(0)
	}
	if fallback == nil {
		fallback = NewFallbackGenerator(rng)
	}
	if notifier == nil {
		notifier = port.NotifierFunc(func(string, entity.Level) {})
	}
	if stats == nil {
		stats = NewStatsService()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoController{
		classifier: classifier,
		fallback:   fallback,
		notifier:   notifier,
		stats:      stats,
		rng:        rng,
		cfg:        cfg,
		logger:     logger,
		after:      time.After,
		now:        time.Now,
	}
}

// Select делает изображение текущим. Во время анализа выбор запрещён.
func (d *DemoController) Select(ref entity.ImageRef) error {
	d.mu.Lock()
	if d.analyzing {
		d.mu.Unlock()
		d.notifier.Notify(msgInProgress, entity.LevelInfo)
		return ErrAnalysisInProgress
	}
	d.image = &ref
	d.mu.Unlock()

	d.interaction("select", ref.Hint)
	return nil
}

// CurrentImage возвращает выбранное изображение, если оно есть.
func (d *DemoController) CurrentImage() (entity.ImageRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.image == nil {
		return entity.ImageRef{}, false
	}
	return *d.image, true
}

// Analyzing сообщает, идёт ли сейчас анализ.
func (d *DemoController) Analyzing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analyzing
}

// Analyze анализирует текущее изображение. Сбой модели или таймаут
// приводят к резервному результату, ошибкой заканчиваются только отказы и отмена ctx.
func (d *DemoController) Analyze(ctx context.Context) (entity.InjuryRecord, error) {
	d.mu.Lock()
	if d.image == nil {
		d.mu.Unlock()
		d.notifier.Notify(msgNoImage, entity.LevelInfo)
		return entity.InjuryRecord{}, ErrNoImage
	}
	if d.analyzing {
		d.mu.Unlock()
		d.notifier.Notify(msgInProgress, entity.LevelInfo)
		return entity.InjuryRecord{}, ErrAnalysisInProgress
	}
	d.analyzing = true
	d.gen++
	gen := d.gen
	ref := *d.image
	d.mu.Unlock()
	defer d.finish(gen)

	d.interaction("analyze_start", ref.Hint)
	started := d.now()

	record, err := d.run(ctx, ref)
	if err != nil {
		d.interaction("analyze_cancelled", err.Error())
		return entity.InjuryRecord{}, err
	}

	elapsed := d.now().Sub(started)
	d.stats.Record(record, elapsed)
	d.notifier.Notify(msgDetected+record.Category.DisplayName(), entity.LevelSuccess)
	d.logger.Info("analysis completed",
		zap.String("hint", ref.Hint),
		zap.Stringer("category", record.Category),
		zap.String("source", string(record.Source)),
		zap.Float64("confidence", record.Confidence),
		zap.Duration("took", elapsed))
	return record, nil
}

// Reset сбрасывает выбор и флаг анализа. Идемпотентен.
func (d *DemoController) Reset() {
	d.mu.Lock()
	d.image = nil
	d.analyzing = false
	d.gen++
	d.mu.Unlock()

	d.notifier.Notify(msgReset, entity.LevelInfo)
	d.interaction("reset", "")
}

// Stats возвращает сводку по анализам.
func (d *DemoController) Stats() entity.DemoStats {
	return d.stats.Snapshot()
}

func (d *DemoController) finish(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// после Reset флаг принадлежит уже другому поколению
	if d.gen == gen {
		d.analyzing = false
	}
}

func (d *DemoController) run(ctx context.Context, ref entity.ImageRef) (entity.InjuryRecord, error) {
	if d.classifier == nil || !ref.HasData() {
		return d.fallbackAfter(ctx, ref.Hint, d.fallbackDelay())
	}

	result := make(chan classifyResult, 1)
	var abandoned atomic.Bool
	go func() {
		record, err := d.classifier.Classify(ctx, ref.Data)
		if abandoned.Load() {
			d.logger.Debug("discarding late classification result",
				zap.String("hint", ref.Hint), zap.Error(err))
		}
		result <- classifyResult{record: record, err: err}
	}()

	var timeout <-chan time.Time
	if d.cfg.Timeout > 0 {
		timeout = d.after(d.cfg.Timeout)
	}

	select {
	case res := <-result:
		if res.err == nil {
			return res.record, nil
		}
		return d.fallbackAfter(ctx, ref.Hint, d.failureDelay(res.err))

	case <-timeout:
		abandoned.Store(true)
		d.logger.Warn("analysis timed out", zap.String("hint", ref.Hint), zap.Duration("timeout", d.cfg.Timeout))
		d.notifier.Notify(msgTimedOut, entity.LevelWarning)
		d.stats.RecordTimeout()
		return d.fallback.Generate(ref.Hint), nil

	case <-ctx.Done():
		abandoned.Store(true)
		return entity.InjuryRecord{}, ctx.Err()
	}
}

// failureDelay сообщает о сбое классификатора и выбирает задержку перед резервным результатом.
func (d *DemoController) failureDelay(err error) time.Duration {
	switch {
	case errors.Is(err, ErrNotReady):
		d.logger.Debug("classifier not ready, using fallback")
		return d.fallbackDelay()
	case errors.Is(err, ErrBusy):
		d.notifier.Notify(msgInProgress, entity.LevelInfo)
		return d.fallbackDelay()
	default:
		d.logger.Error("classification failed", zap.Error(err))
		d.notifier.Notify(msgModelError+err.Error(), entity.LevelError)
		return d.cfg.ModelErrorDelay
	}
}

func (d *DemoController) fallbackDelay() time.Duration {
	return randomDuration(d.rng, d.cfg.FallbackDelayMin, d.cfg.FallbackDelayMax)
}

func (d *DemoController) fallbackAfter(ctx context.Context, hint string, delay time.Duration) (entity.InjuryRecord, error) {
	if delay > 0 {
		select {
		case <-d.after(delay):
		case <-ctx.Done():
			return entity.InjuryRecord{}, ctx.Err()
		}
	}
	return d.fallback.Generate(hint), nil
}

func (d *DemoController) interaction(action, details string) {
	d.logger.Info("demo interaction", zap.String("action", action), zap.String("details", details))
}
