package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

const (
	msgModelLoaded  = "AI Model Loaded: Ready for injury detection"
	msgFallbackMode = "Using fallback analysis mode"
)

// Classifier загружает модель один раз и классифицирует изображения по одному.
type Classifier struct {
	loader   port.ModelLoader
	pre      port.ImagePreprocessor
	notifier port.Notifier
	rng      Random
	logger   *zap.Logger
	labels   []entity.Category
	now      func() time.Time

	mu      sync.RWMutex
	state   entity.ClassifierState
	model   port.InjuryModel
	loadErr error

	start sync.Once
	done  chan struct{}
	sem   *semaphore.Weighted
	busy  atomic.Bool
}

// NewClassifier создаёт классификатор в состоянии unloaded.
func NewClassifier(loader port.ModelLoader, pre port.ImagePreprocessor, rng Random, notifier port.Notifier, logger *zap.Logger) *Classifier {
	if rng == nil {
		rng = NewRandom(0)
	}
	if notifier == nil {
		notifier = port.NotifierFunc(func(string, entity.Level) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		loader:   loader,
		pre:      pre,
		notifier: notifier,
		rng:      rng,
		logger:   logger,
		labels:   entity.ModelLabels(),
		now:      time.Now,
		state:    entity.ClassifierUnloaded,
		done:     make(chan struct{}),
		sem:      semaphore.NewWeighted(1),
	}
}

// Start запускает загрузку модели в фоне. Повторные вызовы ничего не делают.
func (c *Classifier) Start(ctx context.Context) {
	c.start.Do(func() {
		c.setState(entity.ClassifierLoading, nil, nil)
		go c.load(ctx)
	})
}

func (c *Classifier) load(ctx context.Context) {
	defer close(c.done)

	started := c.now()
	model, err := c.loader.Load(ctx)
	if err == nil && model == nil {
		err = fmt.Errorf("loader returned no model")
	}
	if err != nil {
		c.setState(entity.ClassifierLoadFailed, nil, err)
		c.logger.Warn("failed to load injury classifier model, using fallback", zap.Error(err))
		c.notifier.Notify(msgFallbackMode, entity.LevelWarning)
		return
	}

	c.setState(entity.ClassifierReady, model, nil)
	c.logger.Info("injury classifier model loaded", zap.Duration("took", c.now().Sub(started)))
	c.notifier.Notify(msgModelLoaded, entity.LevelSuccess)
}

func (c *Classifier) setState(state entity.ClassifierState, model port.InjuryModel, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	if model != nil {
		c.model = model
	}
	c.loadErr = err
}

// Done закрывается, когда загрузка завершилась (успешно или нет).
func (c *Classifier) Done() <-chan struct{} { return c.done }

// State возвращает текущее состояние загрузки.
func (c *Classifier) State() entity.ClassifierState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LoadError возвращает причину неудачной загрузки.
func (c *Classifier) LoadError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Busy сообщает, что идёт классификация.
func (c *Classifier) Busy() bool { return c.busy.Load() }

// Classify декодирует изображение, прогоняет его через модель и собирает запись.
// Одновременно выполняется не больше одной классификации, лишние получают ErrBusy.
func (c *Classifier) Classify(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
	c.mu.RLock()
	state, model := c.state, c.model
	c.mu.RUnlock()
	if state != entity.ClassifierReady {
		return entity.InjuryRecord{}, ErrNotReady
	}

	if !c.sem.TryAcquire(1) {
		return entity.InjuryRecord{}, ErrBusy
	}
	defer c.sem.Release(1)
	c.busy.Store(true)
	defer c.busy.Store(false)

	img, err := c.pre.Decode(data)
	if err != nil {
		return entity.InjuryRecord{}, fmt.Errorf("%w: decode: %v", ErrInference, err)
	}

	tensor, err := c.pre.Tensor(img)
	if err != nil {
		return entity.InjuryRecord{}, fmt.Errorf("%w: preprocess: %v", ErrInference, err)
	}
	defer tensor.Release()

	probs, err := predict(ctx, model, tensor)
	if err != nil {
		return entity.InjuryRecord{}, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(probs) != len(c.labels) {
		return entity.InjuryRecord{}, fmt.Errorf("%w: model returned %d scores, expected %d", ErrInference, len(probs), len(c.labels))
	}

	best := argmax(probs)
	if best < 0 {
		return entity.InjuryRecord{}, fmt.Errorf("%w: model returned no finite scores", ErrInference)
	}

	entry := catalog.Lookup(c.labels[best])
	record := buildRecord(uuid.NewString(), c.now(), entry, clamp01(float64(probs[best])),
		pickSeverity(c.rng, entry), pickBodyPart(c.rng), entity.SourceModel)

	record.Predictions = make([]entity.Prediction, len(probs))
	for i, p := range probs {
		record.Predictions[i] = entity.Prediction{Category: c.labels[i], Score: float64(p)}
	}

	c.logger.Debug("classification completed",
		zap.Stringer("category", record.Category),
		zap.Float64("confidence", record.Confidence))
	return record, nil
}

// Close освобождает модель.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model == nil {
		return nil
	}
	err := c.model.Close()
	c.model = nil
	c.state = entity.ClassifierUnloaded
	return err
}

// predict превращает панику рантайма в обычную ошибку.
func predict(ctx context.Context, model port.InjuryModel, tensor *entity.Tensor) (probs []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()
	return model.Predict(ctx, tensor)
}

func argmax(values []float32) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			continue
		}
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
