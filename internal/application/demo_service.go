package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// NotifierFactory возвращает канал уведомлений для чата.
type NotifierFactory func(chatID int64) port.Notifier

// DemoService держит по контроллеру на чат и связывает их с пользователями и образцами.
type DemoService struct {
	users       *UserService
	classifier  ImageClassifier
	samples     port.SampleStore
	notifierFor NotifierFactory
	stats       *StatsService
	rng         Random
	cfg         DemoConfig
	maxUpload   int64
	logger      *zap.Logger

	controllers map[int64]*DemoController
	mu          sync.Mutex
}

// NewDemoService создаёт сервис. samples и notifierFor могут быть nil.
func NewDemoService(
	users *UserService,
	classifier ImageClassifier,
	samples port.SampleStore,
	notifierFor NotifierFactory,
	rng Random,
	cfg DemoConfig,
	maxUpload int64,
	logger *zap.Logger,
) *DemoService {
	if rng == nil {
		rng = NewRandom(0)
	}
	if notifierFor == nil {
		notifierFor = func(int64) port.Notifier { return nil }
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoService{
		users:       users,
		classifier:  classifier,
		samples:     samples,
		notifierFor: notifierFor,
		stats:       NewStatsService(),
		rng:         rng,
		cfg:         cfg,
		maxUpload:   maxUpload,
		logger:      logger,
		controllers: make(map[int64]*DemoController),
	}
}

// Controller возвращает контроллер чата, создавая его при первом обращении.
func (s *DemoService) Controller(chatID int64) *DemoController {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.controllers[chatID]
	if !ok {
		ctrl = NewDemoController(s.classifier, NewFallbackGenerator(s.rng), s.notifierFor(chatID),
			s.stats, s.rng, s.cfg, s.logger.With(zap.Int64("chat_id", chatID)))
		s.controllers[chatID] = ctrl
	}
	return ctrl
}

// SelectUpload проверяет загруженный файл и делает его текущим изображением чата.
func (s *DemoService) SelectUpload(chatID int64, name, contentType string, data []byte) error {
	if contentType == "" {
		contentType = DetectContentType(data)
	}
	ctrl := s.Controller(chatID)
	if err := ValidateUpload(contentType, int64(len(data)), s.maxUpload); err != nil {
		ctrl.notifier.Notify(UserMessage(err), entity.LevelError)
		return err
	}
	return ctrl.Select(entity.ImageRef{
		Hint:        entity.HintUploaded,
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
}

// SelectSample делает текущим подготовленный образец. Если файла нет, анализ пойдёт по таблицам.
func (s *DemoService) SelectSample(ctx context.Context, chatID int64, id string) error {
	ctrl := s.Controller(chatID)
	if _, ok := catalog.LookupSample(id); !ok {
		ctrl.notifier.Notify(UserMessage(ErrUnknownSample), entity.LevelWarning)
		return fmt.Errorf("%w: %s", ErrUnknownSample, id)
	}

	ref := entity.ImageRef{Hint: id, Name: id}
	if s.samples != nil {
		data, contentType, err := s.samples.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("load sample %s: %w", id, err)
		}
		ref.Data, ref.ContentType = data, contentType
	}
	return ctrl.Select(ref)
}

// Analyze запускает анализ текущего изображения чата. Пока идёт анализ,
// пользователь находится в состоянии processing.
func (s *DemoService) Analyze(ctx context.Context, userID, chatID int64) (entity.InjuryRecord, error) {
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return entity.InjuryRecord{}, err
	}

	record, err := s.Controller(chatID).Analyze(ctx)
	if errors.Is(err, ErrAnalysisInProgress) {
		// Состоянием владеет уже идущий анализ
		return record, err
	}

	if uerr := s.users.UpdateState(context.WithoutCancel(ctx), userID, entity.StateMainMenu); uerr != nil {
		s.logger.Warn("failed to restore user state", zap.Int64("user_id", userID), zap.Error(uerr))
	}
	return record, err
}

// Reset сбрасывает демо чата и возвращает пользователя в главное меню.
func (s *DemoService) Reset(ctx context.Context, userID, chatID int64) error {
	s.Controller(chatID).Reset()
	_, err := s.users.Cancel(ctx, userID, chatID)
	return err
}

// Stats возвращает общую сводку по всем чатам.
func (s *DemoService) Stats() entity.DemoStats {
	return s.stats.Snapshot()
}
