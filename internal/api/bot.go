package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "argus-bot/internal/application"
	"argus-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Hi! I am an injury assessment demo bot.

📸 Send me a photo of an injury or pick one of the prepared samples, and I will suggest a classification with first aid guidance.

📋 Commands:
/samples — list sample images
/sample &lt;id&gt; — select a sample
/analyze — analyze the selected image
/reset — clear the current selection
/status — model status
/stats — analysis statistics
/help — help`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a photo (or an image file up to 10MB), or select a sample with /sample
2️⃣ The photo is analyzed right away, a sample after /analyze
3️⃣ You get the suspected injury, its severity, ICD-10 code and first aid steps

⚠️ This is a demo. It does not replace a medical examination.

📋 Commands:
/samples /sample /analyze /reset /status /stats /cancel`

	msgCancelled       = "❌ Operation cancelled. Send /analyze to start again."
	msgSendPhoto       = "📸 Please send a photo or use /samples."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Analyzing image..."
	msgProcessingError = "⚠️ Could not process the image. Please try another one."
	msgInProgress      = "Analysis already in progress..."
	msgSampleSelected  = "🖼 Sample <b>%s</b> selected. Send /analyze to run the analysis."
)

// botAPI — часть tgbotapi.BotAPI, которой пользуется бот.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота
type Bot struct {
	api        botAPI
	users      *app.UserService
	demo       *app.DemoService
	classifier *app.Classifier
	notices    *ModelNotices
	maxUpload  int64
	http       *http.Client
	logger     *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, demo *app.DemoService, classifier *app.Classifier, notices *ModelNotices, maxUpload int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))
	return newBot(api, users, demo, classifier, notices, maxUpload, logger), nil
}

func newBot(api botAPI, users *app.UserService, demo *app.DemoService, classifier *app.Classifier, notices *ModelNotices, maxUpload int64, logger *zap.Logger) *Bot {
	if maxUpload <= 0 {
		maxUpload = app.DefaultMaxUploadBytes
	}
	return &Bot{
		api:        api,
		users:      users,
		demo:       demo,
		classifier: classifier,
		notices:    notices,
		maxUpload:  maxUpload,
		http:       &http.Client{Timeout: time.Minute},
		logger:     logger,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Каждое обновление обрабатывается в своей горутине.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := b.logger.With(zap.Int64("user_id", msg.From.ID), zap.Int64("chat_id", msg.Chat.ID))

	// Статус модели чат видит один раз, до ответа на своё первое сообщение
	if notice, ok := b.notices.take(msg.Chat.ID); ok {
		b.sendMessage(msg.Chat.ID, FormatNotification(notice.Message, notice.Level))
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, log)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleUpload(ctx, msg, photo.FileID, "photo.jpg", "image/jpeg", int64(photo.FileSize), log)
		return
	}

	// Изображение, отправленное файлом
	if msg.Document != nil {
		doc := msg.Document
		b.handleUpload(ctx, msg, doc.FileID, doc.FileName, doc.MimeType, int64(doc.FileSize), log)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, log *zap.Logger) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			log.Warn("failed to reset user state", zap.Error(err))
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "samples":
		b.sendMessage(chatID, RenderSamples())

	case "sample":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			b.sendMessage(chatID, RenderSamples())
			return
		}
		if err := b.demo.SelectSample(ctx, chatID, id); err != nil {
			if !errors.Is(err, app.ErrUnknownSample) && !errors.Is(err, app.ErrAnalysisInProgress) {
				log.Error("failed to select sample", zap.String("sample", id), zap.Error(err))
				b.sendMessage(chatID, msgProcessingError)
			}
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgSampleSelected, escape(id)))

	case "analyze":
		b.analyze(ctx, msg, log)

	case "reset":
		if err := b.demo.Reset(ctx, userID, chatID); err != nil {
			log.Warn("failed to reset user state", zap.Error(err))
		}

	case "status":
		user, err := b.users.Get(ctx, userID, chatID)
		if err != nil {
			log.Warn("failed to get user", zap.Error(err))
			return
		}
		ref, selected := b.demo.Controller(chatID).CurrentImage()
		b.sendMessage(chatID, RenderStatus(Status{
			State:     b.classifier.State(),
			LoadError: b.classifier.LoadError(),
			Busy:      b.classifier.Busy(),
			Analyzing: user.Busy() || b.demo.Controller(chatID).Analyzing(),
			Selected:  selected,
			Image:     ref,
		}))

	case "stats":
		users, err := b.users.Count(ctx)
		if err != nil {
			log.Warn("failed to count users", zap.Error(err))
		}
		b.sendMessage(chatID, RenderStats(b.demo.Stats(), users))

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			log.Warn("failed to reset user state", zap.Error(err))
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleUpload скачивает присланное изображение, делает его текущим и сразу анализирует.
func (b *Bot) handleUpload(ctx context.Context, msg *tgbotapi.Message, fileID, name, contentType string, size int64, log *zap.Logger) {
	chatID := msg.Chat.ID
	notifier := b.Notifier(chatID)

	// Пока идёт анализ, новый файл даже не скачиваем
	if user, err := b.users.Get(ctx, msg.From.ID, chatID); err == nil && user.Busy() {
		notifier.Notify(msgInProgress, entity.LevelInfo)
		return
	}

	// Проверяем заявленные тип и размер до скачивания
	if err := app.ValidateUpload(contentType, size, b.maxUpload); err != nil {
		notifier.Notify(app.UserMessage(err), entity.LevelError)
		return
	}

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Error("failed to download file", zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if err := b.demo.SelectUpload(chatID, name, contentType, data); err != nil {
		log.Info("upload rejected", zap.Error(err))
		return
	}
	b.analyze(ctx, msg, log)
}

func (b *Bot) analyze(ctx context.Context, msg *tgbotapi.Message, log *zap.Logger) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	if _, selected := b.demo.Controller(chatID).CurrentImage(); selected {
		b.sendMessage(chatID, msgProcessing)
	}

	record, err := b.demo.Analyze(ctx, userID, chatID)
	switch {
	case err == nil:
		b.sendMessage(chatID, RenderRecord(record))
	case errors.Is(err, app.ErrNoImage):
		if _, err := b.users.AwaitPhoto(ctx, userID, chatID); err != nil {
			log.Warn("failed to update user state", zap.Error(err))
		}
	case errors.Is(err, app.ErrAnalysisInProgress):
	default:
		log.Error("analysis failed", zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	// Читаем на байт больше лимита, чтобы SelectUpload увидел превышение
	data, err := io.ReadAll(io.LimitReader(resp.Body, b.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет HTML-сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
