package telegram

import (
	"sync"

	"go.uber.org/zap"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// Notifier возвращает канал уведомлений для чата.
func (b *Bot) Notifier(chatID int64) port.Notifier {
	return port.NotifierFunc(func(message string, level entity.Level) {
		b.sendMessage(chatID, FormatNotification(message, level))
	})
}

// FormatNotification добавляет к уведомлению значок уровня.
func FormatNotification(message string, level entity.Level) string {
	return levelIcon(level) + " " + escape(message)
}

func levelIcon(level entity.Level) string {
	switch level {
	case entity.LevelSuccess:
		return "✅"
	case entity.LevelWarning:
		return "⚠️"
	case entity.LevelError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// ModelNotices принимает уведомления о загрузке модели: пишет их в лог
// и показывает последнее каждому чату один раз, с его первым сообщением.
type ModelNotices struct {
	logger *zap.Logger

	mu   sync.Mutex
	last *entity.Notification
	seen map[int64]bool
}

func NewModelNotices(logger *zap.Logger) *ModelNotices {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelNotices{logger: logger, seen: make(map[int64]bool)}
}

// Notify запоминает уведомление. Новое уведомление снова показывается всем чатам.
func (n *ModelNotices) Notify(message string, level entity.Level) {
	switch level {
	case entity.LevelError:
		n.logger.Error(message)
	case entity.LevelWarning:
		n.logger.Warn(message)
	default:
		n.logger.Info(message, zap.String("level", string(level)))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = &entity.Notification{Message: message, Level: level}
	n.seen = make(map[int64]bool)
}

// take возвращает уведомление, которое чат ещё не видел.
func (n *ModelNotices) take(chatID int64) (entity.Notification, bool) {
	if n == nil {
		return entity.Notification{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil || n.seen[chatID] {
		return entity.Notification{}, false
	}
	n.seen[chatID] = true
	return *n.last, true
}

var _ port.Notifier = (*ModelNotices)(nil)
