package port

import "argus-bot/internal/domain/entity"

// Notifier показывает короткие уведомления пользователю
type Notifier interface {
	Notify(message string, level entity.Level)
}

// NotifierFunc позволяет использовать функцию как Notifier
type NotifierFunc func(message string, level entity.Level)

// Notify вызывает f(message, level)
func (f NotifierFunc) Notify(message string, level entity.Level) {
	f(message, level)
}
