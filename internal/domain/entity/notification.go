package entity

// Level — уровень уведомления.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification — короткое сообщение для пользователя.
type Notification struct {
	Message string
	Level   Level
}
