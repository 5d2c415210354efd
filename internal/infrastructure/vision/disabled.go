package vision

import (
	"context"
	"errors"

	"argus-bot/internal/domain/port"
)

// ErrModelDisabled — модель выключена в конфигурации.
var ErrModelDisabled = errors.New("model backend disabled")

// DisabledLoader всегда отказывает: бот работает только на справочных таблицах.
// Err задаёт причину, по умолчанию ErrModelDisabled.
type DisabledLoader struct {
	Err error
}

// Load возвращает причину отказа.
func (l DisabledLoader) Load(ctx context.Context) (port.InjuryModel, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	return nil, ErrModelDisabled
}
