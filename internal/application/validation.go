package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxUploadBytes — предельный размер загружаемого снимка.
const DefaultMaxUploadBytes = 10 << 20

const (
	msgInvalidImage  = "Please select a valid image file."
	msgImageTooLarge = "Image file size must be less than 10MB."
	msgUnknownSample = "Unknown sample. Use /samples to list available images."
)

// ValidateUpload проверяет тип и размер загружаемого файла.
func ValidateUpload(contentType string, size, max int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return fmt.Errorf("%w: content type %q", ErrInvalidImage, contentType)
	}
	if max <= 0 {
		max = DefaultMaxUploadBytes
	}
	if size > max {
		return fmt.Errorf("%w: %d bytes", ErrImageTooLarge, size)
	}
	return nil
}

// DetectContentType определяет MIME-тип по первым байтам.
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// UserMessage переводит ошибку в текст для пользователя. Пустая строка — ошибка не пользовательская.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidImage):
		return msgInvalidImage
	case errors.Is(err, ErrImageTooLarge):
		return msgImageTooLarge
	case errors.Is(err, ErrUnknownSample):
		return msgUnknownSample
	default:
		return ""
	}
}
