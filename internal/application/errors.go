package app

import "errors"

var (
	// Ошибки классификатора
	ErrNotReady  = errors.New("model not loaded")
	ErrBusy      = errors.New("analysis already in progress")
	ErrInference = errors.New("inference error")

	// Ошибки демо
	ErrNoImage            = errors.New("no image selected")
	ErrAnalysisInProgress = errors.New("analysis in progress")
	ErrUnknownSample      = errors.New("unknown sample")

	// Ошибки входных данных
	ErrInvalidImage  = errors.New("invalid image file")
	ErrImageTooLarge = errors.New("image file too large")
)
