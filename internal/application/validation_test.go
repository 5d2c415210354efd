package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		max         int64
		wantErr     error
	}{
		{name: "jpeg", contentType: "image/jpeg", size: 1024},
		{name: "upper case", contentType: "IMAGE/PNG", size: 1024},
		{name: "exact limit", contentType: "image/webp", size: DefaultMaxUploadBytes},
		{name: "too large", contentType: "image/jpeg", size: DefaultMaxUploadBytes + 1, wantErr: ErrImageTooLarge},
		{name: "custom limit", contentType: "image/jpeg", size: 2048, max: 1024, wantErr: ErrImageTooLarge},
		{name: "pdf", contentType: "application/pdf", size: 10, wantErr: ErrInvalidImage},
		{name: "empty type", contentType: "", size: 10, wantErr: ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.contentType, tt.size, tt.max)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetectContentType(t *testing.T) {
	require.Equal(t, "image/png", DetectContentType(pngBytes(t)))
	require.Equal(t, "text/plain; charset=utf-8", DetectContentType([]byte("hello")))
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "Please select a valid image file.", UserMessage(fmt.Errorf("%w: x", ErrInvalidImage)))
	require.Equal(t, "Image file size must be less than 10MB.", UserMessage(ErrImageTooLarge))
	require.NotEmpty(t, UserMessage(ErrUnknownSample))
	require.Empty(t, UserMessage(nil))
	require.Empty(t, UserMessage(ErrInference))
}
