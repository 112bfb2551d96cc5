package ocr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"recipeai/internal/pkg/common"
)

// ImageEncoder 將收據影像檔轉為 JPEG data URI
type ImageEncoder struct {
	maxSizeBytes int64
}

// NewImageEncoder 創建影像編碼器
func NewImageEncoder(maxSizeBytes int64) *ImageEncoder {
	return &ImageEncoder{maxSizeBytes: maxSizeBytes}
}

// EncodeFile 讀取檔案、檢查大小與格式，重新編碼為 JPEG data URI
func (e *ImageEncoder) EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return e.Encode(data)
}

// Encode 檢查大小與格式並重新編碼
func (e *ImageEncoder) Encode(data []byte) (string, error) {
	if e.maxSizeBytes > 0 && int64(len(data)) > e.maxSizeBytes {
		return "", common.ErrInvalidImageSize.Wrap(fmt.Errorf("image size exceeds maximum limit of %d bytes", e.maxSizeBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return "", common.ErrUnsupportedReceipt.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
