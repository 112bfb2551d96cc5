package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractEngine 透過本機 tesseract 指令辨識影像
type TesseractEngine struct {
	binary string
}

// NewTesseractEngine 創建 tesseract 引擎；binary 為空時使用 PATH 中的 tesseract
func NewTesseractEngine(binary string) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractEngine{binary: binary}
}

// Name 引擎名稱
func (e *TesseractEngine) Name() string {
	return "tesseract"
}

// Recognize 執行 `tesseract <path> stdout -l <lang>`
func (e *TesseractEngine) Recognize(ctx context.Context, path, lang string) (string, error) {
	args := []string{path, "stdout"}
	if lang != "" {
		args = append(args, "-l", lang)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
