package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"recipeai/internal/pkg/common"
)

// Engine OCR 引擎：接收檔案路徑與語言提示，回傳辨識出的原始文字
type Engine interface {
	Recognize(ctx context.Context, path, lang string) (string, error)
	Name() string
}

// imageExtensions 影像類收據支援的副檔名
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// SupportedExtension 檢查檔案副檔名是否可被處理
func SupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return imageExtensions[ext] || ext == ".pdf"
}

// Router 依副檔名分派：PDF 走文字層擷取，影像走 OCR 引擎
type Router struct {
	image Engine
	pdf   Engine
}

// NewRouter 創建分派器；任一引擎可為 nil 表示不支援該類檔案
func NewRouter(image, pdf Engine) *Router {
	return &Router{image: image, pdf: pdf}
}

// Name 引擎名稱
func (r *Router) Name() string {
	return "router"
}

// Recognize 依副檔名選擇引擎並記錄耗時
func (r *Router) Recognize(ctx context.Context, path, lang string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var engine Engine
	switch {
	case ext == ".pdf":
		engine = r.pdf
	case imageExtensions[ext]:
		engine = r.image
	}
	if engine == nil {
		return "", common.ErrUnsupportedReceipt.Wrap(fmt.Errorf("no engine for %q", ext))
	}

	start := time.Now()
	text, err := engine.Recognize(ctx, path, lang)
	common.LogOCRCall(engine.Name(), time.Since(start), err)
	return text, err
}
