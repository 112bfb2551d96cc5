package receipt

import (
	"context"
	"time"

	"recipeai/internal/core/ingredient"
)

// Status 收據處理狀態
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusError     Status = "error"
)

// Receipt 收據紀錄；上傳時建立，OCR 完成後更新一次
type Receipt struct {
	ID                   string                `json:"id"`
	UserID               string                `json:"user_id"`
	Filename             string                `json:"filename"`
	Path                 string                `json:"-"`
	Status               Status                `json:"status"`
	ExtractedIngredients []ExtractedIngredient `json:"extracted_ingredients"`
	Error                string                `json:"error,omitempty"`
	UploadedAt           time.Time             `json:"uploaded_at"`
	ProcessedAt          *time.Time            `json:"processed_at,omitempty"`
}

// Upload 已存放於本機的上傳檔案
type Upload struct {
	Filename string
	Path     string
}

// Result 單張收據的處理結果
type Result struct {
	Receipt  *Receipt                `json:"receipt"`
	Imported []ingredient.Ingredient `json:"imported_ingredients,omitempty"`
}

// BatchResult 批次處理中單張收據的結果
type BatchResult struct {
	Filename string
	Result   *Result
	Err      error
}

// Recognizer OCR 引擎，回傳影像或文件中的原始文字
type Recognizer interface {
	Recognize(ctx context.Context, path, lang string) (string, error)
}

// Store 收據持久層介面
type Store interface {
	CreateReceipt(ctx context.Context, r *Receipt) error
	UpdateReceipt(ctx context.Context, r *Receipt) error
	ListReceipts(ctx context.Context, userID string) ([]Receipt, error)
}

// Importer 將擷取結果寫入使用者食材
type Importer interface {
	AddMany(ctx context.Context, userID string, inputs []ingredient.AddInput) ([]ingredient.Ingredient, error)
}

// Observer 收據處理的觀察者（例如 metrics）
type Observer interface {
	ObserveReceipt(status string, ocrDuration time.Duration, extracted int)
}
