package ingredient

import (
	"context"
	"time"
)

// Source 食材來源
type Source string

const (
	SourceManual  Source = "manual"
	SourceReceipt Source = "receipt"
)

// Valid 是否為已知來源
func (s Source) Valid() bool {
	return s == SourceManual || s == SourceReceipt
}

// Ingredient 使用者食材紀錄，建立後除刪除外不再變動
type Ingredient struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Quantity *float64  `json:"quantity,omitempty"`
	Unit     string    `json:"unit,omitempty"`
	Source   Source    `json:"source"`
	AddedAt  time.Time `json:"added_at"`
}

// AddInput 新增食材的輸入
type AddInput struct {
	Name     string   `json:"name" binding:"required"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Source   Source   `json:"source,omitempty"`
}

// Store 食材持久層介面
type Store interface {
	CreateIngredients(ctx context.Context, items []Ingredient) error
	ListIngredients(ctx context.Context, userID string) ([]Ingredient, error)
	DeleteIngredient(ctx context.Context, userID, id string) error
	ClearIngredients(ctx context.Context, userID string) (int64, error)
}
