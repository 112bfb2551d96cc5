package ingredient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipeai/internal/pkg/common"

	"go.uber.org/zap"
)

// Observer 分類結果的觀察者（例如 metrics）
type Observer interface {
	ObserveClassification(category string)
}

// Service 食材服務
type Service struct {
	store    Store
	observer Observer
	now      func() time.Time
}

// NewService 創建新的食材服務
func NewService(store Store, observer Observer) *Service {
	return &Service{
		store:    store,
		observer: observer,
		now:      time.Now,
	}
}

// Add 新增一筆手動或收據食材，分類由名稱決定
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*Ingredient, error) {
	items, err := s.AddMany(ctx, userID, []AddInput{in})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// AddMany 一次新增多筆食材
func (s *Service) AddMany(ctx context.Context, userID string, inputs []AddInput) ([]Ingredient, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	now := s.now().UTC()
	items := make([]Ingredient, 0, len(inputs))
	for i, in := range inputs {
		// 同批次依序錯開一微秒，讓加入時間排序與輸入順序一致
		item, err := s.build(userID, in, now.Add(time.Duration(i)*time.Microsecond))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := s.store.CreateIngredients(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save ingredients: %w", err)
	}

	common.LogInfo("Ingredients added",
		zap.String("user_id", userID),
		zap.Int("count", len(items)),
	)
	return items, nil
}

func (s *Service) build(userID string, in AddInput, now time.Time) (Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Ingredient{}, common.NewValidationError("ingredient name is required")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return Ingredient{}, common.NewValidationError("ingredient quantity must not be negative")
	}

	source := in.Source
	if source == "" {
		source = SourceManual
	}
	if !source.Valid() {
		return Ingredient{}, common.NewValidationError(fmt.Sprintf("unknown ingredient source %q", in.Source))
	}

	category := Classify(name)
	if s.observer != nil {
		s.observer.ObserveClassification(string(category))
	}

	return Ingredient{
		ID:       common.GenerateUUID(),
		UserID:   userID,
		Name:     name,
		Category: category,
		Quantity: in.Quantity,
		Unit:     strings.TrimSpace(in.Unit),
		Source:   source,
		AddedAt:  now,
	}, nil
}

// List 取得使用者的所有食材
func (s *Service) List(ctx context.Context, userID string) ([]Ingredient, error) {
	items, err := s.store.ListIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return items, nil
}

// Names 取得使用者所有食材名稱，供食譜比對使用
func (s *Service) Names(ctx context.Context, userID string) ([]string, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names, nil
}

// Delete 刪除單筆食材
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteIngredient(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete ingredient %s: %w", id, err)
	}
	return nil
}

// Clear 清空使用者的所有食材
func (s *Service) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.ClearIngredients(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear ingredients: %w", err)
	}
	common.LogInfo("Ingredients cleared",
		zap.String("user_id", userID),
		zap.Int64("count", n),
	)
	return n, nil
}
