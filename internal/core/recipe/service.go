package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipeai/internal/core/cache"
	"recipeai/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultMaxResults 預設最多回傳的建議數
const DefaultMaxResults = 3

// PantrySource 取得使用者現有食材名稱
type PantrySource interface {
	Names(ctx context.Context, userID string) ([]string, error)
}

// Options 食譜服務設定
type Options struct {
	Boundaries MealBoundaries
	MaxResults int
}

// Service 食譜建議服務
type Service struct {
	catalog   *Catalog
	favorites FavoriteStore
	pantry    PantrySource
	cache     cache.Cache
	opts      Options
}

// Suggestions 建議結果
type Suggestions struct {
	MealType      MealType `json:"meal_type"`
	MealTypeLabel string   `json:"meal_type_label"`
	Available     []string `json:"available_ingredients"`
	Recipes       []Recipe `json:"recipes"`
	Total         int      `json:"total_matches"`
}

// NewService 創建新的食譜服務；cache 可為 nil
func NewService(catalog *Catalog, favorites FavoriteStore, pantry PantrySource, c cache.Cache, opts Options) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.Boundaries == (MealBoundaries{}) {
		opts.Boundaries = DefaultBoundaries()
	}
	return &Service{
		catalog:   catalog,
		favorites: favorites,
		pantry:    pantry,
		cache:     c,
		opts:      opts,
	}
}

// Catalog 目前使用的目錄
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Suggest 依現有食材與時間產生食譜建議。
// available 為 nil 時改用使用者儲存的食材。
func (s *Service) Suggest(ctx context.Context, userID string, available []string, now time.Time) (*Suggestions, error) {
	if available == nil && s.pantry != nil {
		names, err := s.pantry.Names(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load pantry: %w", err)
		}
		available = names
	}

	normalized := NormalizeAvailable(available)
	slot := s.opts.Boundaries.Slot(now)

	result, err := s.match(ctx, normalized, now, slot)
	if err != nil {
		return nil, err
	}

	if err := s.applyFavorites(ctx, userID, result.Recipes); err != nil {
		return nil, err
	}

	total := len(result.Recipes)
	recipes := result.Recipes
	if s.opts.MaxResults > 0 && len(recipes) > s.opts.MaxResults {
		recipes = recipes[:s.opts.MaxResults]
	}

	common.LogInfo("Recipe suggestions generated",
		zap.String("user_id", userID),
		zap.String("meal_type", string(slot)),
		zap.Int("available", len(normalized)),
		zap.Int("matches", total),
	)

	return &Suggestions{
		MealType:      slot,
		MealTypeLabel: slot.Label(),
		Available:     normalized,
		Recipes:       recipes,
		Total:         total,
	}, nil
}

// match 比對並透過快取保存入選的食譜 ID
func (s *Service) match(ctx context.Context, normalized []string, now time.Time, slot MealType) (MatchResult, error) {
	key := cache.Key("suggest:"+string(slot), normalized)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var ids []string
		if err := common.ParseJSON(cached, &ids); err == nil {
			if result, ok := s.fromIDs(ids, slot); ok {
				common.LogCacheHit("suggestion")
				return result, nil
			}
		}
	} else if !errors.Is(err, common.ErrCacheMiss) {
		common.LogWarn("Suggestion cache lookup failed", zap.Error(err))
	}
	common.LogCacheMiss("suggestion")

	result := Match(s.catalog.Recipes(), normalized, now, s.opts.Boundaries)

	ids := make([]string, len(result.Recipes))
	for i, r := range result.Recipes {
		ids[i] = r.ID
	}
	if encoded, err := common.ToJSON(ids); err == nil {
		if err := s.cache.Set(ctx, key, encoded); err != nil {
			common.LogWarn("Suggestion cache store failed", zap.Error(err))
		}
	}

	return result, nil
}

// fromIDs 由快取的 ID 重建結果；目錄中找不到任一 ID 時視為失效
func (s *Service) fromIDs(ids []string, slot MealType) (MatchResult, bool) {
	recipes := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		r, ok := s.catalog.Find(id)
		if !ok {
			return MatchResult{}, false
		}
		r.MealType = slot
		recipes = append(recipes, r)
	}
	return MatchResult{Slot: slot, Recipes: recipes}, true
}

func (s *Service) applyFavorites(ctx context.Context, userID string, recipes []Recipe) error {
	if s.favorites == nil || len(recipes) == 0 {
		return nil
	}
	ids, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	fav := make(map[string]bool, len(ids))
	for _, id := range ids {
		fav[id] = true
	}
	for i := range recipes {
		recipes[i].IsFavorite = fav[recipes[i].ID]
	}
	return nil
}

// SetFavorite 切換收藏狀態，食譜必須存在於目錄中
func (s *Service) SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) (*Recipe, error) {
	r, ok := s.catalog.Find(recipeID)
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	if s.favorites == nil {
		return nil, common.ErrServiceUnavailable
	}
	if err := s.favorites.SetFavorite(ctx, userID, recipeID, favorite); err != nil {
		return nil, fmt.Errorf("failed to update favorite: %w", err)
	}
	r.IsFavorite = favorite

	common.LogInfo("Recipe favorite updated",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipeID),
		zap.Bool("is_favorite", favorite),
	)
	return &r, nil
}

// Favorites 使用者收藏的食譜，依目錄順序
func (s *Service) Favorites(ctx context.Context, userID string) ([]Recipe, error) {
	if s.favorites == nil {
		return []Recipe{}, nil
	}
	ids, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	fav := make(map[string]bool, len(ids))
	for _, id := range ids {
		fav[id] = true
	}

	out := make([]Recipe, 0, len(ids))
	for _, r := range s.catalog.Recipes() {
		if fav[r.ID] {
			r.IsFavorite = true
			out = append(out, r)
		}
	}
	return out, nil
}
