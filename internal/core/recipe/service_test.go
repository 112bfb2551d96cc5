package recipe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeai/internal/core/cache"
	"recipeai/internal/pkg/common"
)

type fakeFavorites struct {
	mu  sync.Mutex
	ids map[string]map[string]bool
	err error
}

func (f *fakeFavorites) SetFavorite(_ context.Context, userID, recipeID string, favorite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.ids == nil {
		f.ids = map[string]map[string]bool{}
	}
	if f.ids[userID] == nil {
		f.ids[userID] = map[string]bool{}
	}
	if favorite {
		f.ids[userID][recipeID] = true
	} else {
		delete(f.ids[userID], recipeID)
	}
	return nil
}

func (f *fakeFavorites) ListFavorites(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for id := range f.ids[userID] {
		out = append(out, id)
	}
	return out, nil
}

type fakePantry map[string][]string

func (p fakePantry) Names(_ context.Context, userID string) ([]string, error) {
	return p[userID], nil
}

type countingCache struct {
	cache.Cache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	return c.Cache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.Cache.Set(ctx, key, value)
}

func newTestService(t *testing.T, favorites FavoriteStore, pantry PantrySource, c cache.Cache, maxResults int) *Service {
	t.Helper()
	catalog, err := SeedCatalog()
	require.NoError(t, err)
	return NewService(catalog, favorites, pantry, c, Options{MaxResults: maxResults})
}

func TestSuggestWithExplicitIngredients(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, DefaultMaxResults)

	got, err := svc.Suggest(context.Background(), "u1", []string{"Pollo", "lechuga", "aguacate"}, at(20))
	require.NoError(t, err)

	assert.Equal(t, MealDinner, got.MealType)
	assert.Equal(t, "Cena", got.MealTypeLabel)
	assert.Equal(t, []string{"pollo", "lechuga", "aguacate"}, got.Available)
	require.Len(t, got.Recipes, 1)
	assert.Equal(t, "2", got.Recipes[0].ID)
	assert.Equal(t, MealDinner, got.Recipes[0].MealType)
	assert.Equal(t, 1, got.Total)
}

func TestSuggestFallsBackToPantry(t *testing.T) {
	pantry := fakePantry{"u1": {"cebolla", "pimientos"}}
	svc := newTestService(t, nil, pantry, nil, DefaultMaxResults)

	got, err := svc.Suggest(context.Background(), "u1", nil, at(9))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got.Recipes))

	// 明確傳入空清單時不讀取儲存的食材
	got, err = svc.Suggest(context.Background(), "u1", []string{}, at(9))
	require.NoError(t, err)
	assert.Empty(t, got.Recipes)
}

func TestSuggestCapsResults(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, 1)

	got, err := svc.Suggest(context.Background(), "u1", []string{"cebolla", "pimientos"}, at(9))
	require.NoError(t, err)
	assert.Len(t, got.Recipes, 1)
	assert.Equal(t, 2, got.Total)
}

func TestSuggestUsesCache(t *testing.T) {
	mgr := cache.NewManager(10, time.Minute, 0)
	defer mgr.Close()
	c := &countingCache{Cache: mgr}
	svc := newTestService(t, nil, nil, c, DefaultMaxResults)
	ctx := context.Background()

	first, err := svc.Suggest(ctx, "u1", []string{"cebolla", "pimientos"}, at(13))
	require.NoError(t, err)
	second, err := svc.Suggest(ctx, "u1", []string{"pimientos", "cebolla"}, at(14))
	require.NoError(t, err)

	assert.Equal(t, ids(first.Recipes), ids(second.Recipes))
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, int64(1), mgr.Stats().Hits)

	// 不同餐別使用不同的快取鍵，結果帶有新的餐別
	third, err := svc.Suggest(ctx, "u1", []string{"cebolla", "pimientos"}, at(20))
	require.NoError(t, err)
	assert.Equal(t, 2, c.sets)
	for _, r := range third.Recipes {
		assert.Equal(t, MealDinner, r.MealType)
	}
}

func TestSuggestMarksFavorites(t *testing.T) {
	favs := &fakeFavorites{}
	svc := newTestService(t, favs, nil, nil, DefaultMaxResults)
	ctx := context.Background()

	r, err := svc.SetFavorite(ctx, "u1", "3", true)
	require.NoError(t, err)
	assert.True(t, r.IsFavorite)

	got, err := svc.Suggest(ctx, "u1", []string{"cebolla", "pimientos"}, at(13))
	require.NoError(t, err)
	require.Len(t, got.Recipes, 2)
	assert.False(t, got.Recipes[0].IsFavorite)
	assert.True(t, got.Recipes[1].IsFavorite)

	// 其他使用者不受影響
	other, err := svc.Suggest(ctx, "u2", []string{"cebolla", "pimientos"}, at(13))
	require.NoError(t, err)
	assert.False(t, other.Recipes[1].IsFavorite)
}

func TestSetFavoriteUnknownRecipe(t *testing.T) {
	svc := newTestService(t, &fakeFavorites{}, nil, nil, DefaultMaxResults)

	_, err := svc.SetFavorite(context.Background(), "u1", "nope", true)
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)
}

func TestFavorites(t *testing.T) {
	favs := &fakeFavorites{}
	svc := newTestService(t, favs, nil, nil, DefaultMaxResults)
	ctx := context.Background()

	_, err := svc.SetFavorite(ctx, "u1", "3", true)
	require.NoError(t, err)
	_, err = svc.SetFavorite(ctx, "u1", "1", true)
	require.NoError(t, err)
	_, err = svc.SetFavorite(ctx, "u1", "3", false)
	require.NoError(t, err)

	got, err := svc.Favorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.True(t, got[0].IsFavorite)
}

func TestFavoritesStoreError(t *testing.T) {
	svc := newTestService(t, &fakeFavorites{err: errors.New("db down")}, nil, nil, DefaultMaxResults)

	_, err := svc.Suggest(context.Background(), "u1", []string{"cebolla", "pimientos"}, at(13))
	assert.Error(t, err)
}
