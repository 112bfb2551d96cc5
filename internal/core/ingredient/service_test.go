package ingredient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeai/internal/pkg/common"
)

type memoryStore struct {
	mu    sync.Mutex
	items []Ingredient
	err   error
}

func (s *memoryStore) CreateIngredients(_ context.Context, items []Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, items...)
	return nil
}

func (s *memoryStore) ListIngredients(_ context.Context, userID string) ([]Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Ingredient
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, s.err
}

func (s *memoryStore) DeleteIngredient(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id && it.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *memoryStore) ClearIngredients(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var n int64
	for _, it := range s.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return n, nil
}

type countingObserver struct {
	counts map[string]int
}

func (o *countingObserver) ObserveClassification(category string) {
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[category]++
}

func newTestService(store Store, obs Observer) *Service {
	s := NewService(store, obs)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestServiceAdd(t *testing.T) {
	store := &memoryStore{}
	obs := &countingObserver{}
	svc := newTestService(store, obs)

	qty := 2.0
	item, err := svc.Add(context.Background(), "u1", AddInput{Name: "  Tomate ", Quantity: &qty, Unit: " kg "})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "u1", item.UserID)
	assert.Equal(t, "Tomate", item.Name)
	assert.Equal(t, CategoryVegetables, item.Category)
	assert.Equal(t, "kg", item.Unit)
	assert.Equal(t, SourceManual, item.Source)
	assert.Equal(t, 2.0, *item.Quantity)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), item.AddedAt)
	assert.Equal(t, 1, obs.counts["vegetables"])
	assert.Len(t, store.items, 1)
}

func TestServiceAddValidation(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	neg := -1.0

	tests := []struct {
		name string
		in   AddInput
	}{
		{"empty name", AddInput{Name: "  "}},
		{"negative quantity", AddInput{Name: "pollo", Quantity: &neg}},
		{"unknown source", AddInput{Name: "pollo", Source: "fridge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), "u1", tt.in)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
		})
	}
}

func TestServiceAddManyKeepsInputOrder(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)

	items, err := svc.AddMany(context.Background(), "u1", []AddInput{{Name: "tomate"}, {Name: "arroz"}, {Name: "leche"}})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), items[0].AddedAt)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].AddedAt.Before(items[i].AddedAt), "item %d", i)
	}
}

func TestServiceAddManyIsAllOrNothing(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)

	_, err := svc.AddMany(context.Background(), "u1", []AddInput{{Name: "pollo"}, {Name: ""}})
	require.Error(t, err)
	assert.Empty(t, store.items)

	items, err := svc.AddMany(context.Background(), "u1", []AddInput{
		{Name: "pollo", Source: SourceReceipt},
		{Name: "arroz", Source: SourceReceipt},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, CategoryMeat, items[0].Category)
	assert.Equal(t, CategoryGrains, items[1].Category)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestServiceStoreError(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	svc := newTestService(store, nil)

	_, err := svc.Add(context.Background(), "u1", AddInput{Name: "pollo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestServiceNamesDeleteClear(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	added, err := svc.AddMany(ctx, "u1", []AddInput{{Name: "pollo"}, {Name: "lechuga"}})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u2", AddInput{Name: "queso"})
	require.NoError(t, err)

	names, err := svc.Names(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pollo", "lechuga"}, names)

	require.NoError(t, svc.Delete(ctx, "u1", added[0].ID))
	err = svc.Delete(ctx, "u1", added[0].ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	n, err := svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
