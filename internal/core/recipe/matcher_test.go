package recipe

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2024, 5, 1, hour, 30, 0, 0, time.UTC)
}

func seed(t *testing.T) []Recipe {
	t.Helper()
	c, err := SeedCatalog()
	require.NoError(t, err)
	return c.Recipes()
}

func ids(recipes []Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestThreshold(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 2, 6: 2, 10: 4}
	for total, want := range cases {
		assert.Equal(t, want, Threshold(total), "threshold(%d)", total)
	}
}

func TestMatchSeedCatalog(t *testing.T) {
	catalog := seed(t)

	tests := []struct {
		name      string
		available []string
		want      []string
	}{
		{"salad ingredients", []string{"pollo", "lechuga", "aguacate"}, []string{"2"}},
		{"single shared ingredient is not enough", []string{"tomate"}, []string{}},
		{"two of six reaches threshold", []string{"tomate", "cebolla"}, []string{"1"}},
		{"catalog order preserved", []string{"pimientos", "cebolla"}, []string{"1", "3"}},
		{"containment both ways", []string{"Pimiento", "CEBOLLA morada"}, []string{"1", "3"}},
		{"empty pantry", nil, []string{}},
		{"duplicates count once", []string{"tomate", "tomate", " Tomate "}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(catalog, tt.available, at(13), DefaultBoundaries())
			if diff := cmp.Diff(tt.want, ids(got.Recipes)); diff != "" {
				t.Errorf("Match() ids mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, MealLunch, got.Slot)
		})
	}
}

func TestMatchStampsCurrentSlot(t *testing.T) {
	catalog := seed(t)
	got := Match(catalog, []string{"cebolla", "pimientos"}, at(8), DefaultBoundaries())

	require.Len(t, got.Recipes, 2)
	for _, r := range got.Recipes {
		assert.Equal(t, MealBreakfast, r.MealType)
	}
	// 目錄本身不被修改
	assert.Empty(t, catalog[0].MealType)
}

func TestMatchResultIsSubsetOfCatalog(t *testing.T) {
	catalog := seed(t)
	byID := map[string]Recipe{}
	for _, r := range catalog {
		byID[r.ID] = r
	}

	got := Match(catalog, []string{"arroz", "zanahoria", "cebolla", "pollo", "tomate"}, at(19), DefaultBoundaries())
	for _, r := range got.Recipes {
		orig, ok := byID[r.ID]
		require.True(t, ok)
		assert.Equal(t, orig.Name, r.Name)
		assert.GreaterOrEqual(t, CountMatches(r.Ingredients, NormalizeAvailable([]string{"arroz", "zanahoria", "cebolla", "pollo", "tomate"})), Threshold(len(r.Ingredients)))
	}
}

func TestSmallRecipesHaveZeroThreshold(t *testing.T) {
	catalog := []Recipe{
		{ID: "a", Name: "Huevo frito", Ingredients: []string{"huevo", "aceite"}},
		{ID: "b", Name: "Agua", Ingredients: nil},
		{ID: "c", Name: "Arroz con leche", Ingredients: []string{"arroz", "leche", "azúcar"}},
	}

	got := Match(catalog, nil, at(13), DefaultBoundaries())
	assert.Equal(t, []string{"a", "b"}, ids(got.Recipes))

	got = Match(catalog, []string{"pollo"}, at(13), DefaultBoundaries())
	assert.Equal(t, []string{"a", "b"}, ids(got.Recipes))

	got = Match(catalog, []string{"huevos", "leche"}, at(13), DefaultBoundaries())
	assert.Equal(t, []string{"a", "b", "c"}, ids(got.Recipes))
}

func TestCountMatches(t *testing.T) {
	available := NormalizeAvailable([]string{"aceite", "Tomate"})
	assert.Equal(t, 2, CountMatches([]string{"aceite de oliva", "tomate", "pasta"}, available))
	assert.Equal(t, 0, CountMatches([]string{"pollo"}, available))
	assert.Equal(t, 0, CountMatches(nil, available))
}

func TestNormalizeAvailable(t *testing.T) {
	got := NormalizeAvailable([]string{" Pollo", "pollo", "", "  ", "ARROZ"})
	assert.Equal(t, []string{"pollo", "arroz"}, got)
	assert.NotNil(t, NormalizeAvailable(nil))
}
