package recipe

import "context"

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid 是否為已知難度
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MealType 餐別
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var mealLabels = map[MealType]string{
	MealBreakfast: "Desayuno",
	MealLunch:     "Almuerzo",
	MealDinner:    "Cena",
	MealSnack:     "Merienda",
}

// Label 餐別顯示名稱
func (m MealType) Label() string {
	return mealLabels[m]
}

// Recipe 食譜
type Recipe struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description" yaml:"description"`
	Ingredients  []string   `json:"ingredients" yaml:"ingredients"`
	Instructions []string   `json:"instructions" yaml:"instructions"`
	PrepTime     int        `json:"prep_time" yaml:"prep_time"`
	CookTime     int        `json:"cook_time" yaml:"cook_time"`
	Servings     int        `json:"servings" yaml:"servings"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	MealType     MealType   `json:"meal_type" yaml:"meal_type,omitempty"`
	Tags         []string   `json:"tags" yaml:"tags"`
	IsFavorite   bool       `json:"is_favorite" yaml:"-"`
}

// clone 深拷貝，避免回傳值修改到目錄
func (r Recipe) clone() Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Instructions = append([]string(nil), r.Instructions...)
	r.Tags = append([]string(nil), r.Tags...)
	return r
}

// FavoriteStore 收藏持久層介面
type FavoriteStore interface {
	SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) error
	ListFavorites(ctx context.Context, userID string) ([]string, error)
}
