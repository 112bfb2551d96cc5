package recipe

import (
	"time"

	"recipeai/internal/core/ingredient"
)

// MatchResult 比對結果
type MatchResult struct {
	Slot    MealType `json:"meal_type"`
	Recipes []Recipe `json:"recipes"`
}

// Threshold 食譜入選所需的最少相符食材數：floor(0.4 * total)
func Threshold(total int) int {
	return total * 2 / 5
}

// CountMatches 計算食譜中有多少食材可由現有食材滿足；available 需先經 NormalizeAvailable
func CountMatches(required []string, available []string) int {
	count := 0
	for _, req := range required {
		normalized := ingredient.Normalize(req)
		for _, have := range available {
			if ingredient.Related(normalized, have) {
				count++
				break
			}
		}
	}
	return count
}

// Qualifies 判斷食譜是否入選。
// 相符數量達到 floor(0.4*n) 即入選；兩項以下食材的食譜門檻為 0，必定入選。
func Qualifies(required []string, available []string) bool {
	return CountMatches(required, available) >= Threshold(len(required))
}

// NormalizeAvailable 正規化現有食材名稱，去除空白與重複
func NormalizeAvailable(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := ingredient.Normalize(name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Match 從目錄中挑出與現有食材足夠重疊的食譜，保持目錄順序。
// 每筆結果的餐別皆為 now 所在的時段。
func Match(catalog []Recipe, available []string, now time.Time, bounds MealBoundaries) MatchResult {
	slot := bounds.Slot(now)
	normalized := NormalizeAvailable(available)

	matched := make([]Recipe, 0, len(catalog))
	for _, r := range catalog {
		if !Qualifies(r.Ingredients, normalized) {
			continue
		}
		suggestion := r.clone()
		suggestion.MealType = slot
		matched = append(matched, suggestion)
	}

	return MatchResult{Slot: slot, Recipes: matched}
}
