package recipe

import (
	"fmt"
	"time"
)

// DefaultDinnerEndHour 晚餐時段結束時間（不含）
const DefaultDinnerEndHour = 22

// MealBoundaries 餐別時段邊界，皆為 [start, end) 的小時
type MealBoundaries struct {
	BreakfastStart int
	LunchStart     int
	DinnerStart    int
	DinnerEnd      int
}

// DefaultBoundaries 預設時段：早餐 6-11、午餐 11-16、晚餐 16-22，其餘為點心
func DefaultBoundaries() MealBoundaries {
	return MealBoundaries{
		BreakfastStart: 6,
		LunchStart:     11,
		DinnerStart:    16,
		DinnerEnd:      DefaultDinnerEndHour,
	}
}

// WithDinnerEnd 回傳調整晚餐結束時間後的邊界
func (b MealBoundaries) WithDinnerEnd(hour int) MealBoundaries {
	b.DinnerEnd = hour
	return b
}

// Validate 檢查邊界是否遞增且落在 0-24
func (b MealBoundaries) Validate() error {
	if b.BreakfastStart < 0 || b.DinnerEnd > 24 {
		return fmt.Errorf("meal boundaries must be within 0-24")
	}
	if !(b.BreakfastStart < b.LunchStart && b.LunchStart < b.DinnerStart && b.DinnerStart < b.DinnerEnd) {
		return fmt.Errorf("meal boundaries must be strictly increasing")
	}
	return nil
}

// SlotAt 依小時決定餐別
func (b MealBoundaries) SlotAt(hour int) MealType {
	switch {
	case hour >= b.BreakfastStart && hour < b.LunchStart:
		return MealBreakfast
	case hour >= b.LunchStart && hour < b.DinnerStart:
		return MealLunch
	case hour >= b.DinnerStart && hour < b.DinnerEnd:
		return MealDinner
	default:
		return MealSnack
	}
}

// Slot 依時間（使用其所在時區）決定餐別
func (b MealBoundaries) Slot(now time.Time) MealType {
	return b.SlotAt(now.Hour())
}
