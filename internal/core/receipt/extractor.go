package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"recipeai/internal/core/ingredient"
)

// DefaultUnit 未辨識到單位時使用的預設單位
const DefaultUnit = "unidad"

var (
	// pricePattern 整行只有金額（例如 3.50、12,99）
	pricePattern = regexp.MustCompile(`^\d+[.,]\d+$`)

	// quantityPattern 數量與可選單位。單位後不可緊接任何字母或數字（含重音字母），
	// 避免把 "2 leche"、"1 lúcuma" 的 l 當成公升；RE2 的 \b 只認 ASCII。
	quantityPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:(kg|g|l|ml|unid|u)(?:[^\p{L}\p{N}_]|$))?`)

	// stripPattern 移除所有數量與單位片段；單位後的非空白標點以第一組保留
	stripPattern = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:(?:kg|g|l|ml|unid|u)(?:\s+|$|([^\p{L}\p{N}_\s])))?\s*`)
)

// ExtractedIngredient 從收據單行擷取出的食材
type ExtractedIngredient struct {
	Name     string              `json:"name"`
	Quantity float64             `json:"quantity"`
	Unit     string              `json:"unit"`
	Category ingredient.Category `json:"category"`
}

// Extract 將 OCR 原始文字逐行轉為食材候選。
// 空行、純金額行以及名稱不足兩個字元的行會被略過。
func Extract(rawText string) []ExtractedIngredient {
	lines := strings.Split(rawText, "\n")
	out := make([]ExtractedIngredient, 0, len(lines))

	for _, line := range lines {
		if item, ok := ExtractLine(line); ok {
			out = append(out, item)
		}
	}
	return out
}

// ExtractLine 處理單行文字，第二個回傳值表示是否產出食材
func ExtractLine(line string) (ExtractedIngredient, bool) {
	clean := strings.TrimSpace(line)
	if clean == "" || pricePattern.MatchString(clean) {
		return ExtractedIngredient{}, false
	}

	quantity, unit := parseQuantity(clean)

	name := strings.TrimSpace(stripPattern.ReplaceAllString(clean, "${1}"))
	if utf8.RuneCountInString(name) <= 1 {
		return ExtractedIngredient{}, false
	}

	return ExtractedIngredient{
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
		Category: ingredient.Classify(name),
	}, true
}

// parseQuantity 取第一個數量片段，逗號視為小數點；找不到時為 1
func parseQuantity(line string) (float64, string) {
	m := quantityPattern.FindStringSubmatch(line)
	if m == nil {
		return 1, DefaultUnit
	}

	quantity, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		quantity = 1
	}

	unit := strings.ToLower(m[2])
	if unit == "" {
		unit = DefaultUnit
	}
	return quantity, unit
}
