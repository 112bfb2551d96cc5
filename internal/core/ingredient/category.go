package ingredient

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category 食材分類，封閉集合，無法辨識時一律為 CategoryOther
type Category string

const (
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryGrains     Category = "grains"
	CategorySpices     Category = "spices"
	CategorySeafood    Category = "seafood"
	CategoryLegumes    Category = "legumes"
	CategoryOils       Category = "oils"
	CategoryOther      Category = "other"
)

// categoryKeywords 分類關鍵字；順序即比對優先順序，先命中者勝出
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryDairy, []string{"leche", "queso", "yogur", "mantequilla", "crema"}},
	{CategoryMeat, []string{"pollo", "carne de res", "cerdo", "pavo", "jamón"}},
	{CategoryVegetables, []string{"cebolla", "tomate", "zanahoria", "pimientos", "ajo"}},
	{CategoryFruits, []string{"manzana", "plátano", "naranja", "limón", "fresas"}},
	{CategoryGrains, []string{"arroz", "pasta", "pan", "quinoa", "avena"}},
	{CategorySpices, []string{"sal", "pimienta", "orégano", "comino", "paprika"}},
	{CategorySeafood, []string{"salmón", "camarones", "atún", "bacalao", "mejillones"}},
	{CategoryLegumes, []string{"frijoles", "lentejas", "garbanzos", "guisantes", "habas"}},
	{CategoryOils, []string{"aceite de oliva", "aceite vegetal", "mantequilla", "aceite de coco"}},
	{CategoryOther, []string{"huevos", "vinagre", "azúcar", "harina", "levadura"}},
}

// categoryLabels 顯示用名稱
var categoryLabels = map[Category]string{
	CategoryDairy:      "Lácteos",
	CategoryMeat:       "Carnes",
	CategoryVegetables: "Verduras",
	CategoryFruits:     "Frutas",
	CategoryGrains:     "Granos",
	CategorySpices:     "Especias",
	CategorySeafood:    "Mariscos",
	CategoryLegumes:    "Legumbres",
	CategoryOils:       "Aceites",
	CategoryOther:      "Otros",
}

// Categories 依比對順序回傳所有分類
func Categories() []Category {
	out := make([]Category, 0, len(categoryKeywords))
	for _, entry := range categoryKeywords {
		out = append(out, entry.category)
	}
	return out
}

// Valid 是否為已知分類
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label 分類的顯示名稱
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// Keywords 分類的關鍵字副本
func (c Category) Keywords() []string {
	for _, entry := range categoryKeywords {
		if entry.category == c {
			return append([]string(nil), entry.keywords...)
		}
	}
	return nil
}

// Normalize 統一食材名稱：NFC、轉小寫、去除前後空白
func Normalize(name string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(name)))
}

// Related 雙向包含：任一方為另一方的子字串即視為相關。
// 兩者需已正規化；空字串永遠不相關。
func Related(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Classify 依關鍵字將食材名稱歸類，無命中時回傳 CategoryOther
func Classify(name string) Category {
	normalized := Normalize(name)
	if normalized == "" {
		return CategoryOther
	}

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if Related(normalized, keyword) {
				return entry.category
			}
		}
	}

	return CategoryOther
}
