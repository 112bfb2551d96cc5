package recipe

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var seedCatalog []byte

// Catalog 唯讀的食譜目錄，程式啟動時載入一次
type Catalog struct {
	recipes []Recipe
	byID    map[string]int
}

type catalogFile struct {
	Recipes []Recipe `yaml:"recipes"`
}

// SeedCatalog 內建的種子目錄
func SeedCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(seedCatalog))
}

// LoadCatalogFile 從 YAML 檔載入目錄，path 為空時使用種子目錄
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return SeedCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog 解析 YAML 目錄並驗證內容
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(file.Recipes)
}

// NewCatalog 由食譜清單建立目錄
func NewCatalog(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	for i, r := range recipes {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("recipe #%d has no id", i)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("recipe %q has no name", r.ID)
		}
		if r.Difficulty == "" {
			r.Difficulty = DifficultyEasy
		}
		if !r.Difficulty.Valid() {
			return nil, fmt.Errorf("recipe %q has unknown difficulty %q", r.ID, r.Difficulty)
		}
		r.IsFavorite = false
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r.clone())
	}
	return c, nil
}

// Recipes 目錄中所有食譜（副本）
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.clone()
	}
	return out
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Find 依 ID 取得食譜
func (c *Catalog) Find(id string) (Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i].clone(), true
}
