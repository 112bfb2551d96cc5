package storage

import (
	"time"

	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/receipt"
	"recipeai/internal/pkg/common"
)

// ingredientModel 食材資料表
type ingredientModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Category  string `gorm:"size:32"`
	Quantity  *float64
	Unit      string
	Source    string    `gorm:"size:16"`
	CreatedAt time.Time `gorm:"index"`
}

func (ingredientModel) TableName() string { return "ingredients" }

func ingredientFromDomain(in ingredient.Ingredient) ingredientModel {
	return ingredientModel{
		ID:        in.ID,
		UserID:    in.UserID,
		Name:      in.Name,
		Category:  string(in.Category),
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Source:    string(in.Source),
		CreatedAt: in.AddedAt,
	}
}

func (m ingredientModel) toDomain() ingredient.Ingredient {
	category := ingredient.Category(m.Category)
	if !category.Valid() {
		category = ingredient.CategoryOther
	}
	return ingredient.Ingredient{
		ID:       m.ID,
		UserID:   m.UserID,
		Name:     m.Name,
		Category: category,
		Quantity: m.Quantity,
		Unit:     m.Unit,
		Source:   ingredient.Source(m.Source),
		AddedAt:  m.CreatedAt,
	}
}

// favoriteModel 收藏資料表
type favoriteModel struct {
	UserID    string `gorm:"primaryKey"`
	RecipeID  string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (favoriteModel) TableName() string { return "recipe_favorites" }

// receiptModel 收據資料表，擷取結果以 JSON 文字保存
type receiptModel struct {
	ID                   string `gorm:"primaryKey;size:36"`
	UserID               string `gorm:"index;not null"`
	Filename             string `gorm:"not null"`
	Path                 string
	Status               string `gorm:"size:16;default:pending"`
	ExtractedIngredients string `gorm:"type:text"`
	Error                string
	CreatedAt            time.Time `gorm:"index"`
	ProcessedAt          *time.Time
}

func (receiptModel) TableName() string { return "receipts" }

func receiptFromDomain(r *receipt.Receipt) (receiptModel, error) {
	items := r.ExtractedIngredients
	if items == nil {
		items = []receipt.ExtractedIngredient{}
	}
	encoded, err := common.ToJSON(items)
	if err != nil {
		return receiptModel{}, err
	}
	return receiptModel{
		ID:                   r.ID,
		UserID:               r.UserID,
		Filename:             r.Filename,
		Path:                 r.Path,
		Status:               string(r.Status),
		ExtractedIngredients: encoded,
		Error:                r.Error,
		CreatedAt:            r.UploadedAt,
		ProcessedAt:          r.ProcessedAt,
	}, nil
}

func (m receiptModel) toDomain() (receipt.Receipt, error) {
	var items []receipt.ExtractedIngredient
	if m.ExtractedIngredients != "" {
		if err := common.ParseJSON(m.ExtractedIngredients, &items); err != nil {
			return receipt.Receipt{}, err
		}
	}
	return receipt.Receipt{
		ID:                   m.ID,
		UserID:               m.UserID,
		Filename:             m.Filename,
		Path:                 m.Path,
		Status:               receipt.Status(m.Status),
		ExtractedIngredients: items,
		Error:                m.Error,
		UploadedAt:           m.CreatedAt,
		ProcessedAt:          m.ProcessedAt,
	}, nil
}
