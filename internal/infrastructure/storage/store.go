package storage

import (
	"context"
	"fmt"
	"time"

	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/receipt"
	"recipeai/internal/infrastructure/config"
	"recipeai/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store 以 gorm 實作食材、收藏與收據的持久層
type Store struct {
	db *gorm.DB
}

// Open 依設定開啟資料庫並執行遷移
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite 同時只允許一個寫入者
	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store, err := New(db)
	if err != nil {
		return nil, err
	}

	common.LogInfo("Database connection established",
		zap.String("driver", cfg.Driver),
	)
	return store, nil
}

// New 以既有連線建立 Store 並自動遷移
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&ingredientModel{}, &favoriteModel{}, &receiptModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping 檢查連線是否可用
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉連線
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateIngredients 在同一交易中寫入多筆食材
func (s *Store) CreateIngredients(ctx context.Context, items []ingredient.Ingredient) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]ingredientModel, len(items))
	for i, item := range items {
		rows[i] = ingredientFromDomain(item)
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// ListIngredients 依加入時間排序列出使用者食材
func (s *Store) ListIngredients(ctx context.Context, userID string) ([]ingredient.Ingredient, error) {
	var rows []ingredientModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ingredient.Ingredient, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// DeleteIngredient 刪除使用者的單筆食材，不存在時回傳 ErrNotFound
func (s *Store) DeleteIngredient(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&ingredientModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ClearIngredients 刪除使用者的所有食材
func (s *Store) ClearIngredients(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&ingredientModel{})
	return res.RowsAffected, res.Error
}

// SetFavorite 設定或取消收藏
func (s *Store) SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) error {
	db := s.db.WithContext(ctx)
	if !favorite {
		return db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&favoriteModel{}).Error
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favoriteModel{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}).Error
}

// ListFavorites 使用者收藏的食譜 ID
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("recipe_id", &ids).Error
	return ids, err
}

// CreateReceipt 寫入新收據
func (s *Store) CreateReceipt(ctx context.Context, r *receipt.Receipt) error {
	row, err := receiptFromDomain(r)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// UpdateReceipt 更新收據狀態與擷取結果
func (s *Store) UpdateReceipt(ctx context.Context, r *receipt.Receipt) error {
	row, err := receiptFromDomain(r)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	res := s.db.WithContext(ctx).
		Model(&receiptModel{}).
		Where("id = ?", r.ID).
		Updates(map[string]interface{}{
			"status":                row.Status,
			"extracted_ingredients": row.ExtractedIngredients,
			"error":                 row.Error,
			"processed_at":          row.ProcessedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListReceipts 依上傳時間由新到舊列出收據
func (s *Store) ListReceipts(ctx context.Context, userID string) ([]receipt.Receipt, error) {
	var rows []receiptModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]receipt.Receipt, 0, len(rows))
	for _, row := range rows {
		r, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode receipt %s: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}
