package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeai/internal/api/handlers"
	"recipeai/internal/core/recipe"
	"recipeai/internal/pkg/common"
)

// IngredientRef 請求中的食材，可為字串或帶 name 的物件
type IngredientRef string

// UnmarshalJSON 接受 "tomate" 或 {"name": "tomate", ...}
func (r *IngredientRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = IngredientRef(s)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("ingredient must be a string or an object with name: %w", err)
	}
	*r = IngredientRef(obj.Name)
	return nil
}

// GenerateRequest 產生建議的請求；未帶 ingredients 時使用已儲存的食材
type GenerateRequest struct {
	Ingredients []IngredientRef `json:"ingredients"`
	Hour        *int            `json:"hour,omitempty"`
}

// FavoriteRequest 收藏切換請求
type FavoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required"`
}

// Handler 食譜處理程序
type Handler struct {
	service  *recipe.Service
	location *time.Location
	now      func() time.Time
	debug    bool
}

// NewHandler 創建新的食譜處理程序；location 決定餐別使用的時區
func NewHandler(service *recipe.Service, location *time.Location, debug bool) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		service:  service,
		location: location,
		now:      time.Now,
		debug:    debug,
	}
}

// Generate 依食材與目前餐別產生食譜建議
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if c.Request.ContentLength != 0 {
		// chunked 傳輸的空請求體長度為 -1，讀到 EOF 視同未帶請求體
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			common.LogWarn("Invalid recipe request",
				zap.Error(err),
				zap.String("client_ip", c.ClientIP()),
			)
			handlers.BadRequest(c, "invalid request format")
			return
		}
	}

	now := h.now().In(h.location)
	if req.Hour != nil {
		if *req.Hour < 0 || *req.Hour > 23 {
			handlers.BadRequest(c, "hour must be within 0-23")
			return
		}
		now = time.Date(now.Year(), now.Month(), now.Day(), *req.Hour, 0, 0, 0, h.location)
	}

	var available []string
	if req.Ingredients != nil {
		available = make([]string, 0, len(req.Ingredients))
		for _, ref := range req.Ingredients {
			available = append(available, string(ref))
		}
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), handlers.UserID(c), available, now)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// Favorites 列出收藏的食譜
func (h *Handler) Favorites(c *gin.Context) {
	recipes, err := h.service.Favorites(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// ToggleFavorite 設定或取消收藏
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "is_favorite is required")
		return
	}

	id := c.Param("id")
	r, err := h.service.SetFavorite(c.Request.Context(), handlers.UserID(c), id, *req.IsFavorite)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"id":          r.ID,
		"is_favorite": r.IsFavorite,
		"recipe":      r,
	})
}

// Catalog 列出完整目錄
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog().Recipes())
}
