package ingredient

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeai/internal/api/handlers"
	"recipeai/internal/core/ingredient"
	"recipeai/internal/pkg/common"
)

// CategoryInfo 分類與其顯示名稱、關鍵字
type CategoryInfo struct {
	Category ingredient.Category `json:"category"`
	Label    string              `json:"label"`
	Keywords []string            `json:"keywords"`
}

// Handler 食材處理程序
type Handler struct {
	service *ingredient.Service
	debug   bool
}

// NewHandler 創建新的食材處理程序
func NewHandler(service *ingredient.Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// List 列出使用者食材
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create 新增食材；請求體可為單一物件或物件陣列
func (h *Handler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		handlers.BadRequest(c, "request body is required")
		return
	}

	userID := handlers.UserID(c)
	if trimmed[0] == '[' {
		var inputs []ingredient.AddInput
		if err := common.ParseJSONBytes(trimmed, &inputs); err != nil {
			handlers.BadRequest(c, "invalid ingredient list")
			return
		}
		if len(inputs) == 0 {
			handlers.BadRequest(c, "ingredient list is empty")
			return
		}
		items, err := h.service.AddMany(c.Request.Context(), userID, inputs)
		if err != nil {
			handlers.RespondError(c, err, h.debug)
			return
		}
		c.JSON(http.StatusCreated, items)
		return
	}

	var input ingredient.AddInput
	if err := common.ParseJSONBytes(trimmed, &input); err != nil {
		handlers.BadRequest(c, "invalid ingredient")
		return
	}
	item, err := h.service.Add(c.Request.Context(), userID, input)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogDebug("Ingredient classified",
		zap.String("name", item.Name),
		zap.String("category", string(item.Category)),
	)
	c.JSON(http.StatusCreated, item)
}

// Delete 刪除單筆食材
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), handlers.UserID(c), id); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// Clear 清空使用者食材
func (h *Handler) Clear(c *gin.Context) {
	n, err := h.service.Clear(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// Categories 列出所有分類
func (h *Handler) Categories(c *gin.Context) {
	cats := ingredient.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryInfo{
			Category: cat,
			Label:    cat.Label(),
			Keywords: cat.Keywords(),
		})
	}
	c.JSON(http.StatusOK, out)
}
