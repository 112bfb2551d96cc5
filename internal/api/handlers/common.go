package handlers

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeai/internal/pkg/common"
)

// UserIDHeader 指定使用者的請求標頭
const UserIDHeader = "X-User-ID"

// UserID 取得請求所屬的使用者
func UserID(c *gin.Context) string {
	return common.ResolveUserID(c.GetHeader(UserIDHeader))
}

// RespondError 將錯誤轉為統一的 JSON 響應並中止請求
func RespondError(c *gin.Context, err error, debug bool) {
	status, resp := common.ToResponse(err, debug)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("code", resp.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogWarn("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// BadRequest 以驗證錯誤回應 400
func BadRequest(c *gin.Context, message string) {
	RespondError(c, common.NewValidationError(message), false)
}
