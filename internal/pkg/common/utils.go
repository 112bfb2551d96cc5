package common

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultUserID 未帶使用者標頭時使用的本地使用者
const DefaultUserID = "local-user"

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ResolveUserID 取得請求所屬使用者，空白時回到本地使用者
func ResolveUserID(header string) string {
	if id := strings.TrimSpace(header); id != "" {
		return id
	}
	return DefaultUserID
}
