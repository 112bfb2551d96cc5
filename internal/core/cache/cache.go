package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Cache 建議結果快取介面；未命中時回傳 common.ErrCacheMiss
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key 以命名空間與一組值產生與順序無關的快取鍵
func Key(namespace string, parts []string) string {
	sorted := append([]string(nil), parts...)
	sort.Strings(sorted)
	hash := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// Noop 停用快取時使用，永遠未命中
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", errMiss }
func (Noop) Set(context.Context, string, string) error   { return nil }
func (Noop) Close() error                                { return nil }
