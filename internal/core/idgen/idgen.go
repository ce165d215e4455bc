package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// 主键是应用侧生成的 32 位小写十六进制字符串，不用数据库自增序列。

// Generate 生成 32 位十六进制主键
// 熵源耗尽视为不可恢复，直接 panic。
func Generate() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("idgen: entropy source exhausted: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// GenerateUUID 生成去掉连字符的 v4 UUID（同样 32 位十六进制）
func GenerateUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValid 校验 32 位十六进制主键格式
func IsValid(id string) bool {
	if len(id) != 32 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
