package seo

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// CanonicalService 规范URL服务
type CanonicalService struct {
	baseURL string
}

// NewCanonicalService 创建Canonical服务
func NewCanonicalService(baseURL string) *CanonicalService {
	return &CanonicalService{baseURL: baseURL}
}

// GenerateURL 生成规范URL
// 规则：移除所有查询参数，只保留纯路径
func (s *CanonicalService) GenerateURL(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	return s.baseURL + path
}

// GenerateResourceURL 资源详情页规范URL
func (s *CanonicalService) GenerateResourceURL(id string) string {
	return fmt.Sprintf("%s/games/%s", s.baseURL, id)
}

// GenerateArticleURL 文章详情页规范URL
func (s *CanonicalService) GenerateArticleURL(id string) string {
	return fmt.Sprintf("%s/articles/%s", s.baseURL, id)
}

// GenerateCategoryURL 分类页规范URL
func (s *CanonicalService) GenerateCategoryURL(alias string) string {
	return fmt.Sprintf("%s/category/%s", s.baseURL, alias)
}

// CanonicalMW 中间件：自动设置Canonical Header
func (s *CanonicalService) CanonicalMW() gin.HandlerFunc {
	return func(c *gin.Context) {
		canonicalURL := s.GenerateURL(c.Request.URL.Path)
		c.Header("Link", fmt.Sprintf("<%s>; rel=\"canonical\"", canonicalURL))
		c.Next()
	}
}
