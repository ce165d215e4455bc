package mgt

import (
	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// CacheHandler 缓存管理 API Handler
type CacheHandler struct {
	category *service.CategoryService
	resource *service.ResourceService
	article  *service.ArticleService
}

// NewCacheHandler 创建CacheHandler
func NewCacheHandler(category *service.CategoryService, resource *service.ResourceService, article *service.ArticleService) *CacheHandler {
	return &CacheHandler{category: category, resource: resource, article: article}
}

// Flush POST /api/mgt/cache/flush
func (h *CacheHandler) Flush(c *gin.Context) {
	h.category.FlushCache()
	h.resource.FlushCache()
	h.article.FlushCache()
	response.SuccessWithMsg(c, nil, "cache flushed")
}
