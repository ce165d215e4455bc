package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/pkg/util"
	"github.com/KeaPin/gameshare/internal/service"
)

// SearchHandler 全站搜索 Handler
type SearchHandler struct {
	resource *service.ResourceService
	article  *service.ArticleService
}

// NewSearchHandler 创建 SearchHandler
func NewSearchHandler(resource *service.ResourceService, article *service.ArticleService) *SearchHandler {
	return &SearchHandler{resource: resource, article: article}
}

// Search GET /api/v1/search?q=...
// 资源和文章各自分页，一次响应返回两个结果集
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "missing query parameter: q")
		return
	}

	params := model.QueryParams{
		Page:   util.QueryInt(c.Query("page"), model.DefaultPage),
		Limit:  util.QueryInt(c.Query("limit"), model.DefaultLimit),
		Search: q,
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	}

	resources, err := h.resource.List(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	articles, err := h.article.List(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"resources": resources,
		"articles":  articles,
	})
}
