package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/pkg/util"
	"github.com/KeaPin/gameshare/internal/service"
)

// ArticleHandler 文章 API Handler
type ArticleHandler struct {
	svc *service.ArticleService
}

// NewArticleHandler 创建 ArticleHandler
func NewArticleHandler(svc *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// List GET /api/v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), queryParams(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /api/v1/article/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrArticleNotFound) {
			response.NotFound(c, "article not found")
			return
		}
		response.Fail(c, err)
		return
	}

	h.svc.RecordView(id)
	response.Success(c, detail)
}

// Featured GET /api/v1/articles/featured
func (h *ArticleHandler) Featured(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Top GET /api/v1/articles/top
func (h *ArticleHandler) Top(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 5)
	list, err := h.svc.GetTop(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Popular GET /api/v1/articles/popular
func (h *ArticleHandler) Popular(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetPopular(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}
