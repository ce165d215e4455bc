package mgt

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// ArticleHandler 文章管理 API Handler
type ArticleHandler struct {
	svc *service.ArticleService
}

// NewArticleHandler 创建文章管理 Handler
func NewArticleHandler(svc *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// ArticleRequest 创建文章请求
type ArticleRequest struct {
	Title       string   `json:"title" binding:"required"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content" binding:"required"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
	IsFeatured  bool     `json:"is_featured"`
	IsTop       bool     `json:"is_top"`
	CategoryIDs []string `json:"category_ids"`
}

// Create POST /api/mgt/article
func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article := &model.Article{
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		Thumbnail:  req.Thumbnail,
		Tags:       req.Tags,
		IsFeatured: model.FlexBool(req.IsFeatured),
		IsTop:      model.FlexBool(req.IsTop),
	}

	id, err := h.svc.Create(c.Request.Context(), article, req.CategoryIDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Update PUT /api/mgt/article/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article := &model.Article{
		ID:         c.Param("id"),
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		Thumbnail:  req.Thumbnail,
		Tags:       req.Tags,
		IsFeatured: model.FlexBool(req.IsFeatured),
		IsTop:      model.FlexBool(req.IsTop),
	}

	if err := h.svc.Update(c.Request.Context(), article); err != nil {
		if errors.Is(err, apperr.ErrArticleNotFound) {
			response.NotFound(c, "article not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "article updated")
}

// Delete DELETE /api/mgt/article/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, apperr.ErrArticleNotFound) {
			response.NotFound(c, "article not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "article deleted")
}
