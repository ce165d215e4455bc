package mgt

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// CategoryHandler 分类管理 API Handler
type CategoryHandler struct {
	svc *service.CategoryService
}

// NewCategoryHandler 创建分类管理 Handler
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Level       int     `json:"level"`
	ParentID    *string `json:"parent_id"`
	Type        string  `json:"type" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Alias       string  `json:"alias"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Weight      int     `json:"weight"`
}

// Create POST /api/mgt/category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category := &model.Category{
		Level:       req.Level,
		ParentID:    req.ParentID,
		Type:        req.Type,
		Name:        req.Name,
		Alias:       req.Alias,
		Description: req.Description,
		Icon:        req.Icon,
		Weight:      req.Weight,
	}

	id, err := h.svc.Create(c.Request.Context(), category)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Update PUT /api/mgt/category/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category := &model.Category{
		ID:          c.Param("id"),
		Level:       req.Level,
		ParentID:    req.ParentID,
		Type:        req.Type,
		Name:        req.Name,
		Alias:       req.Alias,
		Description: req.Description,
		Icon:        req.Icon,
		Weight:      req.Weight,
	}

	if err := h.svc.Update(c.Request.Context(), category); err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "category updated")
}

// Delete DELETE /api/mgt/category/:id
// 软删除，行保留状态翻成 deleted
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "category deleted")
}
