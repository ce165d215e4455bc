package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// CategoryHandler 分类 API Handler
type CategoryHandler struct {
	svc      *service.CategoryService
	resource *service.ResourceService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(svc *service.CategoryService, resource *service.ResourceService) *CategoryHandler {
	return &CategoryHandler{svc: svc, resource: resource}
}

// List GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// TopLevel GET /api/v1/categories/top
func (h *CategoryHandler) TopLevel(c *gin.Context) {
	list, err := h.svc.GetTopLevel(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Navigation GET /api/v1/categories/nav
// 顶级分类带直接子分类，页头导航用
func (h *CategoryHandler) Navigation(c *gin.Context) {
	nav, err := h.svc.GetNavigation(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nav)
}

// Tree GET /api/v1/categories/tree
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.svc.GetTree(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tree)
}

// Children GET /api/v1/category/:id/children
func (h *CategoryHandler) Children(c *gin.Context) {
	list, err := h.svc.GetChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get GET /api/v1/category/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, category)
}

// Counts GET /api/v1/categories/:alias/counts
// 顶级分类下每个子分类各自的资源数，导航侧栏用
func (h *CategoryHandler) Counts(c *gin.Context) {
	alias := c.Param("alias")

	category, err := h.svc.GetTopLevelByAlias(c.Request.Context(), alias)
	if err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}

	ids, err := h.svc.ResolveCategoryIDs(c.Request.Context(), category)
	if err != nil {
		response.Fail(c, err)
		return
	}

	counts, err := h.resource.CountsByCategoryIDs(c.Request.Context(), ids)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, counts)
}
