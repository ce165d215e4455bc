package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/pkg/util"
	"github.com/KeaPin/gameshare/internal/service"
)

// ResourceHandler 资源 API Handler
type ResourceHandler struct {
	svc *service.ResourceService
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

func queryParams(c *gin.Context) model.QueryParams {
	return model.QueryParams{
		Page:       util.QueryInt(c.Query("page"), model.DefaultPage),
		Limit:      util.QueryInt(c.Query("limit"), model.DefaultLimit),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("q"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}
}

// List GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), queryParams(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// ListByCategory GET /api/v1/resources/category/:alias
// 顶级分类别名聚合它全部子分类的资源
func (h *ResourceHandler) ListByCategory(c *gin.Context) {
	alias := c.Param("alias")
	result, err := h.svc.ListByCategoryAlias(c.Request.Context(), alias, queryParams(c))
	if err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /api/v1/resource/:id
// 详情读取顺带异步 +1 浏览数
func (h *ResourceHandler) Get(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrResourceNotFound) {
			response.NotFound(c, "resource not found")
			return
		}
		response.Fail(c, err)
		return
	}

	h.svc.RecordView(id)
	response.Success(c, detail)
}

// Hot GET /api/v1/resources/hot
func (h *ResourceHandler) Hot(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetHot(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Featured GET /api/v1/resources/featured
func (h *ResourceHandler) Featured(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// New GET /api/v1/resources/new
func (h *ResourceHandler) New(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetNew(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// TopRated GET /api/v1/resources/top-rated
func (h *ResourceHandler) TopRated(c *gin.Context) {
	limit := util.QueryInt(c.Query("limit"), 10)
	list, err := h.svc.GetTopRated(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Random GET /api/v1/resources/random/:alias
// 引擎原生随机排序，结果无序且不可复现
func (h *ResourceHandler) Random(c *gin.Context) {
	alias := c.Param("alias")
	limit := util.QueryInt(c.Query("limit"), 6)

	list, err := h.svc.GetRandomByCategoryAlias(c.Request.Context(), alias, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Shelf GET /api/v1/resources/shelf/:alias
// 首页栏目，按权重取样
func (h *ResourceHandler) Shelf(c *gin.Context) {
	alias := c.Param("alias")
	limit := util.QueryInt(c.Query("limit"), 8)

	list, err := h.svc.GetShelfByCategoryAlias(c.Request.Context(), alias, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Download POST /api/v1/resource/:id/download
// 下载计数 +1 并返回可用链接
func (h *ResourceHandler) Download(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.RecordDownload(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrResourceNotFound) {
			response.NotFound(c, "resource not found")
			return
		}
		response.Fail(c, err)
		return
	}

	detail, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, detail.DownloadLinks)
}
