package mgt

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// ResourceHandler 资源管理 API Handler
type ResourceHandler struct {
	svc *service.ResourceService
}

// NewResourceHandler 创建资源管理 Handler
func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// ResourceLinkRequest 下载链接
type ResourceLinkRequest struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Password string `json:"password"`
	Weight   int    `json:"weight"`
}

// ResourceRequest 创建资源请求
type ResourceRequest struct {
	Name         string                `json:"name" binding:"required"`
	Alias        string                `json:"alias"`
	Description  string                `json:"description"`
	Rating       *float64              `json:"rating"`
	Thumbnail    string                `json:"thumbnail"`
	Galleries    []string              `json:"galleries"`
	Tags         []string              `json:"tags"`
	Developer    string                `json:"developer"`
	Publisher    string                `json:"publisher"`
	Platforms    string                `json:"platforms"`
	Version      string                `json:"version"`
	Size         string                `json:"size"`
	Language     string                `json:"language"`
	Detail       string                `json:"detail"`
	ReleaseDate  string                `json:"release_date"`
	OfficialLink string                `json:"official_link"`
	IsFeatured   bool                  `json:"is_featured"`
	IsHot        bool                  `json:"is_hot"`
	IsNew        bool                  `json:"is_new"`
	Weight       int                   `json:"weight"`
	CategoryIDs  []string              `json:"category_ids"`
	Links        []ResourceLinkRequest `json:"links"`
}

// Create POST /api/mgt/resource
func (h *ResourceHandler) Create(c *gin.Context) {
	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resource := &model.Resource{
		Name:         req.Name,
		Alias:        req.Alias,
		Description:  req.Description,
		Rating:       req.Rating,
		Thumbnail:    req.Thumbnail,
		Galleries:    req.Galleries,
		Tags:         req.Tags,
		Developer:    req.Developer,
		Publisher:    req.Publisher,
		Platforms:    req.Platforms,
		Version:      req.Version,
		Size:         req.Size,
		Language:     req.Language,
		Detail:       req.Detail,
		ReleaseDate:  req.ReleaseDate,
		OfficialLink: req.OfficialLink,
		IsFeatured:   model.FlexBool(req.IsFeatured),
		IsHot:        model.FlexBool(req.IsHot),
		IsNew:        model.FlexBool(req.IsNew),
		Weight:       req.Weight,
	}

	links := make([]*model.ResourceLink, 0, len(req.Links))
	for _, l := range req.Links {
		links = append(links, &model.ResourceLink{
			Platform: l.Platform,
			URL:      l.URL,
			Password: l.Password,
			Weight:   l.Weight,
		})
	}

	id, err := h.svc.Create(c.Request.Context(), resource, req.CategoryIDs, links)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Update PUT /api/mgt/resource/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resource := &model.Resource{
		ID:           c.Param("id"),
		Name:         req.Name,
		Alias:        req.Alias,
		Description:  req.Description,
		Rating:       req.Rating,
		Thumbnail:    req.Thumbnail,
		Galleries:    req.Galleries,
		Tags:         req.Tags,
		Developer:    req.Developer,
		Publisher:    req.Publisher,
		Platforms:    req.Platforms,
		Version:      req.Version,
		Size:         req.Size,
		Language:     req.Language,
		Detail:       req.Detail,
		ReleaseDate:  req.ReleaseDate,
		OfficialLink: req.OfficialLink,
		IsFeatured:   model.FlexBool(req.IsFeatured),
		IsHot:        model.FlexBool(req.IsHot),
		IsNew:        model.FlexBool(req.IsNew),
		Weight:       req.Weight,
	}

	if err := h.svc.Update(c.Request.Context(), resource, req.CategoryIDs); err != nil {
		if errors.Is(err, apperr.ErrResourceNotFound) {
			response.NotFound(c, "resource not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "resource updated")
}

// Delete DELETE /api/mgt/resource/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, apperr.ErrResourceNotFound) {
			response.NotFound(c, "resource not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "resource deleted")
}
