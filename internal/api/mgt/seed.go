package mgt

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/core/database"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/response"
	"github.com/KeaPin/gameshare/internal/service"
)

// SeedHandler 种子数据 API Handler
// 响应体固定 {success, message, data} / {success, message, error}
type SeedHandler struct {
	svc *service.SeedService
}

// NewSeedHandler 创建 SeedHandler
func NewSeedHandler(svc *service.SeedService) *SeedHandler {
	return &SeedHandler{svc: svc}
}

// Seed POST /api/mgt/seed?action=all|categories|resources|articles
// 非法 action 报 400，单行失败只计数不中断
func (h *SeedHandler) Seed(c *gin.Context) {
	action := c.DefaultQuery("action", service.SeedActionAll)

	stats, err := h.svc.Run(c.Request.Context(), action)
	if err != nil {
		var ae *apperr.AppError
		if errors.As(err, &ae) && ae.Code == apperr.CodeBadRequest {
			response.SeedBadRequest(c, ae.Message)
			return
		}
		response.SeedError(c, "seed failed", err)
		return
	}

	response.SeedOK(c, "seed completed", stats)
}

// DBTest GET /api/mgt/db-test
// 数据库连通性探测
func (h *SeedHandler) DBTest(c *gin.Context) {
	if err := database.Ping(); err != nil {
		response.SeedError(c, "database unreachable", err)
		return
	}
	response.SeedOK(c, "database connection ok", gin.H{
		"driver": database.Get().DriverName(),
	})
}
