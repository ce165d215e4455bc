package seo

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// RobotsService robots.txt 服务
type RobotsService struct {
	body []byte
}

// NewRobotsService 创建robots服务，内容在启动时生成一次
func NewRobotsService(baseURL string) *RobotsService {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /mgt/\n\nSitemap: %s/sitemap.xml\n", baseURL)
	return &RobotsService{body: []byte(body)}
}

// Get 获取robots.txt
func (s *RobotsService) Get(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(200, "text/plain; charset=utf-8", s.body)
}
