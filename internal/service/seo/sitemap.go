package seo

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/core/logger"
	"github.com/KeaPin/gameshare/internal/repository"
)

// SitemapConfig Sitemap配置
type SitemapConfig struct {
	BaseURL  string
	CacheTTL time.Duration // 缓存时间
	MaxURLs  int           // 单个sitemap最大URL数
}

// SitemapService Sitemap服务
// 生成的 XML 分片放 bigcache，按 TTL 过期后重建
type SitemapService struct {
	resourceRepo repository.ResourceRepository
	articleRepo  repository.ArticleRepository
	config       *SitemapConfig
	cache        *bigcache.BigCache
}

// NewSitemapService 创建Sitemap服务
func NewSitemapService(resourceRepo repository.ResourceRepository, articleRepo repository.ArticleRepository, cfg *SitemapConfig) (*SitemapService, error) {
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cfg.CacheTTL))
	if err != nil {
		return nil, fmt.Errorf("init sitemap cache: %w", err)
	}
	return &SitemapService{
		resourceRepo: resourceRepo,
		articleRepo:  articleRepo,
		config:       cfg,
		cache:        cache,
	}, nil
}

func (s *SitemapService) cached(key string, build func() ([]byte, error)) ([]byte, error) {
	if data, err := s.cache.Get(key); err == nil {
		return data, nil
	}
	data, err := build()
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := s.cache.Set(key, data); err != nil {
			logger.Warn("sitemap 缓存写入失败", logger.String("key", key), logger.ErrorField(err))
		}
	}
	return data, nil
}

// GetIndex sitemap 索引，列出资源分片和文章 sitemap
func (s *SitemapService) GetIndex(ctx context.Context) ([]byte, error) {
	return s.cached("index", func() ([]byte, error) {
		total, err := s.resourceRepo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取资源数量失败: %w", err)
		}
		pages := (total + s.config.MaxURLs - 1) / s.config.MaxURLs
		if pages < 1 {
			pages = 1
		}

		articleTotal, err := s.articleRepo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取文章数量失败: %w", err)
		}

		today := time.Now().Format("2006-01-02")
		var buf bytes.Buffer
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
		for i := 1; i <= pages; i++ {
			buf.WriteString("  <sitemap>\n")
			buf.WriteString(fmt.Sprintf("    <loc>%s/sitemap-resource-%d.xml</loc>\n", s.config.BaseURL, i))
			buf.WriteString("    <lastmod>" + today + "</lastmod>\n")
			buf.WriteString("  </sitemap>\n")
		}
		if articleTotal > 0 {
			buf.WriteString("  <sitemap>\n")
			buf.WriteString(fmt.Sprintf("    <loc>%s/sitemap-article.xml</loc>\n", s.config.BaseURL))
			buf.WriteString("    <lastmod>" + today + "</lastmod>\n")
			buf.WriteString("  </sitemap>\n")
		}
		buf.WriteString("</sitemapindex>")
		return buf.Bytes(), nil
	})
}

// GetResourceSitemap 资源 sitemap 分片
func (s *SitemapService) GetResourceSitemap(ctx context.Context, page int) ([]byte, error) {
	return s.cached(fmt.Sprintf("resource:%d", page), func() ([]byte, error) {
		offset := (page - 1) * s.config.MaxURLs
		resources, err := s.resourceRepo.ListForSitemap(ctx, offset, s.config.MaxURLs)
		if err != nil {
			return nil, fmt.Errorf("获取资源列表失败: %w", err)
		}
		if len(resources) == 0 {
			return nil, nil
		}

		var buf bytes.Buffer
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
		for _, r := range resources {
			buf.WriteString("  <url>\n")
			buf.WriteString(fmt.Sprintf("    <loc>%s/games/%s</loc>\n", s.config.BaseURL, r.ID))
			buf.WriteString("    <lastmod>" + r.UpdatedTime.Format("2006-01-02") + "</lastmod>\n")
			buf.WriteString("    <changefreq>daily</changefreq>\n")
			buf.WriteString("    <priority>0.8</priority>\n")
			buf.WriteString("  </url>\n")
		}
		buf.WriteString("</urlset>")
		return buf.Bytes(), nil
	})
}

// GetArticleSitemap 文章 sitemap
func (s *SitemapService) GetArticleSitemap(ctx context.Context) ([]byte, error) {
	return s.cached("article", func() ([]byte, error) {
		articles, err := s.articleRepo.ListForSitemap(ctx, 0, s.config.MaxURLs)
		if err != nil {
			return nil, fmt.Errorf("获取文章列表失败: %w", err)
		}
		if len(articles) == 0 {
			return nil, nil
		}

		var buf bytes.Buffer
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
		for _, a := range articles {
			buf.WriteString("  <url>\n")
			buf.WriteString(fmt.Sprintf("    <loc>%s/articles/%s</loc>\n", s.config.BaseURL, a.ID))
			buf.WriteString("    <lastmod>" + a.UpdatedTime.Format("2006-01-02") + "</lastmod>\n")
			buf.WriteString("    <changefreq>weekly</changefreq>\n")
			buf.WriteString("    <priority>0.6</priority>\n")
			buf.WriteString("  </url>\n")
		}
		buf.WriteString("</urlset>")
		return buf.Bytes(), nil
	})
}

// Handler SEO处理器
type Handler struct {
	svc *SitemapService
}

// NewHandler 创建SEO处理器
func NewHandler(svc *SitemapService) *Handler {
	return &Handler{svc: svc}
}

// SitemapIndex sitemap索引
func (h *Handler) SitemapIndex(c *gin.Context) {
	data, err := h.svc.GetIndex(c.Request.Context())
	if err != nil {
		c.String(500, "internal server error")
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}

// ResourceSitemap 资源sitemap分片
func (h *Handler) ResourceSitemap(c *gin.Context) {
	page := 1
	fmt.Sscanf(c.Param("page"), "%d", &page)
	if page < 1 {
		page = 1
	}

	data, err := h.svc.GetResourceSitemap(c.Request.Context(), page)
	if err != nil {
		c.String(500, "internal server error")
		return
	}
	if data == nil {
		c.Status(404)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}

// ArticleSitemap 文章sitemap
func (h *Handler) ArticleSitemap(c *gin.Context) {
	data, err := h.svc.GetArticleSitemap(c.Request.Context())
	if err != nil {
		c.String(500, "internal server error")
		return
	}
	if data == nil {
		c.Status(404)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}
