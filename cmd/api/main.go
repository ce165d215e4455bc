package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/KeaPin/gameshare/internal/api/mgt"
	v1 "github.com/KeaPin/gameshare/internal/api/v1"
	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/core/database"
	"github.com/KeaPin/gameshare/internal/core/logger"
	"github.com/KeaPin/gameshare/internal/core/snowflake"
	"github.com/KeaPin/gameshare/internal/middleware"
	"github.com/KeaPin/gameshare/internal/pkg/memo"
	"github.com/KeaPin/gameshare/internal/repository"
	"github.com/KeaPin/gameshare/internal/service"
	"github.com/KeaPin/gameshare/internal/service/seo"
)

func main() {
	// 1. 加载配置 (Viper)
	if err := config.Init("."); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 2. 初始化 Logger
	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting gameshare...")

	// 3. 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Error("Failed to init database", logger.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// 4. 初始化 Redis（限流计数器）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	// 5. 初始化 Snowflake（请求追踪 ID）
	if err := snowflake.Init(&cfg.Snowflake); err != nil {
		logger.Error("Failed to init snowflake", logger.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. 初始化 Repository
	categoryRepo := repository.NewCategoryRepository(database.Get())
	resourceRepo := repository.NewResourceRepository(database.Get())
	articleRepo := repository.NewArticleRepository(database.Get())

	// 7. memo 缓存，每个服务一个实例，后台周期清理过期条目
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cacheTTL := time.Duration(cfg.Cache.TTL) * time.Second
	sweepInterval := time.Duration(cfg.Cache.SweepInterval) * time.Second

	categoryCache := memo.New(cacheTTL, time.Now)
	resourceCache := memo.New(cacheTTL, time.Now)
	articleCache := memo.New(cacheTTL, time.Now)
	categoryCache.StartSweeper(ctx, sweepInterval)
	resourceCache.StartSweeper(ctx, sweepInterval)
	articleCache.StartSweeper(ctx, sweepInterval)

	// 8. 初始化 Service
	categorySvc := service.NewCategoryService(categoryRepo, categoryCache)
	resourceSvc := service.NewResourceService(resourceRepo, categorySvc, resourceCache)
	articleSvc := service.NewArticleService(articleRepo, articleCache)
	seedSvc := service.NewSeedService(categoryRepo, resourceRepo, articleRepo)

	// 9. 初始化 Handler
	resourceV1Handler := v1.NewResourceHandler(resourceSvc)
	categoryV1Handler := v1.NewCategoryHandler(categorySvc, resourceSvc)
	articleV1Handler := v1.NewArticleHandler(articleSvc)
	searchV1Handler := v1.NewSearchHandler(resourceSvc, articleSvc)

	categoryMgtHandler := mgt.NewCategoryHandler(categorySvc)
	resourceMgtHandler := mgt.NewResourceHandler(resourceSvc)
	articleMgtHandler := mgt.NewArticleHandler(articleSvc)
	cacheMgtHandler := mgt.NewCacheHandler(categorySvc, resourceSvc, articleSvc)
	seedMgtHandler := mgt.NewSeedHandler(seedSvc)

	// 10. SEO 服务
	baseURL := cfg.App.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.App.Port)
	}
	sitemapSvc, err := seo.NewSitemapService(resourceRepo, articleRepo, &seo.SitemapConfig{
		BaseURL:  baseURL,
		CacheTTL: time.Duration(cfg.SEO.SitemapTTL) * time.Second,
		MaxURLs:  cfg.SEO.SitemapMaxURLs,
	})
	if err != nil {
		logger.Error("Failed to init sitemap service", logger.String("error", err.Error()))
		os.Exit(1)
	}
	sitemapHandler := seo.NewHandler(sitemapSvc)
	robotsSvc := seo.NewRobotsService(baseURL)
	canonicalSvc := seo.NewCanonicalService(baseURL)

	// 11. 限流器，Redis 计数，故障时退回进程内计数
	rateLimiter := middleware.NewIPLimiter(redisClient, cfg.Security.RateLimit, time.Minute)

	// 12. 注册路由
	gin.SetMode(cfg.App.Mode)
	router := gin.New()

	router.Use(middleware.RequestIDMW(snowflake.GetNode()))
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMW(rateLimiter))
	router.Use(middleware.CORSMiddleware())
	router.Use(canonicalSvc.CanonicalMW())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	// Health Check (详细版 - 用于负载均衡)
	router.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		checks := make(map[string]string)

		if err := database.Ping(); err != nil {
			status = "error"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}

		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			// Redis 只承载限流配额，不健康只降级不报错
			checks["redis"] = "degraded: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}

		code := 200
		if status != "ok" {
			code = 503
		}
		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().Unix(),
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    "gameshare",
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// SEO Routes
	router.GET("/robots.txt", robotsSvc.Get)
	router.GET("/sitemap.xml", sitemapHandler.SitemapIndex)
	router.GET("/sitemap-resource-:page", sitemapHandler.ResourceSitemap)
	router.GET("/sitemap-article.xml", sitemapHandler.ArticleSitemap)

	// Public API (v1)
	v1Group := router.Group("/api/v1")
	{
		// Resource
		v1Group.GET("/resources", resourceV1Handler.List)
		v1Group.GET("/resources/hot", resourceV1Handler.Hot)
		v1Group.GET("/resources/featured", resourceV1Handler.Featured)
		v1Group.GET("/resources/new", resourceV1Handler.New)
		v1Group.GET("/resources/top-rated", resourceV1Handler.TopRated)
		v1Group.GET("/resources/random/:alias", resourceV1Handler.Random)
		v1Group.GET("/resources/shelf/:alias", resourceV1Handler.Shelf)
		v1Group.GET("/resources/category/:alias", resourceV1Handler.ListByCategory)
		v1Group.GET("/resource/:id", resourceV1Handler.Get)
		v1Group.POST("/resource/:id/download", resourceV1Handler.Download)

		// Category
		v1Group.GET("/categories", categoryV1Handler.List)
		v1Group.GET("/categories/top", categoryV1Handler.TopLevel)
		v1Group.GET("/categories/tree", categoryV1Handler.Tree)
		v1Group.GET("/categories/nav", categoryV1Handler.Navigation)
		v1Group.GET("/categories/:alias/counts", categoryV1Handler.Counts)
		v1Group.GET("/category/:id", categoryV1Handler.Get)
		v1Group.GET("/category/:id/children", categoryV1Handler.Children)

		// Article
		v1Group.GET("/articles", articleV1Handler.List)
		v1Group.GET("/articles/featured", articleV1Handler.Featured)
		v1Group.GET("/articles/top", articleV1Handler.Top)
		v1Group.GET("/articles/popular", articleV1Handler.Popular)
		v1Group.GET("/article/:id", articleV1Handler.Get)

		// Search
		v1Group.GET("/search", searchV1Handler.Search)
	}

	// Management API (mgt) - 强制 IP 白名单
	mgtGroup := router.Group("/api/mgt")
	mgtGroup.Use(middleware.AdminWhitelistMW())
	{
		mgtGroup.POST("/login", func(c *gin.Context) {
			mgt.Login(c, &cfg.Admin, &cfg.JWT)
		})

		authed := mgtGroup.Group("")
		authed.Use(middleware.JWTMW(&cfg.JWT))
		{
			authed.POST("/category", categoryMgtHandler.Create)
			authed.PUT("/category/:id", categoryMgtHandler.Update)
			authed.DELETE("/category/:id", categoryMgtHandler.Delete)

			authed.POST("/resource", resourceMgtHandler.Create)
			authed.PUT("/resource/:id", resourceMgtHandler.Update)
			authed.DELETE("/resource/:id", resourceMgtHandler.Delete)

			authed.POST("/article", articleMgtHandler.Create)
			authed.PUT("/article/:id", articleMgtHandler.Update)
			authed.DELETE("/article/:id", articleMgtHandler.Delete)

			authed.POST("/cache/flush", cacheMgtHandler.Flush)

			authed.POST("/seed", seedMgtHandler.Seed)
			authed.GET("/db-test", seedMgtHandler.DBTest)
		}
	}

	// 13. 启动 HTTP Server
	srv := &http.Server{
		Addr:    cfg.App.GetServerAddr(),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", logger.String("error", err.Error()))
		}
	}()

	// pprof Server (可选，用于性能分析)
	go func() {
		logger.Info("PProf server starting", logger.String("addr", "localhost:6060"))
		if err := http.ListenAndServe("localhost:6060", nil); err != nil && err != http.ErrServerClosed {
			logger.Error("PProf server error", logger.String("error", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logger.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
