package service

import (
	"context"
	"fmt"

	"github.com/KeaPin/gameshare/internal/core/logger"
	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/memo"
	"github.com/KeaPin/gameshare/internal/repository"
)

// ArticleService 文章业务服务
type ArticleService struct {
	repo  repository.ArticleRepository
	cache *memo.Cache
}

// NewArticleService 创建 ArticleService 实例
func NewArticleService(repo repository.ArticleRepository, cache *memo.Cache) *ArticleService {
	return &ArticleService{repo: repo, cache: cache}
}

// List 文章分页列表
func (s *ArticleService) List(ctx context.Context, params model.QueryParams) (*model.PaginatedResult[*model.Article], error) {
	params = params.Normalize(model.ArticleSortColumns)
	key := fmt.Sprintf("article:list:%s:%s:%s:%s:%d:%d",
		params.CategoryID, params.Search, params.Sort, params.Order, params.Page, params.Limit)
	return memo.Cached(s.cache, key, func() (*model.PaginatedResult[*model.Article], error) {
		articles, total, err := s.repo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return model.NewPaginatedResult(articles, total, params.Page, params.Limit), nil
	})
}

// GetDetail 文章详情
func (s *ArticleService) GetDetail(ctx context.Context, id string) (*model.ArticleDetail, error) {
	key := "article:detail:" + id
	detail, err := memo.Cached(s.cache, key, func() (*model.ArticleDetail, error) {
		article, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, nil
		}
		categories, err := s.repo.GetCategories(ctx, id)
		if err != nil {
			return nil, err
		}
		return &model.ArticleDetail{
			Article:    *article,
			Categories: categories,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperr.ErrArticleNotFound
	}
	return detail, nil
}

// GetFeatured 精选文章
func (s *ArticleService) GetFeatured(ctx context.Context, limit int) ([]*model.Article, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("article:featured:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Article, error) {
		return s.repo.ListFeatured(ctx, limit)
	})
}

// GetTop 置顶文章
func (s *ArticleService) GetTop(ctx context.Context, limit int) ([]*model.Article, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("article:top:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Article, error) {
		return s.repo.ListTop(ctx, limit)
	})
}

// GetPopular 热门文章
func (s *ArticleService) GetPopular(ctx context.Context, limit int) ([]*model.Article, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("article:popular:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Article, error) {
		return s.repo.ListPopular(ctx, limit)
	})
}

// RecordView 浏览计数，异步
func (s *ArticleService) RecordView(id string) {
	go func() {
		if err := s.repo.IncViews(context.Background(), id); err != nil {
			logger.Warn("文章浏览计数失败", logger.String("id", id), logger.ErrorField(err))
		}
	}()
}

// Create 创建文章，可同时挂分类
func (s *ArticleService) Create(ctx context.Context, article *model.Article, categoryIDs []string) (string, error) {
	id, err := s.repo.Create(ctx, article)
	if err != nil {
		return "", fmt.Errorf("create article: %w", err)
	}
	for _, categoryID := range categoryIDs {
		if err := s.repo.AttachCategory(ctx, id, categoryID); err != nil {
			return "", fmt.Errorf("attach category %s: %w", categoryID, err)
		}
	}
	s.cache.Flush()
	logger.Info("文章已创建", logger.String("id", id), logger.String("title", article.Title))
	return id, nil
}

// Update 更新文章
func (s *ArticleService) Update(ctx context.Context, article *model.Article) error {
	existing, err := s.repo.GetByID(ctx, article.ID)
	if err != nil {
		return fmt.Errorf("get article %s: %w", article.ID, err)
	}
	if existing == nil {
		return apperr.ErrArticleNotFound
	}
	if err := s.repo.Update(ctx, article); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	s.cache.Flush()
	logger.Info("文章已更新", logger.String("id", article.ID))
	return nil
}

// Delete 软删除文章
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get article %s: %w", id, err)
	}
	if existing == nil {
		return apperr.ErrArticleNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	logger.Info("文章已删除", logger.String("id", id))
	return nil
}

// FlushCache 清空文章缓存
func (s *ArticleService) FlushCache() {
	s.cache.Flush()
}
