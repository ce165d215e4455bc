package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/KeaPin/gameshare/internal/core/database"
	"github.com/KeaPin/gameshare/internal/core/logger"
	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/memo"
	"github.com/KeaPin/gameshare/internal/repository"
)

// ResourceService 资源业务服务
type ResourceService struct {
	repo     repository.ResourceRepository
	category *CategoryService
	cache    *memo.Cache
}

// NewResourceService 创建 ResourceService 实例
func NewResourceService(repo repository.ResourceRepository, category *CategoryService, cache *memo.Cache) *ResourceService {
	return &ResourceService{repo: repo, category: category, cache: cache}
}

// List 资源分页列表
func (s *ResourceService) List(ctx context.Context, params model.QueryParams) (*model.PaginatedResult[*model.Resource], error) {
	params = params.Normalize(model.ResourceSortColumns)
	key := fmt.Sprintf("resource:list:%s:%s:%s:%s:%d:%d",
		params.CategoryID, params.Search, params.Sort, params.Order, params.Page, params.Limit)
	return memo.Cached(s.cache, key, func() (*model.PaginatedResult[*model.Resource], error) {
		resources, total, err := s.repo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return model.NewPaginatedResult(resources, total, params.Page, params.Limit), nil
	})
}

// ListByCategoryIDs 多分类聚合分页
func (s *ResourceService) ListByCategoryIDs(ctx context.Context, categoryIDs []string, params model.QueryParams) (*model.PaginatedResult[*model.Resource], error) {
	params = params.Normalize(model.ResourceSortColumns)
	if len(categoryIDs) == 0 {
		return model.EmptyPaginatedResult[*model.Resource](params.Page, params.Limit), nil
	}

	key := fmt.Sprintf("resource:bycat:%v:%s:%s:%d:%d",
		categoryIDs, params.Sort, params.Order, params.Page, params.Limit)
	return memo.Cached(s.cache, key, func() (*model.PaginatedResult[*model.Resource], error) {
		resources, total, err := s.repo.ListByCategoryIDs(ctx, categoryIDs, params)
		if err != nil {
			return nil, err
		}
		return model.NewPaginatedResult(resources, total, params.Page, params.Limit), nil
	})
}

// ListByCategoryAlias 按顶级分类别名聚合分页
// 别名先解析成顶级分类，再展开成子分类 ID 集合；没有子分类的
// 叶子顶级分类查它自己
func (s *ResourceService) ListByCategoryAlias(ctx context.Context, alias string, params model.QueryParams) (*model.PaginatedResult[*model.Resource], error) {
	category, err := s.category.GetTopLevelByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	ids, err := s.category.ResolveCategoryIDs(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.ListByCategoryIDs(ctx, ids, params)
}

// GetDetail 资源详情，单行 + 分类 + 下载链接
func (s *ResourceService) GetDetail(ctx context.Context, id string) (*model.ResourceDetail, error) {
	key := "resource:detail:" + id
	detail, err := memo.Cached(s.cache, key, func() (*model.ResourceDetail, error) {
		resource, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if resource == nil {
			return nil, nil
		}

		categories, err := s.repo.GetCategories(ctx, id)
		if err != nil {
			return nil, err
		}
		links, err := s.repo.GetLinks(ctx, id)
		if err != nil {
			return nil, err
		}

		return &model.ResourceDetail{
			Resource:      *resource,
			Categories:    categories,
			DownloadLinks: links,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperr.ErrResourceNotFound
	}
	return detail, nil
}

// GetHot 热门资源
func (s *ResourceService) GetHot(ctx context.Context, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("resource:hot:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Resource, error) {
		return s.repo.ListHot(ctx, limit)
	})
}

// GetFeatured 精选资源
func (s *ResourceService) GetFeatured(ctx context.Context, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("resource:featured:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Resource, error) {
		return s.repo.ListFeatured(ctx, limit)
	})
}

// GetNew 最新资源
func (s *ResourceService) GetNew(ctx context.Context, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("resource:new:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Resource, error) {
		return s.repo.ListNew(ctx, limit)
	})
}

// GetTopRated 高评分资源
func (s *ResourceService) GetTopRated(ctx context.Context, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	key := fmt.Sprintf("resource:toprated:%d", limit)
	return memo.Cached(s.cache, key, func() ([]*model.Resource, error) {
		return s.repo.ListTopRated(ctx, limit)
	})
}

// GetRandomByCategoryAlias 按分类别名随机取样，随机结果不缓存
func (s *ResourceService) GetRandomByCategoryAlias(ctx context.Context, alias string, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	category, err := s.category.GetTopLevelByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	ids, err := s.category.ResolveCategoryIDs(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRandomByCategoryIDs(ctx, ids, limit)
}

// GetShelfByCategoryAlias 首页栏目：按权重取样
func (s *ResourceService) GetShelfByCategoryAlias(ctx context.Context, alias string, limit int) ([]*model.Resource, error) {
	limit = model.ClampLimit(limit)
	category, err := s.category.GetTopLevelByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	ids, err := s.category.ResolveCategoryIDs(ctx, category)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("resource:shelf:%s:%d", alias, limit)
	return memo.Cached(s.cache, key, func() ([]*model.Resource, error) {
		return s.repo.ListByCategoryIDsOrderedByWeight(ctx, ids, limit)
	})
}

// CountsByCategoryIDs 多分类计数
func (s *ResourceService) CountsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]int, error) {
	key := fmt.Sprintf("resource:counts:%v", categoryIDs)
	return memo.Cached(s.cache, key, func() (map[string]int, error) {
		return s.repo.BatchCountsByCategoryIDs(ctx, categoryIDs)
	})
}

// RecordView 浏览计数，失败只记日志不影响主流程
func (s *ResourceService) RecordView(id string) {
	go func() {
		if err := s.repo.IncViews(context.Background(), id); err != nil {
			logger.Warn("资源浏览计数失败", logger.String("id", id), logger.ErrorField(err))
		}
	}()
}

// RecordDownload 下载计数
func (s *ResourceService) RecordDownload(ctx context.Context, id string) error {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resource == nil {
		return apperr.ErrResourceNotFound
	}
	return s.repo.IncDownloads(ctx, id)
}

// Create 创建资源，可同时挂分类和下载链接
func (s *ResourceService) Create(ctx context.Context, resource *model.Resource, categoryIDs []string, links []*model.ResourceLink) (string, error) {
	// 资源、分类挂接、下载链接同生共死
	var id string
	err := database.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.CreateIn(ctx, tx, resource)
		if err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		for _, categoryID := range categoryIDs {
			if err := s.repo.AttachCategoryIn(ctx, tx, id, categoryID); err != nil {
				return fmt.Errorf("attach category %s: %w", categoryID, err)
			}
		}
		for _, link := range links {
			link.ResourceID = id
			if _, err := s.repo.CreateLinkIn(ctx, tx, link); err != nil {
				return fmt.Errorf("create link: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.cache.Flush()
	logger.Info("资源已创建", logger.String("id", id), logger.String("name", resource.Name))
	return id, nil
}

// Update 更新资源，categoryIDs 非 nil 时整体替换分类挂接
func (s *ResourceService) Update(ctx context.Context, resource *model.Resource, categoryIDs []string) error {
	existing, err := s.repo.GetByID(ctx, resource.ID)
	if err != nil {
		return fmt.Errorf("get resource %s: %w", resource.ID, err)
	}
	if existing == nil {
		return apperr.ErrResourceNotFound
	}

	err = database.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateIn(ctx, tx, resource); err != nil {
			return fmt.Errorf("update resource: %w", err)
		}
		if categoryIDs == nil {
			return nil
		}
		if err := s.repo.DetachCategoriesIn(ctx, tx, resource.ID); err != nil {
			return fmt.Errorf("detach categories: %w", err)
		}
		for _, categoryID := range categoryIDs {
			if err := s.repo.AttachCategoryIn(ctx, tx, resource.ID, categoryID); err != nil {
				return fmt.Errorf("attach category %s: %w", categoryID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Flush()
	logger.Info("资源已更新", logger.String("id", resource.ID))
	return nil
}

// Delete 软删除资源
func (s *ResourceService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get resource %s: %w", id, err)
	}
	if existing == nil {
		return apperr.ErrResourceNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	logger.Info("资源已删除", logger.String("id", id))
	return nil
}

// FlushCache 清空资源缓存
func (s *ResourceService) FlushCache() {
	s.cache.Flush()
}
