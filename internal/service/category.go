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

// CategoryService 分类业务服务
// 分类读多写少，读路径全部走 memo 缓存，写操作后 Flush
type CategoryService struct {
	repo  repository.CategoryRepository
	cache *memo.Cache
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo repository.CategoryRepository, cache *memo.Cache) *CategoryService {
	return &CategoryService{repo: repo, cache: cache}
}

// GetAll 获取所有分类，可按 type 过滤
func (s *CategoryService) GetAll(ctx context.Context, categoryType string) ([]*model.Category, error) {
	key := "category:all:" + categoryType
	return memo.Cached(s.cache, key, func() ([]*model.Category, error) {
		return s.repo.GetAll(ctx, categoryType)
	})
}

// GetByID 获取单个分类，查不到返回 ErrCategoryNotFound
func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	key := "category:id:" + id
	category, err := memo.Cached(s.cache, key, func() (*model.Category, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.ErrCategoryNotFound
	}
	return category, nil
}

// GetTopLevel 获取顶级分类
func (s *CategoryService) GetTopLevel(ctx context.Context, categoryType string) ([]*model.Category, error) {
	key := "category:top:" + categoryType
	return memo.Cached(s.cache, key, func() ([]*model.Category, error) {
		return s.repo.GetTopLevel(ctx, categoryType)
	})
}

// GetTopLevelByAlias 按别名取顶级分类
func (s *CategoryService) GetTopLevelByAlias(ctx context.Context, alias string) (*model.Category, error) {
	key := "category:alias:" + alias
	category, err := memo.Cached(s.cache, key, func() (*model.Category, error) {
		return s.repo.GetTopLevelByAlias(ctx, alias)
	})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.ErrCategoryNotFound
	}
	return category, nil
}

// GetChildren 获取直接子分类
func (s *CategoryService) GetChildren(ctx context.Context, parentID string) ([]*model.Category, error) {
	key := "category:children:" + parentID
	return memo.Cached(s.cache, key, func() ([]*model.Category, error) {
		return s.repo.GetChildren(ctx, parentID)
	})
}

// ResolveCategoryIDs 把顶级分类解析成聚合查询用的分类 ID 集合：
// 有子分类时返回全部子分类 ID，叶子分类返回自身 ID
func (s *CategoryService) ResolveCategoryIDs(ctx context.Context, category *model.Category) ([]string, error) {
	children, err := s.GetChildren(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return []string{category.ID}, nil
	}
	ids := make([]string, 0, len(children))
	for _, child := range children {
		ids = append(ids, child.ID)
	}
	return ids, nil
}

// GetNavigation 顶级分类带各自的直接子分类，站点导航用
// 子分类一次查询批量取回，不走 N+1
func (s *CategoryService) GetNavigation(ctx context.Context, categoryType string) ([]*model.CategoryTree, error) {
	key := "category:nav:" + categoryType
	return memo.Cached(s.cache, key, func() ([]*model.CategoryTree, error) {
		tops, err := s.repo.GetTopLevel(ctx, categoryType)
		if err != nil {
			return nil, err
		}
		if len(tops) == 0 {
			return []*model.CategoryTree{}, nil
		}

		parentIDs := make([]string, 0, len(tops))
		for _, c := range tops {
			parentIDs = append(parentIDs, c.ID)
		}
		children, err := s.repo.GetChildrenBatch(ctx, parentIDs)
		if err != nil {
			return nil, err
		}

		byParent := make(map[string][]*model.CategoryTree, len(tops))
		for _, c := range children {
			if c.ParentID == nil {
				continue
			}
			byParent[*c.ParentID] = append(byParent[*c.ParentID], &model.CategoryTree{Category: *c})
		}

		nav := make([]*model.CategoryTree, 0, len(tops))
		for _, c := range tops {
			nav = append(nav, &model.CategoryTree{Category: *c, Children: byParent[c.ID]})
		}
		return nav, nil
	})
}

// GetTree 获取完整分类树
func (s *CategoryService) GetTree(ctx context.Context, categoryType string) ([]*model.CategoryTree, error) {
	key := "category:tree:" + categoryType
	return memo.Cached(s.cache, key, func() ([]*model.CategoryTree, error) {
		categories, err := s.repo.GetAll(ctx, categoryType)
		if err != nil {
			return nil, err
		}
		return buildTree(categories), nil
	})
}

// buildTree 单趟内存建树
// parent_id 指向不存在分类的孤儿节点直接提升为根，不丢数据
func buildTree(categories []*model.Category) []*model.CategoryTree {
	nodes := make(map[string]*model.CategoryTree, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &model.CategoryTree{Category: *c}
	}

	roots := make([]*model.CategoryTree, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil || *c.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, category *model.Category) (string, error) {
	id, err := s.repo.Create(ctx, category)
	if err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}
	s.cache.Flush()
	logger.Info("分类已创建", logger.String("id", id), logger.String("name", category.Name))
	return id, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, category *model.Category) error {
	existing, err := s.repo.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrCategoryNotFound
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	s.cache.Flush()
	return nil
}

// Delete 软删除分类
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrCategoryNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.cache.Flush()
	logger.Info("分类已删除", logger.String("id", id))
	return nil
}

// FlushCache 清空分类缓存
func (s *CategoryService) FlushCache() {
	s.cache.Flush()
}
