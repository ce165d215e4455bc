package service

import (
	"context"
	"testing"
	"time"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/memo"
)

func strPtr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	categories := []*model.Category{
		{ID: "p1", Level: 0, Name: "PC游戏"},
		{ID: "p2", Level: 0, Name: "主机游戏"},
		{ID: "c1", Level: 1, ParentID: strPtr("p1"), Name: "动作冒险"},
		{ID: "c2", Level: 1, ParentID: strPtr("p1"), Name: "角色扮演"},
		{ID: "c3", Level: 1, ParentID: strPtr("p2"), Name: "Switch"},
	}

	roots := buildTree(categories)
	if len(roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(roots))
	}
	if roots[0].ID != "p1" || len(roots[0].Children) != 2 {
		t.Errorf("p1 children = %d, want 2", len(roots[0].Children))
	}
	if roots[1].ID != "p2" || len(roots[1].Children) != 1 {
		t.Errorf("p2 children = %d, want 1", len(roots[1].Children))
	}
}

func TestBuildTreeOrphanPromotedToRoot(t *testing.T) {
	categories := []*model.Category{
		{ID: "p1", Level: 0, Name: "PC游戏"},
		// 父分类已软删除，不在 active 列表里
		{ID: "orphan", Level: 1, ParentID: strPtr("gone"), Name: "孤儿分类"},
	}

	roots := buildTree(categories)
	if len(roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2 (orphan promoted)", len(roots))
	}
	if roots[1].ID != "orphan" {
		t.Errorf("roots[1].ID = %s, want orphan", roots[1].ID)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	roots := buildTree(nil)
	if roots == nil || len(roots) != 0 {
		t.Errorf("roots = %v, want empty non-nil slice", roots)
	}
}

// stubCategoryRepo 只实现测试路径用到的方法，其余 panic 暴露误用
type stubCategoryRepo struct {
	getAllCalls int
	categories  []*model.Category
	children    map[string][]*model.Category
	byAlias     map[string]*model.Category
}

func (s *stubCategoryRepo) GetAll(ctx context.Context, categoryType string) ([]*model.Category, error) {
	s.getAllCalls++
	return s.categories, nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryRepo) GetTopLevel(ctx context.Context, categoryType string) ([]*model.Category, error) {
	var tops []*model.Category
	for _, c := range s.categories {
		if c.Level == 0 {
			tops = append(tops, c)
		}
	}
	return tops, nil
}

func (s *stubCategoryRepo) GetTopLevelByAlias(ctx context.Context, alias string) (*model.Category, error) {
	return s.byAlias[alias], nil
}

func (s *stubCategoryRepo) GetChildren(ctx context.Context, parentID string) ([]*model.Category, error) {
	return s.children[parentID], nil
}

func (s *stubCategoryRepo) GetChildrenBatch(ctx context.Context, parentIDs []string) ([]*model.Category, error) {
	var all []*model.Category
	for _, id := range parentIDs {
		all = append(all, s.children[id]...)
	}
	return all, nil
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *model.Category) (string, error) {
	panic("not implemented")
}

func (s *stubCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	panic("not implemented")
}

func (s *stubCategoryRepo) SoftDelete(ctx context.Context, id string) error {
	panic("not implemented")
}

func TestGetTreeMemoized(t *testing.T) {
	repo := &stubCategoryRepo{
		categories: []*model.Category{{ID: "p1", Level: 0, Name: "PC游戏"}},
	}
	svc := NewCategoryService(repo, memo.New(time.Minute, time.Now))

	ctx := context.Background()
	if _, err := svc.GetTree(ctx, "game"); err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if _, err := svc.GetTree(ctx, "game"); err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if repo.getAllCalls != 1 {
		t.Errorf("getAllCalls = %d, want 1 (second call served from cache)", repo.getAllCalls)
	}
}

func TestGetNavigation(t *testing.T) {
	p1 := "p1"
	repo := &stubCategoryRepo{
		categories: []*model.Category{
			{ID: "p1", Level: 0, Name: "PC游戏"},
			{ID: "p2", Level: 0, Name: "主机游戏"},
		},
		children: map[string][]*model.Category{
			"p1": {
				{ID: "c1", Level: 1, ParentID: &p1, Name: "动作冒险"},
				{ID: "c2", Level: 1, ParentID: &p1, Name: "角色扮演"},
			},
		},
	}
	svc := NewCategoryService(repo, memo.New(time.Minute, time.Now))

	nav, err := svc.GetNavigation(context.Background(), "game")
	if err != nil {
		t.Fatalf("GetNavigation: %v", err)
	}
	if len(nav) != 2 {
		t.Fatalf("len(nav) = %d, want 2", len(nav))
	}
	if len(nav[0].Children) != 2 {
		t.Errorf("p1 children = %d, want 2", len(nav[0].Children))
	}
	if len(nav[1].Children) != 0 {
		t.Errorf("p2 children = %d, want 0", len(nav[1].Children))
	}
}

func TestResolveCategoryIDs(t *testing.T) {
	parent := &model.Category{ID: "p1", Level: 0, Alias: "pc"}
	repo := &stubCategoryRepo{
		byAlias: map[string]*model.Category{"pc": parent},
		children: map[string][]*model.Category{
			"p1": {
				{ID: "c1", Level: 1},
				{ID: "c2", Level: 1},
			},
		},
	}
	svc := NewCategoryService(repo, memo.New(time.Minute, time.Now))

	ids, err := svc.ResolveCategoryIDs(context.Background(), parent)
	if err != nil {
		t.Fatalf("ResolveCategoryIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c2" {
		t.Errorf("ids = %v, want [c1 c2]", ids)
	}

	// 叶子顶级分类解析成它自己
	leaf := &model.Category{ID: "p2", Level: 0, Alias: "mobile"}
	ids, err = svc.ResolveCategoryIDs(context.Background(), leaf)
	if err != nil {
		t.Fatalf("ResolveCategoryIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("ids = %v, want [p2]", ids)
	}
}
