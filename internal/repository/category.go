package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KeaPin/gameshare/internal/core/idgen"
	"github.com/KeaPin/gameshare/internal/model"
)

const categoryColumns = "id, level, parent_id, type, name, alias, description, icon, weight, status, created_time, updated_time"

// CategoryRepository 分类数据访问接口
// 读操作只返回 active 行，空结果返回空切片不报错，单行查不到返回 nil 不报错
type CategoryRepository interface {
	GetAll(ctx context.Context, categoryType string) ([]*model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetTopLevel(ctx context.Context, categoryType string) ([]*model.Category, error)
	GetTopLevelByAlias(ctx context.Context, alias string) (*model.Category, error)
	GetChildren(ctx context.Context, parentID string) ([]*model.Category, error)
	GetChildrenBatch(ctx context.Context, parentIDs []string) ([]*model.Category, error)
	Create(ctx context.Context, category *model.Category) (string, error)
	Update(ctx context.Context, category *model.Category) error
	SoftDelete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository 创建 CategoryRepository 实例
func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetAll 获取所有分类，可按 type 过滤
// 排序：level 升序、weight 降序、name 升序
func (r *categoryRepository) GetAll(ctx context.Context, categoryType string) ([]*model.Category, error) {
	query := "SELECT " + categoryColumns + " FROM category WHERE status = ?"
	args := []interface{}{model.StatusActive}
	if categoryType != "" {
		query += " AND type = ?"
		args = append(args, categoryType)
	}
	query += " ORDER BY level ASC, weight DESC, name ASC"

	var categories []*model.Category
	err := r.db.SelectContext(ctx, &categories, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类，软删除过的行不可见
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := r.db.Rebind("SELECT " + categoryColumns + " FROM category WHERE id = ? AND status = ?")
	err := r.db.GetContext(ctx, &category, query, id, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetTopLevel 获取顶级分类（level = 0）
func (r *categoryRepository) GetTopLevel(ctx context.Context, categoryType string) ([]*model.Category, error) {
	query := "SELECT " + categoryColumns + " FROM category WHERE level = 0 AND status = ?"
	args := []interface{}{model.StatusActive}
	if categoryType != "" {
		query += " AND type = ?"
		args = append(args, categoryType)
	}
	query += " ORDER BY weight DESC, name ASC"

	var categories []*model.Category
	err := r.db.SelectContext(ctx, &categories, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetTopLevelByAlias 根据别名获取顶级分类
func (r *categoryRepository) GetTopLevelByAlias(ctx context.Context, alias string) (*model.Category, error) {
	var category model.Category
	query := r.db.Rebind("SELECT " + categoryColumns + " FROM category WHERE level = 0 AND alias = ? AND status = ?")
	err := r.db.GetContext(ctx, &category, query, alias, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetChildren 获取直接子分类
func (r *categoryRepository) GetChildren(ctx context.Context, parentID string) ([]*model.Category, error) {
	var categories []*model.Category
	query := r.db.Rebind("SELECT " + categoryColumns + " FROM category WHERE parent_id = ? AND status = ? ORDER BY weight DESC, name ASC")
	err := r.db.SelectContext(ctx, &categories, query, parentID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetChildrenBatch 一次查询多个父分类的子分类，避免逐父级查询的 N+1
func (r *categoryRepository) GetChildrenBatch(ctx context.Context, parentIDs []string) ([]*model.Category, error) {
	if len(parentIDs) == 0 {
		return []*model.Category{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT "+categoryColumns+" FROM category WHERE parent_id IN (?) AND status = ? ORDER BY parent_id, weight DESC, name ASC",
		parentIDs, model.StatusActive)
	if err != nil {
		return nil, err
	}

	var categories []*model.Category
	err = r.db.SelectContext(ctx, &categories, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Create 创建分类，主键应用侧生成
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) (string, error) {
	if category.ID == "" {
		category.ID = idgen.Generate()
	}
	if category.Status == "" {
		category.Status = model.StatusActive
	}
	now := time.Now()

	query := r.db.Rebind(`
		INSERT INTO category (id, level, parent_id, type, name, alias, description, icon, weight, status, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Level, category.ParentID, category.Type, category.Name,
		category.Alias, category.Description, category.Icon, category.Weight, category.Status,
		now, now)
	if err != nil {
		return "", err
	}
	return category.ID, nil
}

// Update 更新分类
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := r.db.Rebind(`
		UPDATE category SET name = ?, alias = ?, description = ?, icon = ?, weight = ?, status = ?, updated_time = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		category.Name, category.Alias, category.Description, category.Icon,
		category.Weight, category.Status, time.Now(), category.ID)
	return err
}

// SoftDelete 软删除：只翻状态位，行保留
func (r *categoryRepository) SoftDelete(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE category SET status = ?, updated_time = ? WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, model.StatusDeleted, time.Now(), id)
	return err
}
