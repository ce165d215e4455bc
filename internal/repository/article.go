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

const articleColumns = "id, title, summary, content, thumbnail, tags, " +
	"view_count, like_count, comment_count, is_featured, is_top, status, created_time, updated_time"

// ArticleRepository 文章数据访问接口
type ArticleRepository interface {
	List(ctx context.Context, params model.QueryParams) ([]*model.Article, int, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	GetCategories(ctx context.Context, articleID string) ([]*model.Category, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.Article, error)
	ListTop(ctx context.Context, limit int) ([]*model.Article, error)
	ListPopular(ctx context.Context, limit int) ([]*model.Article, error)
	IncViews(ctx context.Context, id string) error
	Create(ctx context.Context, article *model.Article) (string, error)
	Update(ctx context.Context, article *model.Article) error
	SoftDelete(ctx context.Context, id string) error
	AttachCategory(ctx context.Context, articleID, categoryID string) error
	ListForSitemap(ctx context.Context, offset, limit int) ([]*model.Article, error)
	Count(ctx context.Context) (int, error)
}

type articleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository 创建 ArticleRepository 实例
func NewArticleRepository(db *sqlx.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// List 文章列表，结构与资源列表一致：可按分类联表过滤，
// 搜索匹配 title/summary/content，总数 COUNT(DISTINCT a.id)
func (r *articleRepository) List(ctx context.Context, params model.QueryParams) ([]*model.Article, int, error) {
	params = params.Normalize(model.ArticleSortColumns)

	where := "WHERE a.status = ?"
	args := []interface{}{params.Status}

	from := "FROM article a"
	if params.CategoryID != "" {
		from = "FROM article a INNER JOIN article_category ac ON a.id = ac.article_id"
		where += " AND ac.category_id = ?"
		args = append(args, params.CategoryID)
	}

	if params.Search != "" {
		where += " AND (a.title LIKE ? OR a.summary LIKE ? OR a.content LIKE ?)"
		term := "%" + params.Search + "%"
		args = append(args, term, term, term)
	}

	countQuery := "SELECT COUNT(DISTINCT a.id) " + from + " " + where
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), args...); err != nil {
		return nil, 0, err
	}

	dataQuery := "SELECT DISTINCT " + prefixColumns("a.", articleColumns) + " " + from + " " + where +
		" ORDER BY a." + params.Sort + " " + params.Order + " LIMIT ? OFFSET ?"
	dataArgs := append(args, params.Limit, params.Offset())

	var articles []*model.Article
	if err := r.db.SelectContext(ctx, &articles, r.db.Rebind(dataQuery), dataArgs...); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// GetByID 根据 ID 获取文章行
func (r *articleRepository) GetByID(ctx context.Context, id string) (*model.Article, error) {
	var article model.Article
	query := r.db.Rebind("SELECT " + articleColumns + " FROM article WHERE id = ? AND status = ?")
	err := r.db.GetContext(ctx, &article, query, id, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// GetCategories 获取文章挂接的分类
func (r *articleRepository) GetCategories(ctx context.Context, articleID string) ([]*model.Category, error) {
	var categories []*model.Category
	query := r.db.Rebind(`
		SELECT ` + prefixColumns("c.", categoryColumns) + `
		FROM category c
		INNER JOIN article_category ac ON c.id = ac.category_id
		WHERE ac.article_id = ? AND c.status = ?`)
	err := r.db.SelectContext(ctx, &categories, query, articleID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ListFeatured 精选文章
func (r *articleRepository) ListFeatured(ctx context.Context, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	query := r.db.Rebind("SELECT " + articleColumns + " FROM article WHERE status = ? AND is_featured = ? ORDER BY created_time DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &articles, query, model.StatusActive, true, limit)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// ListTop 置顶文章
func (r *articleRepository) ListTop(ctx context.Context, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	query := r.db.Rebind("SELECT " + articleColumns + " FROM article WHERE status = ? AND is_top = ? ORDER BY created_time DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &articles, query, model.StatusActive, true, limit)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// ListPopular 热门文章，浏览量降序、点赞数降序
func (r *articleRepository) ListPopular(ctx context.Context, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	query := r.db.Rebind("SELECT " + articleColumns + " FROM article WHERE status = ? ORDER BY view_count DESC, like_count DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &articles, query, model.StatusActive, limit)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// IncViews 浏览计数
func (r *articleRepository) IncViews(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE article SET view_count = view_count + 1 WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Create 创建文章
func (r *articleRepository) Create(ctx context.Context, article *model.Article) (string, error) {
	if article.ID == "" {
		article.ID = idgen.Generate()
	}
	if article.Status == "" {
		article.Status = model.StatusActive
	}
	now := time.Now()

	query := r.db.Rebind(`
		INSERT INTO article (id, title, summary, content, thumbnail, tags, is_featured, is_top, status, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Summary, article.Content, article.Thumbnail,
		article.Tags, article.IsFeatured, article.IsTop, article.Status, now, now)
	if err != nil {
		return "", err
	}
	return article.ID, nil
}

// Update 更新文章字段
func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	query := r.db.Rebind(`
		UPDATE article SET title = ?, summary = ?, content = ?, thumbnail = ?, tags = ?,
			is_featured = ?, is_top = ?, updated_time = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Thumbnail, article.Tags,
		article.IsFeatured, article.IsTop, time.Now(), article.ID)
	return err
}

// SoftDelete 软删除文章
func (r *articleRepository) SoftDelete(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE article SET status = ?, updated_time = ? WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, model.StatusDeleted, time.Now(), id)
	return err
}

// AttachCategory 挂接文章到分类
func (r *articleRepository) AttachCategory(ctx context.Context, articleID, categoryID string) error {
	query := r.db.Rebind("INSERT INTO article_category (id, article_id, category_id, created_time) VALUES (?, ?, ?, ?)")
	_, err := r.db.ExecContext(ctx, query, idgen.Generate(), articleID, categoryID, time.Now())
	return err
}

// ListForSitemap sitemap 用
func (r *articleRepository) ListForSitemap(ctx context.Context, offset, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	query := r.db.Rebind("SELECT id, updated_time, created_time FROM article WHERE status = ? ORDER BY id ASC LIMIT ? OFFSET ?")
	err := r.db.SelectContext(ctx, &articles, query, model.StatusActive, limit, offset)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// Count 活跃文章总数
func (r *articleRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM article WHERE status = ?")
	err := r.db.GetContext(ctx, &count, query, model.StatusActive)
	if err != nil {
		return 0, err
	}
	return count, nil
}
