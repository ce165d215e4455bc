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

const resourceColumns = "id, name, alias, description, rating, thumbnail, galleries, tags, " +
	"developer, publisher, platforms, version, size, language, detail, release_date, official_link, " +
	"comment_count, view_count, like_count, download_count, is_featured, is_hot, is_new, " +
	"weight, status, created_time, updated_time"

// ResourceRepository 资源数据访问接口
// ORDER BY 里的排序字段只接受 QueryParams.Normalize 白名单产出的值，
// 其余输入一律走参数绑定。
type ResourceRepository interface {
	List(ctx context.Context, params model.QueryParams) ([]*model.Resource, int, error)
	ListByCategoryIDs(ctx context.Context, categoryIDs []string, params model.QueryParams) ([]*model.Resource, int, error)
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetCategories(ctx context.Context, resourceID string) ([]*model.Category, error)
	GetLinks(ctx context.Context, resourceID string) ([]*model.ResourceLink, error)
	ListHot(ctx context.Context, limit int) ([]*model.Resource, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.Resource, error)
	ListNew(ctx context.Context, limit int) ([]*model.Resource, error)
	ListTopRated(ctx context.Context, limit int) ([]*model.Resource, error)
	ListRandomByCategoryIDs(ctx context.Context, categoryIDs []string, limit int) ([]*model.Resource, error)
	ListByCategoryIDsOrderedByWeight(ctx context.Context, categoryIDs []string, limit int) ([]*model.Resource, error)
	BatchCountsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]int, error)
	IncViews(ctx context.Context, id string) error
	IncDownloads(ctx context.Context, id string) error
	Create(ctx context.Context, resource *model.Resource) (string, error)
	CreateIn(ctx context.Context, ext sqlx.ExtContext, resource *model.Resource) (string, error)
	Update(ctx context.Context, resource *model.Resource) error
	UpdateIn(ctx context.Context, ext sqlx.ExtContext, resource *model.Resource) error
	SoftDelete(ctx context.Context, id string) error
	DetachCategoriesIn(ctx context.Context, ext sqlx.ExtContext, resourceID string) error
	CreateLink(ctx context.Context, link *model.ResourceLink) (string, error)
	CreateLinkIn(ctx context.Context, ext sqlx.ExtContext, link *model.ResourceLink) (string, error)
	AttachCategory(ctx context.Context, resourceID, categoryID string) error
	AttachCategoryIn(ctx context.Context, ext sqlx.ExtContext, resourceID, categoryID string) error
	ListForSitemap(ctx context.Context, offset, limit int) ([]*model.Resource, error)
	Count(ctx context.Context) (int, error)
}

type resourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository 创建 ResourceRepository 实例
func NewResourceRepository(db *sqlx.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// randExpr 引擎原生随机排序，非确定性是契约的一部分
func (r *resourceRepository) randExpr() string {
	if r.db.DriverName() == "postgres" {
		return "RANDOM()"
	}
	return "RAND()"
}

// List 资源列表
// 给了 category_id 就通过 resource_category 联表过滤，搜索词在
// name/description/tags 上做子串匹配。总数用 COUNT(DISTINCT r.id)，
// 数据页用 DISTINCT，关联表重复挂接不会把同一资源数两次。
func (r *resourceRepository) List(ctx context.Context, params model.QueryParams) ([]*model.Resource, int, error) {
	params = params.Normalize(model.ResourceSortColumns)

	where := "WHERE r.status = ?"
	args := []interface{}{params.Status}

	from := "FROM resource r"
	if params.CategoryID != "" {
		from = "FROM resource r INNER JOIN resource_category rc ON r.id = rc.resource_id"
		where += " AND rc.category_id = ?"
		args = append(args, params.CategoryID)
	}

	if params.Search != "" {
		where += " AND (r.name LIKE ? OR r.description LIKE ? OR r.tags LIKE ?)"
		term := "%" + params.Search + "%"
		args = append(args, term, term, term)
	}

	countQuery := "SELECT COUNT(DISTINCT r.id) " + from + " " + where
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), args...); err != nil {
		return nil, 0, err
	}

	dataQuery := "SELECT DISTINCT " + prefixColumns("r.", resourceColumns) + " " + from + " " + where +
		" ORDER BY r." + params.Sort + " " + params.Order + " LIMIT ? OFFSET ?"
	dataArgs := append(args, params.Limit, params.Offset())

	var resources []*model.Resource
	if err := r.db.SelectContext(ctx, &resources, r.db.Rebind(dataQuery), dataArgs...); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// ListByCategoryIDs 多分类聚合分页：先分页取去重 ID，再回表取整行
// 顶级分类的资源散在多个子分类里时走这里。ID 页保证每页恰好 limit 个
// 去重资源，回表查询用同样的排序键，两步之间不会悄悄换序。
// 两步不包事务，中间窗口可能有幻影行，属于记录在案的取舍。
func (r *resourceRepository) ListByCategoryIDs(ctx context.Context, categoryIDs []string, params model.QueryParams) ([]*model.Resource, int, error) {
	if len(categoryIDs) == 0 {
		return []*model.Resource{}, 0, nil
	}

	params = params.Normalize(model.ResourceSortColumns)

	countQuery, countArgs, err := sqlx.In(`
		SELECT COUNT(DISTINCT r.id)
		FROM resource r
		INNER JOIN resource_category rc ON rc.resource_id = r.id
		WHERE r.status = ? AND rc.category_id IN (?)`,
		params.Status, categoryIDs)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	idQuery, idArgs, err := sqlx.In(`
		SELECT DISTINCT r.id, r.`+params.Sort+`
		FROM resource r
		INNER JOIN resource_category rc ON rc.resource_id = r.id
		WHERE r.status = ? AND rc.category_id IN (?)
		ORDER BY r.`+params.Sort+` `+params.Order+`
		LIMIT ? OFFSET ?`,
		params.Status, categoryIDs, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	// DISTINCT 下排序键必须出现在选择列里，这里手工扫掉它
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(idQuery), idArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var sortKey interface{}
		if err := rows.Scan(&id, &sortKey); err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		// 越界页：总数保持，数据为空
		return []*model.Resource{}, total, nil
	}

	dataQuery, dataArgs, err := sqlx.In(
		"SELECT "+resourceColumns+" FROM resource WHERE id IN (?) ORDER BY "+params.Sort+" "+params.Order,
		ids)
	if err != nil {
		return nil, 0, err
	}

	var resources []*model.Resource
	if err := r.db.SelectContext(ctx, &resources, r.db.Rebind(dataQuery), dataArgs...); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// GetByID 根据 ID 获取资源行
func (r *resourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	query := r.db.Rebind("SELECT " + resourceColumns + " FROM resource WHERE id = ? AND status = ?")
	err := r.db.GetContext(ctx, &resource, query, id, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &resource, nil
}

// GetCategories 获取资源挂接的分类
func (r *resourceRepository) GetCategories(ctx context.Context, resourceID string) ([]*model.Category, error) {
	var categories []*model.Category
	query := r.db.Rebind(`
		SELECT ` + prefixColumns("c.", categoryColumns) + `
		FROM category c
		INNER JOIN resource_category rc ON c.id = rc.category_id
		WHERE rc.resource_id = ? AND c.status = ?`)
	err := r.db.SelectContext(ctx, &categories, query, resourceID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

const resourceLinkColumns = "id, resource_id, platform, url, password, weight, status, created_time, updated_time"

// GetLinks 获取下载链接，weight 降序
func (r *resourceRepository) GetLinks(ctx context.Context, resourceID string) ([]*model.ResourceLink, error) {
	var links []*model.ResourceLink
	query := r.db.Rebind("SELECT " + resourceLinkColumns + " FROM resource_link WHERE resource_id = ? AND status = ? ORDER BY weight DESC")
	err := r.db.SelectContext(ctx, &links, query, resourceID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ListHot 热门资源
func (r *resourceRepository) ListHot(ctx context.Context, limit int) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := r.db.Rebind("SELECT " + resourceColumns + " FROM resource WHERE status = ? AND is_hot = ? ORDER BY weight DESC, download_count DESC, view_count DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &resources, query, model.StatusActive, true, limit)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// ListFeatured 精选资源
func (r *resourceRepository) ListFeatured(ctx context.Context, limit int) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := r.db.Rebind("SELECT " + resourceColumns + " FROM resource WHERE status = ? AND is_featured = ? ORDER BY weight DESC, created_time DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &resources, query, model.StatusActive, true, limit)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// ListNew 最新资源
func (r *resourceRepository) ListNew(ctx context.Context, limit int) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := r.db.Rebind("SELECT " + resourceColumns + " FROM resource WHERE status = ? AND is_new = ? ORDER BY created_time DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &resources, query, model.StatusActive, true, limit)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// ListTopRated 高评分资源
func (r *resourceRepository) ListTopRated(ctx context.Context, limit int) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := r.db.Rebind("SELECT " + resourceColumns + " FROM resource WHERE status = ? AND rating IS NOT NULL ORDER BY rating DESC, view_count DESC LIMIT ?")
	err := r.db.SelectContext(ctx, &resources, query, model.StatusActive, limit)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// ListRandomByCategoryIDs 多分类随机取样
// 引擎原生随机排序，O(n log n)，发现流非关键路径可以接受
func (r *resourceRepository) ListRandomByCategoryIDs(ctx context.Context, categoryIDs []string, limit int) ([]*model.Resource, error) {
	if len(categoryIDs) == 0 {
		return []*model.Resource{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+resourceColumns+`
		FROM resource
		WHERE status = ? AND id IN (
			SELECT DISTINCT rc.resource_id
			FROM resource_category rc
			WHERE rc.category_id IN (?)
		)
		ORDER BY `+r.randExpr()+`
		LIMIT ?`,
		model.StatusActive, categoryIDs, limit)
	if err != nil {
		return nil, err
	}

	var resources []*model.Resource
	if err := r.db.SelectContext(ctx, &resources, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return resources, nil
}

// ListByCategoryIDsOrderedByWeight 多分类按权重取样（首页栏目用）
func (r *resourceRepository) ListByCategoryIDsOrderedByWeight(ctx context.Context, categoryIDs []string, limit int) ([]*model.Resource, error) {
	if len(categoryIDs) == 0 {
		return []*model.Resource{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+resourceColumns+`
		FROM resource
		WHERE status = ? AND id IN (
			SELECT DISTINCT rc.resource_id
			FROM resource_category rc
			WHERE rc.category_id IN (?)
		)
		ORDER BY weight DESC, created_time DESC
		LIMIT ?`,
		model.StatusActive, categoryIDs, limit)
	if err != nil {
		return nil, err
	}

	var resources []*model.Resource
	if err := r.db.SelectContext(ctx, &resources, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return resources, nil
}

// BatchCountsByCategoryIDs 一次查询多个分类各自的去重资源数
func (r *resourceRepository) BatchCountsByCategoryIDs(ctx context.Context, categoryIDs []string) (map[string]int, error) {
	if len(categoryIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT rc.category_id, COUNT(DISTINCT r.id) AS total
		FROM resource r
		INNER JOIN resource_category rc ON rc.resource_id = r.id
		WHERE r.status = ? AND rc.category_id IN (?)
		GROUP BY rc.category_id`,
		model.StatusActive, categoryIDs)
	if err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID string `db:"category_id"`
		Total      int    `db:"total"`
	}
	var rows []countRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

// IncViews 浏览计数，无锁无防抖，并发丢失更新是接受的
func (r *resourceRepository) IncViews(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE resource SET view_count = view_count + 1 WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// IncDownloads 下载计数
func (r *resourceRepository) IncDownloads(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE resource SET download_count = download_count + 1 WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Create 创建资源
func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) (string, error) {
	return r.CreateIn(ctx, r.db, resource)
}

// CreateIn 创建资源，executor 可以是 *sqlx.DB 或 *sqlx.Tx
// 管理端创建走事务（资源、挂接、链接同生共死），种子批次逐行独立提交
func (r *resourceRepository) CreateIn(ctx context.Context, ext sqlx.ExtContext, resource *model.Resource) (string, error) {
	if resource.ID == "" {
		resource.ID = idgen.Generate()
	}
	if resource.Status == "" {
		resource.Status = model.StatusActive
	}
	now := time.Now()

	query := ext.Rebind(`
		INSERT INTO resource (
			id, name, alias, description, rating, thumbnail, galleries, tags,
			developer, publisher, platforms, version, size, language, detail,
			release_date, official_link, is_featured, is_hot, is_new,
			weight, status, created_time, updated_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ext.ExecContext(ctx, query,
		resource.ID, resource.Name, resource.Alias, resource.Description, resource.Rating,
		resource.Thumbnail, resource.Galleries, resource.Tags,
		resource.Developer, resource.Publisher, resource.Platforms, resource.Version,
		resource.Size, resource.Language, resource.Detail,
		resource.ReleaseDate, resource.OfficialLink,
		resource.IsFeatured, resource.IsHot, resource.IsNew,
		resource.Weight, resource.Status, now, now)
	if err != nil {
		return "", err
	}
	return resource.ID, nil
}

// Update 更新资源字段
func (r *resourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	return r.UpdateIn(ctx, r.db, resource)
}

// UpdateIn 更新资源字段，可挂在事务上
func (r *resourceRepository) UpdateIn(ctx context.Context, ext sqlx.ExtContext, resource *model.Resource) error {
	query := ext.Rebind(`
		UPDATE resource SET
			name = ?, alias = ?, description = ?, rating = ?, thumbnail = ?,
			galleries = ?, tags = ?, developer = ?, publisher = ?, platforms = ?,
			version = ?, size = ?, language = ?, detail = ?, release_date = ?,
			official_link = ?, is_featured = ?, is_hot = ?, is_new = ?,
			weight = ?, updated_time = ?
		WHERE id = ?`)
	_, err := ext.ExecContext(ctx, query,
		resource.Name, resource.Alias, resource.Description, resource.Rating, resource.Thumbnail,
		resource.Galleries, resource.Tags, resource.Developer, resource.Publisher, resource.Platforms,
		resource.Version, resource.Size, resource.Language, resource.Detail, resource.ReleaseDate,
		resource.OfficialLink, resource.IsFeatured, resource.IsHot, resource.IsNew,
		resource.Weight, time.Now(), resource.ID)
	return err
}

// SoftDelete 软删除资源
func (r *resourceRepository) SoftDelete(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE resource SET status = ?, updated_time = ? WHERE id = ?")
	_, err := r.db.ExecContext(ctx, query, model.StatusDeleted, time.Now(), id)
	return err
}

// DetachCategoriesIn 解除资源的所有分类挂接，可挂在事务上
func (r *resourceRepository) DetachCategoriesIn(ctx context.Context, ext sqlx.ExtContext, resourceID string) error {
	query := ext.Rebind("DELETE FROM resource_category WHERE resource_id = ?")
	_, err := ext.ExecContext(ctx, query, resourceID)
	return err
}

// CreateLink 创建下载链接
func (r *resourceRepository) CreateLink(ctx context.Context, link *model.ResourceLink) (string, error) {
	return r.CreateLinkIn(ctx, r.db, link)
}

// CreateLinkIn 创建下载链接，可挂在事务上
func (r *resourceRepository) CreateLinkIn(ctx context.Context, ext sqlx.ExtContext, link *model.ResourceLink) (string, error) {
	if link.ID == "" {
		link.ID = idgen.Generate()
	}
	if link.Status == "" {
		link.Status = model.StatusActive
	}
	now := time.Now()

	query := ext.Rebind(`
		INSERT INTO resource_link (id, resource_id, platform, url, password, weight, status, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ext.ExecContext(ctx, query,
		link.ID, link.ResourceID, link.Platform, link.URL, link.Password, link.Weight, link.Status, now, now)
	if err != nil {
		return "", err
	}
	return link.ID, nil
}

// AttachCategory 挂接资源到分类
func (r *resourceRepository) AttachCategory(ctx context.Context, resourceID, categoryID string) error {
	return r.AttachCategoryIn(ctx, r.db, resourceID, categoryID)
}

// AttachCategoryIn 挂接资源到分类，可挂在事务上
func (r *resourceRepository) AttachCategoryIn(ctx context.Context, ext sqlx.ExtContext, resourceID, categoryID string) error {
	query := ext.Rebind("INSERT INTO resource_category (id, resource_id, category_id, created_time) VALUES (?, ?, ?, ?)")
	_, err := ext.ExecContext(ctx, query, idgen.Generate(), resourceID, categoryID, time.Now())
	return err
}

// ListForSitemap sitemap 分片用，只取 id 和更新时间
func (r *resourceRepository) ListForSitemap(ctx context.Context, offset, limit int) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := r.db.Rebind("SELECT id, updated_time, created_time FROM resource WHERE status = ? ORDER BY id ASC LIMIT ? OFFSET ?")
	err := r.db.SelectContext(ctx, &resources, query, model.StatusActive, limit, offset)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// Count 活跃资源总数
func (r *resourceRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM resource WHERE status = ?")
	err := r.db.GetContext(ctx, &count, query, model.StatusActive)
	if err != nil {
		return 0, err
	}
	return count, nil
}
