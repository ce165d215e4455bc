package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/KeaPin/gameshare/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var resourceColumnNames = []string{
	"id", "name", "alias", "description", "rating", "thumbnail", "galleries", "tags",
	"developer", "publisher", "platforms", "version", "size", "language", "detail",
	"release_date", "official_link", "comment_count", "view_count", "like_count",
	"download_count", "is_featured", "is_hot", "is_new", "weight", "status",
	"created_time", "updated_time",
}

func resourceRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(resourceColumnNames)
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "游戏-"+id, "", "", nil, "", "[]", "[]",
			"", "", "", "", "", "", "", "", "",
			0, 0, 0, 0, int64(0), int64(0), int64(0), 0, model.StatusActive,
			now, now)
	}
	return rows
}

func TestListByCategoryIDsEmptyIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	resources, total, err := repo.ListByCategoryIDs(context.Background(), nil, model.QueryParams{Page: 1, Limit: 12})
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if resources == nil || len(resources) != 0 {
		t.Errorf("resources = %v, want empty non-nil slice", resources)
	}
	// 空分类集合不应触达数据库
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database access: %v", err)
	}
}

func TestListByCategoryIDsTwoStep(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	categoryIDs := []string{"cat1", "cat2"}

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT r\.id\)`).
		WithArgs(model.StatusActive, "cat1", "cat2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	idRows := sqlmock.NewRows([]string{"id", "created_time"}).
		AddRow("res1", time.Now()).
		AddRow("res2", time.Now())
	mock.ExpectQuery(`SELECT DISTINCT r\.id, r\.created_time`).
		WithArgs(model.StatusActive, "cat1", "cat2", 12, 0).
		WillReturnRows(idRows)

	mock.ExpectQuery(regexp.QuoteMeta("FROM resource WHERE id IN (?, ?)")).
		WithArgs("res1", "res2").
		WillReturnRows(resourceRows("res1", "res2"))

	resources, total, err := repo.ListByCategoryIDs(context.Background(), categoryIDs, model.QueryParams{Page: 1, Limit: 12})
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(resources) != 2 {
		t.Fatalf("len(resources) = %d, want 2", len(resources))
	}
	if resources[0].ID != "res1" || resources[1].ID != "res2" {
		t.Errorf("ids = [%s %s], want [res1 res2]", resources[0].ID, resources[1].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListByCategoryIDsPageBeyondRange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT r\.id\)`).
		WithArgs(model.StatusActive, "cat1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	// 第 10 页越界，ID 页为空，不应再发回表查询
	mock.ExpectQuery(`SELECT DISTINCT r\.id`).
		WithArgs(model.StatusActive, "cat1", 12, 108).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_time"}))

	resources, total, err := repo.ListByCategoryIDs(context.Background(), []string{"cat1"}, model.QueryParams{Page: 10, Limit: 12})
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5 preserved on out-of-range page", total)
	}
	if len(resources) != 0 {
		t.Errorf("len(resources) = %d, want 0", len(resources))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectQuery(`FROM resource WHERE id = \? AND status = \?`).
		WithArgs("missing", model.StatusActive).
		WillReturnRows(resourceRows())

	resource, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resource != nil {
		t.Errorf("resource = %+v, want nil for missing id", resource)
	}
}

func TestGetByIDExcludesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	// 查询本身带 status = active 谓词，软删除的行自然不可见
	mock.ExpectQuery(`FROM resource WHERE id = \? AND status = \?`).
		WithArgs("res1", model.StatusActive).
		WillReturnRows(resourceRows("res1"))

	resource, err := repo.GetByID(context.Background(), "res1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resource == nil || resource.ID != "res1" {
		t.Fatalf("resource = %+v, want res1", resource)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListWithSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT r\.id\) FROM resource r`).
		WithArgs(model.StatusActive, "%塞尔达%", "%塞尔达%", "%塞尔达%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT DISTINCT r\.id, r\.name`).
		WithArgs(model.StatusActive, "%塞尔达%", "%塞尔达%", "%塞尔达%", 12, 0).
		WillReturnRows(resourceRows("res1"))

	resources, total, err := repo.List(context.Background(), model.QueryParams{Search: "塞尔达"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(resources) != 1 {
		t.Errorf("total = %d len = %d, want 1/1", total, len(resources))
	}
}

func TestListSortWhitelistFallback(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT r\.id\)`).
		WithArgs(model.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// 注入尝试必须落回 created_time DESC
	mock.ExpectQuery(`ORDER BY r\.created_time DESC`).
		WithArgs(model.StatusActive, 12, 0).
		WillReturnRows(resourceRows())

	_, _, err := repo.List(context.Background(), model.QueryParams{Sort: "name; DROP TABLE resource"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListSortTitleNotAResourceColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT r\.id\)`).
		WithArgs(model.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// title 是文章的列，资源侧必须落回 created_time
	mock.ExpectQuery(`ORDER BY r\.created_time DESC`).
		WithArgs(model.StatusActive, 12, 0).
		WillReturnRows(resourceRows())

	_, _, err := repo.List(context.Background(), model.QueryParams{Sort: "title"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIncViews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE resource SET view_count = view_count + 1 WHERE id = ?")).
		WithArgs("res1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncViews(context.Background(), "res1"); err != nil {
		t.Fatalf("IncViews: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestBatchCountsByCategoryIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResourceRepository(db)

	rows := sqlmock.NewRows([]string{"category_id", "total"}).
		AddRow("cat1", 3).
		AddRow("cat2", 7)
	mock.ExpectQuery(`GROUP BY rc\.category_id`).
		WithArgs(model.StatusActive, "cat1", "cat2", "cat3").
		WillReturnRows(rows)

	counts, err := repo.BatchCountsByCategoryIDs(context.Background(), []string{"cat1", "cat2", "cat3"})
	if err != nil {
		t.Fatalf("BatchCountsByCategoryIDs: %v", err)
	}
	if counts["cat1"] != 3 || counts["cat2"] != 7 {
		t.Errorf("counts = %v", counts)
	}
	// 没有资源的分类不在结果里，调用方按零处理
	if _, ok := counts["cat3"]; ok {
		t.Errorf("cat3 should be absent from counts map")
	}
}
