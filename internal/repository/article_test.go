package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/KeaPin/gameshare/internal/model"
)

var articleColumnNames = []string{
	"id", "title", "summary", "content", "thumbnail", "tags",
	"view_count", "like_count", "comment_count", "is_featured", "is_top",
	"status", "created_time", "updated_time",
}

func articleRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(articleColumnNames)
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "文章-"+id, "", "正文", "", "[]",
			0, 0, 0, int64(0), int64(0),
			model.StatusActive, now, now)
	}
	return rows
}

func TestArticleListSortNameMapsToTitle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT a\.id\)`).
		WithArgs(model.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// 文章侧 name 排序落到 title 列
	mock.ExpectQuery(`ORDER BY a\.title DESC`).
		WithArgs(model.StatusActive, 12, 0).
		WillReturnRows(articleRows("a1"))

	_, _, err := repo.List(context.Background(), model.QueryParams{Sort: "name"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestArticleListRejectsResourceOnlySorts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	// weight/rating/download_count 是资源的列，文章侧必须落回 created_time
	for _, sort := range []string{"weight", "rating", "download_count"} {
		mock.ExpectQuery(`SELECT COUNT\(DISTINCT a\.id\)`).
			WithArgs(model.StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY a\.created_time DESC`).
			WithArgs(model.StatusActive, 12, 0).
			WillReturnRows(articleRows())

		_, _, err := repo.List(context.Background(), model.QueryParams{Sort: sort})
		if err != nil {
			t.Fatalf("List(sort=%s): %v", sort, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestArticleListPopularOrdering(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery(`ORDER BY view_count DESC, like_count DESC LIMIT \?`).
		WithArgs(model.StatusActive, 5).
		WillReturnRows(articleRows("a1", "a2"))

	articles, err := repo.ListPopular(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListPopular: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("len = %d, want 2", len(articles))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestArticleGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery(`FROM article WHERE id = \?`).
		WithArgs("missing", model.StatusActive).
		WillReturnRows(sqlmock.NewRows(articleColumnNames))

	article, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if article != nil {
		t.Errorf("article = %+v, want nil", article)
	}
}

func TestArticleIncViews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE article SET view_count = view_count + 1 WHERE id = ?")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncViews(context.Background(), "a1"); err != nil {
		t.Fatalf("IncViews: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
