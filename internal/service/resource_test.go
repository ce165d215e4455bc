package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/pkg/memo"
	"github.com/KeaPin/gameshare/internal/repository"
)

// stubResourceRepo 内存假仓库，记录调用次数
type stubResourceRepo struct {
	repository.ResourceRepository // 未覆盖的方法 panic

	listByCatCalls int
	resources      []*model.Resource
	total          int
	byID           map[string]*model.Resource
	links          map[string][]*model.ResourceLink
	downloads      int
	hotLimit       int
}

func (s *stubResourceRepo) ListByCategoryIDs(ctx context.Context, categoryIDs []string, params model.QueryParams) ([]*model.Resource, int, error) {
	s.listByCatCalls++
	return s.resources, s.total, nil
}

func (s *stubResourceRepo) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	return s.byID[id], nil
}

func (s *stubResourceRepo) GetCategories(ctx context.Context, resourceID string) ([]*model.Category, error) {
	return []*model.Category{}, nil
}

func (s *stubResourceRepo) GetLinks(ctx context.Context, resourceID string) ([]*model.ResourceLink, error) {
	return s.links[resourceID], nil
}

func (s *stubResourceRepo) IncDownloads(ctx context.Context, id string) error {
	s.downloads++
	return nil
}

func (s *stubResourceRepo) ListHot(ctx context.Context, limit int) ([]*model.Resource, error) {
	s.hotLimit = limit
	return s.resources, nil
}

func newResourceService(repo repository.ResourceRepository) *ResourceService {
	return NewResourceService(repo, nil, memo.New(time.Minute, time.Now))
}

func TestListByCategoryIDsEnvelope(t *testing.T) {
	repo := &stubResourceRepo{
		resources: []*model.Resource{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}},
		total:     25,
	}
	svc := newResourceService(repo)

	result, err := svc.ListByCategoryIDs(context.Background(), []string{"c1"}, model.QueryParams{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if result.Total != 25 || result.Page != 2 || result.Limit != 3 {
		t.Errorf("envelope = %+v", result)
	}
	if result.TotalPages != 9 {
		t.Errorf("TotalPages = %d, want ceil(25/3) = 9", result.TotalPages)
	}
	if len(result.Data) != 3 {
		t.Errorf("len(Data) = %d, want 3", len(result.Data))
	}
}

func TestListByCategoryIDsEmptyShortCircuit(t *testing.T) {
	repo := &stubResourceRepo{}
	svc := newResourceService(repo)

	result, err := svc.ListByCategoryIDs(context.Background(), nil, model.QueryParams{})
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if result.Total != 0 || result.TotalPages != 0 || len(result.Data) != 0 {
		t.Errorf("envelope = %+v, want empty page", result)
	}
	if result.Data == nil {
		t.Errorf("Data must be empty slice, not nil")
	}
	if repo.listByCatCalls != 0 {
		t.Errorf("repository reached on empty category set")
	}
}

func TestListByCategoryIDsMemoized(t *testing.T) {
	repo := &stubResourceRepo{total: 1, resources: []*model.Resource{{ID: "r1"}}}
	svc := newResourceService(repo)

	params := model.QueryParams{Page: 1, Limit: 12}
	for i := 0; i < 3; i++ {
		if _, err := svc.ListByCategoryIDs(context.Background(), []string{"c1"}, params); err != nil {
			t.Fatalf("ListByCategoryIDs: %v", err)
		}
	}
	if repo.listByCatCalls != 1 {
		t.Errorf("listByCatCalls = %d, want 1", repo.listByCatCalls)
	}
}

func TestGetDetailNotFound(t *testing.T) {
	repo := &stubResourceRepo{byID: map[string]*model.Resource{}}
	svc := newResourceService(repo)

	_, err := svc.GetDetail(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrResourceNotFound) {
		t.Errorf("err = %v, want ErrResourceNotFound", err)
	}
}

func TestGetDetailAssemblesLinks(t *testing.T) {
	repo := &stubResourceRepo{
		byID: map[string]*model.Resource{"r1": {ID: "r1", Name: "艾尔登法环"}},
		links: map[string][]*model.ResourceLink{
			"r1": {{ID: "l1", ResourceID: "r1", Platform: "夸克网盘"}},
		},
	}
	svc := newResourceService(repo)

	detail, err := svc.GetDetail(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Name != "艾尔登法环" {
		t.Errorf("Name = %s", detail.Name)
	}
	if len(detail.DownloadLinks) != 1 || detail.DownloadLinks[0].Platform != "夸克网盘" {
		t.Errorf("DownloadLinks = %+v", detail.DownloadLinks)
	}
}

func TestRecordDownloadMissingResource(t *testing.T) {
	repo := &stubResourceRepo{byID: map[string]*model.Resource{}}
	svc := newResourceService(repo)

	err := svc.RecordDownload(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrResourceNotFound) {
		t.Errorf("err = %v, want ErrResourceNotFound", err)
	}
	if repo.downloads != 0 {
		t.Errorf("downloads = %d, want 0", repo.downloads)
	}
}

func TestRecordDownloadIncrements(t *testing.T) {
	repo := &stubResourceRepo{byID: map[string]*model.Resource{"r1": {ID: "r1"}}}
	svc := newResourceService(repo)

	if err := svc.RecordDownload(context.Background(), "r1"); err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	if repo.downloads != 1 {
		t.Errorf("downloads = %d, want 1", repo.downloads)
	}
}

func TestGetHotClampsLimit(t *testing.T) {
	repo := &stubResourceRepo{resources: []*model.Resource{{ID: "r1"}}}
	svc := newResourceService(repo)

	if _, err := svc.GetHot(context.Background(), 1000000); err != nil {
		t.Fatalf("GetHot: %v", err)
	}
	if repo.hotLimit != model.MaxLimit {
		t.Errorf("limit = %d, want cap %d", repo.hotLimit, model.MaxLimit)
	}

	repo = &stubResourceRepo{}
	svc = newResourceService(repo)
	if _, err := svc.GetHot(context.Background(), 0); err != nil {
		t.Fatalf("GetHot: %v", err)
	}
	if repo.hotLimit != model.DefaultLimit {
		t.Errorf("limit = %d, want default %d", repo.hotLimit, model.DefaultLimit)
	}
}
