package model

import (
	"reflect"
	"testing"
)

func TestStringListScanRoundTrip(t *testing.T) {
	in := StringList{"/a.webp", "/b.webp", "/c.webp"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out StringList
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual([]string(in), []string(out)) {
		t.Fatalf("round trip mismatch: %v != %v", in, out)
	}
}

func TestStringListScanMalformed(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte("{not json")); err != nil {
		t.Fatalf("malformed input must not error, got %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("malformed input must yield empty list, got %v", l)
	}
}

func TestStringListScanNil(t *testing.T) {
	var l StringList
	if err := l.Scan(nil); err != nil {
		t.Fatalf("nil scan: %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("nil must yield empty list, got %v", l)
	}
}

func TestTagListScanJSON(t *testing.T) {
	var l TagList
	if err := l.Scan(`["RPG","通关攻略","新手指南"]`); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"RPG", "通关攻略", "新手指南"}
	if !reflect.DeepEqual([]string(l), want) {
		t.Fatalf("got %v, want %v", l, want)
	}
}

func TestTagListScanCommaFallback(t *testing.T) {
	var l TagList
	if err := l.Scan("模拟, 角色扮演 ,冒险"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"模拟", "角色扮演", "冒险"}
	if !reflect.DeepEqual([]string(l), want) {
		t.Fatalf("got %v, want %v", l, want)
	}
}

func TestFlexBoolScan(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{int64(1), true},
		{int64(0), false},
		{"1", true},
		{"t", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"f", false},
		{"false", false},
		{[]byte("1"), true},
		{[]byte("t"), true},
	}
	for _, c := range cases {
		var b FlexBool
		if err := b.Scan(c.in); err != nil {
			t.Fatalf("scan %v: %v", c.in, err)
		}
		if b.Bool() != c.want {
			t.Errorf("scan %v: got %v, want %v", c.in, b.Bool(), c.want)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p := QueryParams{}.Normalize(ResourceSortColumns)
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("defaults wrong: page=%d limit=%d", p.Page, p.Limit)
	}
	if p.Status != StatusActive {
		t.Fatalf("default status wrong: %s", p.Status)
	}
	if p.Sort != "created_time" || p.Order != "DESC" {
		t.Fatalf("default sort wrong: %s %s", p.Sort, p.Order)
	}
}

func TestNormalizeClamps(t *testing.T) {
	p := QueryParams{Page: -3, Limit: 0}.Normalize(ResourceSortColumns)
	if p.Page != 1 {
		t.Errorf("negative page must clamp to 1, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("limit 0 must fall back to default, got %d", p.Limit)
	}

	p = QueryParams{Page: 2, Limit: 5000}.Normalize(ResourceSortColumns)
	if p.Limit != MaxLimit {
		t.Errorf("limit must cap at %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset() != MaxLimit {
		t.Errorf("offset wrong after cap: %d", p.Offset())
	}
}

func TestNormalizeRejectsUnknownSort(t *testing.T) {
	p := QueryParams{Sort: "id; DROP TABLE resource", Order: "evil"}.Normalize(ResourceSortColumns)
	if p.Sort != "created_time" {
		t.Errorf("unknown sort must fall back, got %s", p.Sort)
	}
	if p.Order != "DESC" {
		t.Errorf("unknown order must fall back, got %s", p.Order)
	}
}

func TestNormalizeSortPerEntity(t *testing.T) {
	// 资源独有的列不能进文章排序
	p := QueryParams{Sort: "weight"}.Normalize(ArticleSortColumns)
	if p.Sort != "created_time" {
		t.Errorf("weight on articles must fall back, got %s", p.Sort)
	}
	p = QueryParams{Sort: "rating"}.Normalize(ArticleSortColumns)
	if p.Sort != "created_time" {
		t.Errorf("rating on articles must fall back, got %s", p.Sort)
	}

	// 文章独有的 title 不能进资源排序
	p = QueryParams{Sort: "title"}.Normalize(ResourceSortColumns)
	if p.Sort != "created_time" {
		t.Errorf("title on resources must fall back, got %s", p.Sort)
	}

	// 文章侧 name 映射到 title 列
	p = QueryParams{Sort: "name"}.Normalize(ArticleSortColumns)
	if p.Sort != "title" {
		t.Errorf("name on articles must map to title, got %s", p.Sort)
	}
}

func TestClampLimit(t *testing.T) {
	if got := ClampLimit(0); got != DefaultLimit {
		t.Errorf("limit 0 must fall back to default, got %d", got)
	}
	if got := ClampLimit(-5); got != DefaultLimit {
		t.Errorf("negative limit must fall back to default, got %d", got)
	}
	if got := ClampLimit(1000000); got != MaxLimit {
		t.Errorf("oversized limit must cap at %d, got %d", MaxLimit, got)
	}
	if got := ClampLimit(8); got != 8 {
		t.Errorf("in-range limit must pass through, got %d", got)
	}
}

func TestPaginatedResultTotalPages(t *testing.T) {
	r := NewPaginatedResult([]int{1, 2, 3}, 5, 1, 3)
	if r.TotalPages != 2 {
		t.Errorf("ceil(5/3) = 2, got %d", r.TotalPages)
	}
	r = NewPaginatedResult([]int{}, 0, 1, 12)
	if r.TotalPages != 0 {
		t.Errorf("empty total must give 0 pages, got %d", r.TotalPages)
	}
	if r.Data == nil {
		t.Error("data must never be nil")
	}
	r = NewPaginatedResult([]int{1}, 12, 1, 12)
	if r.TotalPages != 1 {
		t.Errorf("ceil(12/12) = 1, got %d", r.TotalPages)
	}
}
