package model

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// 行状态，软删除只翻状态位，行永不物理删除
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDeleted  = "deleted"
)

// 列表查询默认值与上限
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// QueryParams 列表查询参数
type QueryParams struct {
	Page       int
	Limit      int
	CategoryID string
	Status     string
	Search     string
	Sort       string
	Order      string
}

// 排序白名单按实体各一份：输入排序键映射到实际列名，
// 不在映射里的输入落回 created_time，拒绝任何拼接进 ORDER BY 的自由输入。
// 两张表列集不同，共用一份白名单会把 weight 之类资源独有的列
// 拼进文章查询，引擎直接报列不存在。
var (
	ResourceSortColumns = map[string]string{
		"created_time":   "created_time",
		"updated_time":   "updated_time",
		"view_count":     "view_count",
		"download_count": "download_count",
		"rating":         "rating",
		"weight":         "weight",
		"name":           "name",
	}
	ArticleSortColumns = map[string]string{
		"created_time": "created_time",
		"updated_time": "updated_time",
		"view_count":   "view_count",
		"title":        "title",
		"name":         "title",
	}
)

// Normalize 归一化查询参数
// page < 1 夹到 1，limit <= 0 落回默认 12，limit 上限 100，
// sort 过 sortable 白名单映射、未命中落回 created_time，
// 非法 order 落回 DESC。归一化后 TotalPages 的 ceil 运算
// 永远见到 limit >= 1。
func (p QueryParams) Normalize(sortable map[string]string) QueryParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if column, ok := sortable[p.Sort]; ok {
		p.Sort = column
	} else {
		p.Sort = "created_time"
	}
	switch strings.ToLower(p.Order) {
	case "asc":
		p.Order = "ASC"
	default:
		p.Order = "DESC"
	}
	return p
}

// ClampLimit 栏目类接口的条数夹取，与列表共用同一上限
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset 计算 OFFSET，调用前必须先 Normalize
func (p QueryParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResult 所有列表操作统一的分页信封
type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPaginatedResult 组装分页信封，TotalPages = ceil(total/limit)
func NewPaginatedResult[T any](data []T, total, page, limit int) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// EmptyPaginatedResult 空页（无匹配分类等短路路径）
func EmptyPaginatedResult[T any](page, limit int) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Data:       []T{},
		Total:      0,
		Page:       page,
		Limit:      limit,
		TotalPages: 0,
	}
}

// StringList JSON 数组列编解码器（galleries 等）
// 读：坏数据一律解成空列表，不报错；写：编码成 JSON 数组。
type StringList []string

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	*l = StringList{}
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// 坏 JSON 按空列表处理，属于契约而非兜底
		return nil
	}
	*l = parsed
	return nil
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// TagList 标签列编解码器
// 读：优先按 JSON 数组解析，失败时退回逗号切分（兼容旧的逗号串存储）；
// 写：编码成 JSON 数组。
type TagList []string

// Scan implements sql.Scanner
func (l *TagList) Scan(src interface{}) error {
	*l = TagList{}
	var raw string
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		*l = parsed
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	*l = tags
	return nil
}

// Value implements driver.Valuer
func (l TagList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// FlexBool 跨引擎布尔列
// mysql tinyint 读出来是 int64，postgres boolean 是 bool，部分导入数据
// 是 "1"/"t"/"true" 字符串。统一在行映射边界转成真布尔，后面的代码
// 不再做逐查询的字符串比较。
type FlexBool bool

// Scan implements sql.Scanner
func (b *FlexBool) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case bool:
		*b = FlexBool(v)
	case int64:
		*b = v != 0
	case []byte:
		*b = parseBoolString(string(v))
	case string:
		*b = parseBoolString(v)
	default:
		*b = false
	}
	return nil
}

func parseBoolString(s string) FlexBool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true":
		return true
	}
	return false
}

// Value implements driver.Valuer
func (b FlexBool) Value() (driver.Value, error) {
	return bool(b), nil
}

// Bool 转回内建布尔
func (b FlexBool) Bool() bool {
	return bool(b)
}

// BaseEntity 时间戳公共字段
type BaseEntity struct {
	CreatedTime time.Time `db:"created_time" json:"created_time"`
	UpdatedTime time.Time `db:"updated_time" json:"updated_time"`
}
