package model

// Category 分类模型
// level 0 是顶级分类，子分类通过 parent_id 回指父级，观测到的最大深度是两层
type Category struct {
	ID          string  `db:"id" json:"id"`
	Level       int     `db:"level" json:"level"`
	ParentID    *string `db:"parent_id" json:"parent_id,omitempty"`
	Type        string  `db:"type" json:"type"` // Platform、Genre、Article 等
	Name        string  `db:"name" json:"name"`
	Alias       string  `db:"alias" json:"alias,omitempty"` // URL 友好的别名
	Description string  `db:"description" json:"description,omitempty"`
	Icon        string  `db:"icon" json:"icon"`
	Weight      int     `db:"weight" json:"weight"`
	Status      string  `db:"status" json:"status"`
	BaseEntity
}

// CategoryTree 分类树节点
type CategoryTree struct {
	Category
	Children []*CategoryTree `json:"children"`
}
