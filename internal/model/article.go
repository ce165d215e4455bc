package model

// Article 文章模型
type Article struct {
	ID        string  `db:"id" json:"id"`
	Title     string  `db:"title" json:"title"`
	Summary   string  `db:"summary" json:"summary,omitempty"`
	Content   string  `db:"content" json:"content"`
	Thumbnail string  `db:"thumbnail" json:"thumbnail,omitempty"`
	Tags      TagList `db:"tags" json:"tags"`

	ViewCount    int `db:"view_count" json:"view_count"`
	LikeCount    int `db:"like_count" json:"like_count"`
	CommentCount int `db:"comment_count" json:"comment_count"`

	IsFeatured FlexBool `db:"is_featured" json:"is_featured"`
	IsTop      FlexBool `db:"is_top" json:"is_top"`

	Status string `db:"status" json:"status"`
	BaseEntity
}

// ArticleCategory 文章-分类关联行
type ArticleCategory struct {
	ID         string `db:"id" json:"id"`
	ArticleID  string `db:"article_id" json:"article_id"`
	CategoryID string `db:"category_id" json:"category_id"`
}

// ArticleDetail 文章详情（含关联数据）
type ArticleDetail struct {
	Article
	Categories []*Category `json:"categories"`
}
