package model

// Resource 游戏资源模型
type Resource struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Alias        string     `db:"alias" json:"alias,omitempty"`
	Description  string     `db:"description" json:"description,omitempty"`
	Rating       *float64   `db:"rating" json:"rating,omitempty"` // 0.0-10.0
	Thumbnail    string     `db:"thumbnail" json:"thumbnail,omitempty"`
	Galleries    StringList `db:"galleries" json:"galleries"`
	Tags         TagList    `db:"tags" json:"tags"`
	Developer    string     `db:"developer" json:"developer,omitempty"`
	Publisher    string     `db:"publisher" json:"publisher,omitempty"`
	Platforms    string     `db:"platforms" json:"platforms,omitempty"`
	Version      string     `db:"version" json:"version,omitempty"`
	Size         string     `db:"size" json:"size,omitempty"`
	Language     string     `db:"language" json:"language,omitempty"`
	Detail       string     `db:"detail" json:"detail,omitempty"`
	ReleaseDate  string     `db:"release_date" json:"release_date,omitempty"`
	OfficialLink string     `db:"official_link" json:"official_link,omitempty"`

	CommentCount  int `db:"comment_count" json:"comment_count"`
	ViewCount     int `db:"view_count" json:"view_count"`
	LikeCount     int `db:"like_count" json:"like_count"`
	DownloadCount int `db:"download_count" json:"download_count"`

	IsFeatured FlexBool `db:"is_featured" json:"is_featured"`
	IsHot      FlexBool `db:"is_hot" json:"is_hot"`
	IsNew      FlexBool `db:"is_new" json:"is_new"`

	Weight int    `db:"weight" json:"weight"`
	Status string `db:"status" json:"status"`
	BaseEntity
}

// ResourceLink 下载镜像，归属且仅归属一个资源
type ResourceLink struct {
	ID         string `db:"id" json:"id"`
	ResourceID string `db:"resource_id" json:"resource_id"`
	Platform   string `db:"platform" json:"platform"` // 网盘平台名称
	URL        string `db:"url" json:"url"`
	Password   string `db:"password" json:"password,omitempty"`
	Weight     int    `db:"weight" json:"weight"`
	Status     string `db:"status" json:"status"`
	BaseEntity
}

// ResourceCategory 资源-分类关联行
type ResourceCategory struct {
	ID         string `db:"id" json:"id"`
	ResourceID string `db:"resource_id" json:"resource_id"`
	CategoryID string `db:"category_id" json:"category_id"`
}

// ResourceDetail 资源详情（含关联数据）
type ResourceDetail struct {
	Resource
	Categories    []*Category     `json:"categories"`
	DownloadLinks []*ResourceLink `json:"download_links"`
}
