package service

import (
	"context"
	"fmt"

	"github.com/KeaPin/gameshare/internal/core/logger"
	"github.com/KeaPin/gameshare/internal/model"
	"github.com/KeaPin/gameshare/internal/pkg/apperr"
	"github.com/KeaPin/gameshare/internal/repository"
)

// 种子动作名，其余输入一律 400
const (
	SeedActionAll        = "all"
	SeedActionCategories = "categories"
	SeedActionResources  = "resources"
	SeedActionArticles   = "articles"
)

// SeedService 初始化数据写入
// 每行插入单独包裹，单行失败记日志计数，不中断批次
type SeedService struct {
	categoryRepo repository.CategoryRepository
	resourceRepo repository.ResourceRepository
	articleRepo  repository.ArticleRepository
}

// SeedStats 批次统计
type SeedStats struct {
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(categoryRepo repository.CategoryRepository, resourceRepo repository.ResourceRepository, articleRepo repository.ArticleRepository) *SeedService {
	return &SeedService{
		categoryRepo: categoryRepo,
		resourceRepo: resourceRepo,
		articleRepo:  articleRepo,
	}
}

// Run 按动作执行种子写入
func (s *SeedService) Run(ctx context.Context, action string) (map[string]SeedStats, error) {
	stats := make(map[string]SeedStats)

	switch action {
	case SeedActionAll:
		stats["categories"] = s.seedCategories(ctx)
		stats["resources"] = s.seedResources(ctx)
		stats["articles"] = s.seedArticles(ctx)
	case SeedActionCategories:
		stats["categories"] = s.seedCategories(ctx)
	case SeedActionResources:
		stats["resources"] = s.seedResources(ctx)
	case SeedActionArticles:
		stats["articles"] = s.seedArticles(ctx)
	default:
		return nil, apperr.NewAppError(apperr.CodeBadRequest, fmt.Sprintf("unknown seed action: %q", action))
	}

	return stats, nil
}

func (s *SeedService) seedCategories(ctx context.Context) SeedStats {
	var stats SeedStats

	tops := []*model.Category{
		{Level: 0, Type: "game", Name: "PC游戏", Alias: "pc", Weight: 100},
		{Level: 0, Type: "game", Name: "主机游戏", Alias: "console", Weight: 90},
		{Level: 0, Type: "game", Name: "手机游戏", Alias: "mobile", Weight: 80},
		{Level: 0, Type: "article", Name: "攻略资讯", Alias: "news", Weight: 70},
	}

	children := map[string][]*model.Category{
		"pc": {
			{Level: 1, Type: "game", Name: "动作冒险", Alias: "pc-action", Weight: 50},
			{Level: 1, Type: "game", Name: "角色扮演", Alias: "pc-rpg", Weight: 40},
			{Level: 1, Type: "game", Name: "策略模拟", Alias: "pc-strategy", Weight: 30},
		},
		"console": {
			{Level: 1, Type: "game", Name: "Switch", Alias: "switch", Weight: 50},
			{Level: 1, Type: "game", Name: "PlayStation", Alias: "ps", Weight: 40},
		},
	}

	topIDs := make(map[string]string, len(tops))
	for _, c := range tops {
		id, err := s.categoryRepo.Create(ctx, c)
		if err != nil {
			stats.Failed++
			logger.Warn("种子分类写入失败", logger.String("name", c.Name), logger.ErrorField(err))
			continue
		}
		topIDs[c.Alias] = id
		stats.Inserted++
	}

	for parentAlias, subs := range children {
		parentID, ok := topIDs[parentAlias]
		if !ok {
			stats.Failed += len(subs)
			continue
		}
		for _, c := range subs {
			c.ParentID = &parentID
			if _, err := s.categoryRepo.Create(ctx, c); err != nil {
				stats.Failed++
				logger.Warn("种子分类写入失败", logger.String("name", c.Name), logger.ErrorField(err))
				continue
			}
			stats.Inserted++
		}
	}

	return stats
}

func (s *SeedService) seedResources(ctx context.Context) SeedStats {
	var stats SeedStats

	rating := func(v float64) *float64 { return &v }
	resources := []*model.Resource{
		{
			Name: "塞尔达传说：王国之泪", Alias: "zelda-totk",
			Description: "海拉鲁大陆的全新冒险", Rating: rating(9.6),
			Tags: model.TagList{"开放世界", "冒险"}, Developer: "Nintendo",
			Platforms: "Switch", IsFeatured: true, IsHot: true, Weight: 100,
		},
		{
			Name: "艾尔登法环", Alias: "elden-ring",
			Description: "褪色者的交界地之旅", Rating: rating(9.5),
			Tags: model.TagList{"魂类", "开放世界"}, Developer: "FromSoftware",
			Platforms: "PC,PS5", IsHot: true, Weight: 90,
		},
		{
			Name: "博德之门3", Alias: "bg3",
			Description: "被遗忘的国度 CRPG", Rating: rating(9.7),
			Tags: model.TagList{"CRPG", "回合制"}, Developer: "Larian Studios",
			Platforms: "PC", IsFeatured: true, IsNew: true, Weight: 85,
		},
		{
			Name: "星露谷物语", Alias: "stardew-valley",
			Description: "经营你的牧场生活", Rating: rating(9.0),
			Tags: model.TagList{"模拟经营", "像素"}, Developer: "ConcernedApe",
			Platforms: "PC,Switch,Mobile", Weight: 60,
		},
		{
			Name: "空洞骑士：丝之歌", Alias: "silksong",
			Description: "大黄蜂的全新旅程", Rating: rating(9.2),
			Tags: model.TagList{"银河恶魔城", "动作"}, Developer: "Team Cherry",
			Platforms: "PC,Switch", IsNew: true, Weight: 70,
		},
	}

	for _, r := range resources {
		id, err := s.resourceRepo.Create(ctx, r)
		if err != nil {
			stats.Failed++
			logger.Warn("种子资源写入失败", logger.String("name", r.Name), logger.ErrorField(err))
			continue
		}
		stats.Inserted++

		link := &model.ResourceLink{
			ResourceID: id, Platform: "夸克网盘",
			URL: "https://pan.example.com/s/" + r.Alias, Weight: 10,
		}
		if _, err := s.resourceRepo.CreateLink(ctx, link); err != nil {
			stats.Failed++
			logger.Warn("种子下载链接写入失败", logger.String("resource", r.Name), logger.ErrorField(err))
		} else {
			stats.Inserted++
		}
	}

	return stats
}

func (s *SeedService) seedArticles(ctx context.Context) SeedStats {
	var stats SeedStats

	articles := []*model.Article{
		{
			Title: "2026年最值得期待的十款游戏", Summary: "年度前瞻盘点",
			Content: "从独立到3A，这些作品值得加入愿望单……",
			Tags:    model.TagList{"盘点", "前瞻"}, IsFeatured: true,
		},
		{
			Title: "王国之泪全神庙收集攻略", Summary: "152座神庙位置速查",
			Content: "按地区整理的神庙位置与解法要点……",
			Tags:    model.TagList{"攻略", "塞尔达"}, IsTop: true,
		},
		{
			Title: "魂类新手入门指南", Summary: "从受苦到通关",
			Content: "build 选择、弹反时机与卡关时的正确心态……",
			Tags:    model.TagList{"攻略", "魂类"},
		},
	}

	for _, a := range articles {
		if _, err := s.articleRepo.Create(ctx, a); err != nil {
			stats.Failed++
			logger.Warn("种子文章写入失败", logger.String("title", a.Title), logger.ErrorField(err))
			continue
		}
		stats.Inserted++
	}

	return stats
}
