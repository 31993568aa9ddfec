package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// EntryPath 标识用户获取宣传卡片的入口，决定计数方式。
type EntryPath int

// 入口类型
const (
	EntryDirectCode   EntryPath = iota + 1 // 直接输入数字代码：searched++，成功发送后 viewed++
	EntryDeepLinkCode                      // /start <code>：成功发送后 viewed++
	EntrySearchResult                      // 搜索结果按钮：searched++
)

// String 返回入口名称，用于日志。
func (p EntryPath) String() string {
	switch p {
	case EntryDirectCode:
		return "direct_code"
	case EntryDeepLinkCode:
		return "deep_link_code"
	case EntrySearchResult:
		return "search_result"
	default:
		return "unknown"
	}
}

func (p EntryPath) countsSearch() bool {
	return p == EntryDirectCode || p == EntrySearchResult
}

func (p EntryPath) countsView() bool {
	return p == EntryDirectCode || p == EntryDeepLinkCode
}

// DeliveryService 负责把标题卡片与单集文件交给用户。
type DeliveryService struct {
	titles TitleRepo
	stats  StatsRepo
	log    *log.Helper
}

// NewDeliveryService 构造投递服务。
func NewDeliveryService(titles TitleRepo, stats StatsRepo, logger log.Logger) *DeliveryService {
	return &DeliveryService{
		titles: titles,
		stats:  stats,
		log:    log.NewHelper(logger),
	}
}

// CardByCode 按入口规则更新计数并返回宣传卡片。
func (s *DeliveryService) CardByCode(ctx context.Context, code string, path EntryPath) (*vo.TitleCard, error) {
	if !IsCode(code) {
		return nil, ErrInvalidCode
	}
	if err := s.stats.Init(ctx, code); err != nil {
		return nil, storageError("init stats", err)
	}
	if path.countsSearch() {
		if err := s.stats.Increment(ctx, code, po.StatSearched); err != nil {
			return nil, storageError("increment searched", err)
		}
	}

	title, err := s.titles.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTitleNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, storageError("get title", err)
	}

	stats, err := s.stats.Get(ctx, code)
	if err != nil && !errors.Is(err, ErrStatsNotFound) {
		return nil, storageError("get stats", err)
	}
	s.log.WithContext(ctx).Debugf("card rendered: code=%s path=%s", code, path)
	return vo.NewTitleCard(title, stats), nil
}

// Delivered 在卡片成功送达后记录浏览次数（仅对计入浏览的入口生效）。
func (s *DeliveryService) Delivered(ctx context.Context, code string, path EntryPath) error {
	if !path.countsView() {
		return nil
	}
	if err := s.stats.Increment(ctx, code, po.StatViewed); err != nil {
		return storageError("increment viewed", err)
	}
	return nil
}

// Part 返回第 n 集（1-based）的文件引用与说明文字。下载单集不计数。
//
// 错误处理：
//   - 代码不存在 → ErrTitleNotFound
//   - n 越界（含空列表） → ErrPartNotFound
func (s *DeliveryService) Part(ctx context.Context, code string, n int) (*vo.PartDelivery, error) {
	title, err := s.titles.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTitleNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, storageError("get title", err)
	}
	fileID, ok := title.Part(n)
	if !ok {
		return nil, ErrPartNotFound
	}
	return vo.NewPartDelivery(title, n, fileID), nil
}
