package services

import (
	"context"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// SearchLimit 是搜索结果的最大条数。
const SearchLimit = 20

// CatalogService 封装标题目录的管理用例（录入、编辑、删除、查询）。
type CatalogService struct {
	titles TitleRepo
	stats  StatsRepo
	log    *log.Helper
}

// NewCatalogService 构造目录服务。
func NewCatalogService(titles TitleRepo, stats StatsRepo, logger log.Logger) *CatalogService {
	return &CatalogService{
		titles: titles,
		stats:  stats,
		log:    log.NewHelper(logger),
	}
}

// CreateTitle 录入（或覆盖）标题，同一事务内建立计数行。至少需要一集。
func (s *CatalogService) CreateTitle(ctx context.Context, title *po.Title) error {
	if title == nil || !IsCode(title.Code) {
		return ErrInvalidCode
	}
	if len(title.Parts) == 0 {
		return ErrNoParts
	}
	if title.TotalParts <= 0 {
		return ErrInvalidField
	}
	if err := s.titles.Upsert(ctx, title); err != nil {
		return storageError("save title", err)
	}
	s.log.WithContext(ctx).Infof("title saved: code=%s parts=%d", title.Code, len(title.Parts))
	return nil
}

// GetTitle 查询标题，供编辑与发帖向导确认代码存在。
func (s *CatalogService) GetTitle(ctx context.Context, code string) (*po.Title, error) {
	code = strings.TrimSpace(code)
	if !IsCode(code) {
		return nil, ErrInvalidCode
	}
	title, err := s.titles.Get(ctx, code)
	if err != nil {
		return nil, domainOr("get title", err)
	}
	return title, nil
}

// AppendParts 追加新集数，返回追加后的总集数。
func (s *CatalogService) AppendParts(ctx context.Context, code string, fileIDs []string) (int, error) {
	if len(fileIDs) == 0 {
		return 0, ErrNoParts
	}
	count, err := s.titles.AppendParts(ctx, code, fileIDs)
	if err != nil {
		return 0, domainOr("append parts", err)
	}
	s.log.WithContext(ctx).Infof("parts appended: code=%s added=%d total=%d", code, len(fileIDs), count)
	return count, nil
}

// DeletePart 删除第 n 集，后续集数前移。
func (s *CatalogService) DeletePart(ctx context.Context, code string, n int) (int, error) {
	if n < 1 {
		return 0, ErrPartNotFound
	}
	count, err := s.titles.DeletePart(ctx, code, n)
	if err != nil {
		return 0, domainOr("delete part", err)
	}
	s.log.WithContext(ctx).Infof("part deleted: code=%s part=%d remaining=%d", code, n, count)
	return count, nil
}

// UpdateField 修改单个白名单字段；total_parts 必须为正整数。
func (s *CatalogService) UpdateField(ctx context.Context, code string, field po.TitleField, raw string) error {
	if !field.Valid() {
		return ErrInvalidField
	}
	raw = strings.TrimSpace(raw)
	var value any = raw
	if field == po.FieldTotalParts {
		n, ok := ParsePositiveInt(raw)
		if !ok {
			return ErrInvalidField
		}
		value = n
	}
	if err := s.titles.UpdateField(ctx, code, field, value); err != nil {
		return domainOr("update title", err)
	}
	s.log.WithContext(ctx).Infof("title updated: code=%s field=%s", code, field)
	return nil
}

// DeleteTitle 删除标题及其计数，返回是否存在并被删除。
func (s *CatalogService) DeleteTitle(ctx context.Context, code string) (bool, error) {
	if !IsCode(code) {
		return false, ErrInvalidCode
	}
	deleted, err := s.titles.Delete(ctx, code)
	if err != nil {
		return false, storageError("delete title", err)
	}
	return deleted, nil
}

// CodeStats 返回单个代码的计数。
func (s *CatalogService) CodeStats(ctx context.Context, code string) (*vo.CodeStats, error) {
	code = strings.TrimSpace(code)
	stats, err := s.stats.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrStatsNotFound) {
			return nil, ErrStatsNotFound
		}
		return nil, storageError("get stats", err)
	}
	return &vo.CodeStats{Code: stats.Code, Searched: stats.Searched, Viewed: stats.Viewed}, nil
}

// List 返回全部标题摘要（代码按数值排序）。
func (s *CatalogService) List(ctx context.Context) ([]po.TitleSummary, error) {
	items, err := s.titles.List(ctx)
	if err != nil {
		return nil, storageError("list titles", err)
	}
	return items, nil
}

// Search 按名称子串搜索，最多 SearchLimit 条。
func (s *CatalogService) Search(ctx context.Context, query string) ([]po.TitleSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}
	items, err := s.titles.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, storageError("search titles", err)
	}
	return items, nil
}
