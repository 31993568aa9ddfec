package services

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
)

// StatsService 汇总管理员统计面板数据。
type StatsService struct {
	db     database.Pinger
	probe  database.ProbePolicy
	users  UserRepo
	titles TitleRepo
	now    func() time.Time
	log    *log.Helper
}

// NewStatsService 构造统计服务。
func NewStatsService(db database.Pinger, probe database.ProbePolicy, users UserRepo, titles TitleRepo, logger log.Logger) *StatsService {
	return &StatsService{
		db:     db,
		probe:  probe,
		users:  users,
		titles: titles,
		now:    time.Now,
		log:    log.NewHelper(logger),
	}
}

// WithClock 替换时钟（测试使用）。
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Global 并发采集数据库往返耗时、用户总数、今日新增与目录规模。
func (s *StatsService) Global(ctx context.Context) (*vo.GlobalStats, error) {
	var out vo.GlobalStats
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rtt, err := s.probe.Probe(gctx, s.db)
		if err != nil {
			return err
		}
		out.PingMillis = float64(rtt.Microseconds()) / 1000
		return nil
	})
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountSince(gctx, startOfDay)
		out.TodayUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.titles.Count(gctx)
		out.CatalogSize = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.WithContext(ctx).Errorf("collect global stats failed: err=%v", err)
		return nil, storageError("collect stats", err)
	}
	return &out, nil
}
