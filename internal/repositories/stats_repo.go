package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository 维护 stats 表的搜索/浏览计数。
type StatsRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewStatsRepository 构造仓储。
func NewStatsRepository(db *pgxpool.Pool, logger log.Logger) *StatsRepository {
	return &StatsRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Init 确保计数行存在；标题不存在时不写入。
func (r *StatsRepository) Init(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stats (code, searched, viewed)
		SELECT code, 0, 0 FROM titles WHERE code = $1
		ON CONFLICT DO NOTHING`, code)
	if err != nil {
		return fmt.Errorf("init stats: %w", err)
	}
	return nil
}

// Increment 对指定计数列加一，计数行不存在时静默忽略。
func (r *StatsRepository) Increment(ctx context.Context, code string, field po.StatField) error {
	var query string
	switch field {
	case po.StatSearched:
		query = `UPDATE stats SET searched = searched + 1 WHERE code = $1`
	case po.StatViewed:
		query = `UPDATE stats SET viewed = viewed + 1 WHERE code = $1`
	default:
		return fmt.Errorf("increment stats: unknown field %q", field)
	}
	tag, err := r.db.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("increment stats %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		r.log.WithContext(ctx).Debugf("stats row missing: code=%s field=%s", code, field)
	}
	return nil
}

// Get 返回指定代码的计数。
func (r *StatsRepository) Get(ctx context.Context, code string) (*po.UsageStats, error) {
	stats := po.UsageStats{Code: code}
	err := r.db.QueryRow(ctx, `SELECT searched, viewed FROM stats WHERE code = $1`, code).Scan(&stats.Searched, &stats.Viewed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrStatsNotFound
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &stats, nil
}

var _ interface {
	Init(context.Context, string) error
	Increment(context.Context, string, po.StatField) error
	Get(context.Context, string) (*po.UsageStats, error)
} = (*StatsRepository)(nil)
