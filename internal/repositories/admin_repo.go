package repositories

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository 维护持久化的管理员集合。
type AdminRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewAdminRepository 构造仓储。
func NewAdminRepository(db *pgxpool.Pool, logger log.Logger) *AdminRepository {
	return &AdminRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// List 返回全部管理员 ID（升序）。
func (r *AdminRepository) List(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM admins ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan admins: %w", err)
	}
	return ids, nil
}

// Exists 报告用户是否为管理员。
func (r *AdminRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return ok, nil
}

// Add 写入管理员，返回是否新增。
func (r *AdminRepository) Add(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveUnlessLast 删除管理员，但集合中只剩一人时拒绝删除。
// 返回是否真正删除。
func (r *AdminRepository) RemoveUnlessLast(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM admins
		WHERE user_id = $1 AND (SELECT count(*) FROM admins) > 1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Seed 确保初始管理员存在（幂等）。
func (r *AdminRepository) Seed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := r.Add(ctx, id); err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		r.log.WithContext(ctx).Infof("admin seed ensured: count=%d", len(ids))
	}
	return nil
}

var _ interface {
	List(context.Context) ([]int64, error)
	Exists(context.Context, int64) (bool, error)
	Add(context.Context, int64) (bool, error)
	RemoveUnlessLast(context.Context, int64) (bool, error)
	Seed(context.Context, []int64) error
} = (*AdminRepository)(nil)
