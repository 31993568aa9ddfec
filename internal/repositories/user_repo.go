package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository 维护 users 表（只插入，不更新）。
type UserRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewUserRepository 构造仓储。
func NewUserRepository(db *pgxpool.Pool, logger log.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Add 若不存在则写入用户，返回是否为新用户。已存在时 created_at 保持不变。
func (r *UserRepository) Add(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `INSERT INTO users (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Get 查询单个用户。
func (r *UserRepository) Get(ctx context.Context, userID int64) (*po.User, error) {
	u := po.User{UserID: userID}
	if err := r.db.QueryRow(ctx, `SELECT created_at FROM users WHERE user_id = $1`, userID).Scan(&u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Count 返回用户总数。
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountSince 返回 since 之后注册的用户数。
func (r *UserRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users since: %w", err)
	}
	return n, nil
}

// ListIDs 返回全部用户 ID（按注册顺序）。
func (r *UserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM users ORDER BY created_at, user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return ids, nil
}

var _ interface {
	Add(context.Context, int64) (bool, error)
	Get(context.Context, int64) (*po.User, error)
	Count(context.Context) (int64, error)
	CountSince(context.Context, time.Time) (int64, error)
	ListIDs(context.Context) ([]int64, error)
} = (*UserRepository)(nil)
