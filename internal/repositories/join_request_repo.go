package repositories

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JoinRequestRepository 记录入群申请，作为申请制频道的订阅凭据。
type JoinRequestRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewJoinRequestRepository 构造仓储。
func NewJoinRequestRepository(db *pgxpool.Pool, logger log.Logger) *JoinRequestRepository {
	return &JoinRequestRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Record 写入申请记录（幂等），返回是否首次记录。
func (r *JoinRequestRepository) Record(ctx context.Context, userID, channelID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO join_requests (user_id, channel_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, channelID)
	if err != nil {
		return false, fmt.Errorf("insert join request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists 报告用户是否向频道提交过申请。
func (r *JoinRequestRepository) Exists(ctx context.Context, userID, channelID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM join_requests WHERE user_id = $1 AND channel_id = $2)`,
		userID, channelID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check join request: %w", err)
	}
	return ok, nil
}

var _ interface {
	Record(context.Context, int64, int64) (bool, error)
	Exists(context.Context, int64, int64) (bool, error)
} = (*JoinRequestRepository)(nil)
