package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelRepository 维护 channels 表，(channel_id, type) 联合唯一。
type ChannelRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewChannelRepository 构造仓储。
func NewChannelRepository(db *pgxpool.Pool, logger log.Logger) *ChannelRepository {
	return &ChannelRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Upsert 按 (channel_id, type) 写入或更新标题、链接、模式。
func (r *ChannelRepository) Upsert(ctx context.Context, ch *po.Channel) error {
	if ch == nil {
		return fmt.Errorf("upsert channel: nil channel")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO channels (channel_id, title, link, type, mode)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id, type) DO UPDATE SET
			title = EXCLUDED.title,
			link = EXCLUDED.link,
			mode = EXCLUDED.mode`,
		ch.ChannelID, ch.Title, ch.Link, string(ch.Kind), string(ch.Mode),
	)
	if err != nil {
		return fmt.Errorf("upsert channel: %w", err)
	}
	return nil
}

// ListByKind 返回某类频道，按登记顺序排列。
func (r *ChannelRepository) ListByKind(ctx context.Context, kind po.ChannelKind) ([]po.Channel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT channel_id, type, title, link, mode, created_at
		FROM channels
		WHERE type = $1
		ORDER BY created_at, channel_id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	channels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (po.Channel, error) {
		var (
			ch            po.Channel
			rawKind, mode string
		)
		err := row.Scan(&ch.ChannelID, &rawKind, &ch.Title, &ch.Link, &mode, &ch.CreatedAt)
		ch.Kind = po.ChannelKind(rawKind)
		ch.Mode = po.AccessMode(mode)
		return ch, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan channels: %w", err)
	}
	return channels, nil
}

// Remove 删除指定类型下的频道，返回是否删除。
func (r *ChannelRepository) Remove(ctx context.Context, channelID int64, kind po.ChannelKind) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM channels WHERE channel_id = $1 AND type = $2`, channelID, string(kind))
	if err != nil {
		return false, fmt.Errorf("delete channel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ interface {
	Upsert(context.Context, *po.Channel) error
	ListByKind(context.Context, po.ChannelKind) ([]po.Channel, error)
	Remove(context.Context, int64, po.ChannelKind) (bool, error)
} = (*ChannelRepository)(nil)
