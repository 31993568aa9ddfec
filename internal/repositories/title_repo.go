// Package repositories 实现数据访问层，基于 pgxpool 执行原生 SQL。
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

const titleColumns = `code, title, genre, season, quality, channel_name, dubbed_by, total_parts,
	parts_file_ids::text, poster_file_id, poster_type, caption, created_at, updated_at`

// titleColumnByField 是可编辑字段到列名的白名单映射。
var titleColumnByField = map[po.TitleField]string{
	po.FieldTitle:       "title",
	po.FieldGenre:       "genre",
	po.FieldSeason:      "season",
	po.FieldQuality:     "quality",
	po.FieldChannelName: "channel_name",
	po.FieldDubbedBy:    "dubbed_by",
	po.FieldTotalParts:  "total_parts",
}

// TitleRepository 维护 titles 表及其伴生的 stats 行。
type TitleRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewTitleRepository 构造 TitleRepository 实例。
func NewTitleRepository(db *pgxpool.Pool, logger log.Logger) *TitleRepository {
	return &TitleRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Upsert 写入或覆盖标题，并在同一事务中确保 stats 行存在。
// 已存在的计数不会被重置。
func (r *TitleRepository) Upsert(ctx context.Context, title *po.Title) error {
	if title == nil {
		return fmt.Errorf("upsert title: nil title")
	}
	parts, err := encodeParts(title.Parts)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO titles (
				code, title, genre, season, quality, channel_name, dubbed_by, total_parts,
				parts_file_ids, post_count, poster_file_id, poster_type, caption
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, jsonb_array_length($9::jsonb), $10, $11, $12)
			ON CONFLICT (code) DO UPDATE SET
				title = EXCLUDED.title,
				genre = EXCLUDED.genre,
				season = EXCLUDED.season,
				quality = EXCLUDED.quality,
				channel_name = EXCLUDED.channel_name,
				dubbed_by = EXCLUDED.dubbed_by,
				total_parts = EXCLUDED.total_parts,
				parts_file_ids = EXCLUDED.parts_file_ids,
				post_count = EXCLUDED.post_count,
				poster_file_id = EXCLUDED.poster_file_id,
				poster_type = EXCLUDED.poster_type,
				caption = EXCLUDED.caption,
				updated_at = now()`,
			title.Code, title.Title, title.Genre, title.Season, title.Quality, title.ChannelName,
			title.DubbedBy, title.TotalParts, parts, title.PosterFileID, string(title.PosterType), title.Caption,
		)
		if err != nil {
			return fmt.Errorf("upsert title: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO stats (code) VALUES ($1) ON CONFLICT DO NOTHING`, title.Code); err != nil {
			return fmt.Errorf("init stats: %w", err)
		}
		return nil
	})
}

// Get 根据 code 查询标题。
//
// 错误处理：
//   - pgx.ErrNoRows → services.ErrTitleNotFound
func (r *TitleRepository) Get(ctx context.Context, code string) (*po.Title, error) {
	row := r.db.QueryRow(ctx, `SELECT `+titleColumns+` FROM titles WHERE code = $1`, code)
	title, err := scanTitle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrTitleNotFound
		}
		return nil, fmt.Errorf("get title: %w", err)
	}
	return title, nil
}

// List 返回全部标题摘要，按数值顺序排列代码。
func (r *TitleRepository) List(ctx context.Context) ([]po.TitleSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT code, title FROM titles
		ORDER BY CASE WHEN code ~ '^[0-9]{1,18}$' THEN code::bigint END NULLS LAST, code`)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return collectSummaries(rows)
}

// Search 按名称不区分大小写子串匹配，按名称排序并限制条数。
func (r *TitleRepository) Search(ctx context.Context, query string, limit int) ([]po.TitleSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT code, title FROM titles
		WHERE title ILIKE $1
		ORDER BY title
		LIMIT $2`, containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	return collectSummaries(rows)
}

// Count 返回标题总数。
func (r *TitleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM titles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return n, nil
}

// Delete 在同一事务中删除计数与标题，返回是否删除了标题。
func (r *TitleRepository) Delete(ctx context.Context, code string) (bool, error) {
	var deleted bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM stats WHERE code = $1`, code); err != nil {
			return fmt.Errorf("delete stats: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM titles WHERE code = $1`, code)
		if err != nil {
			return fmt.Errorf("delete title: %w", err)
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		r.log.WithContext(ctx).Infof("title deleted: code=%s", code)
	}
	return deleted, nil
}

// UpdateField 修改单个白名单字段。
func (r *TitleRepository) UpdateField(ctx context.Context, code string, field po.TitleField, value any) error {
	column, ok := titleColumnByField[field]
	if !ok {
		return fmt.Errorf("update title: field %q not allowed", field)
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE titles SET %s = $1, updated_at = now() WHERE code = $2`, column), value, code)
	if err != nil {
		return fmt.Errorf("update title %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrTitleNotFound
	}
	return nil
}

// AppendParts 将新集数追加到末尾，返回追加后的总集数。
func (r *TitleRepository) AppendParts(ctx context.Context, code string, fileIDs []string) (int, error) {
	parts, err := encodeParts(fileIDs)
	if err != nil {
		return 0, err
	}
	var count int
	err = r.db.QueryRow(ctx, `
		UPDATE titles
		SET parts_file_ids = parts_file_ids || $1::jsonb,
			post_count = jsonb_array_length(parts_file_ids || $1::jsonb),
			updated_at = now()
		WHERE code = $2
		RETURNING post_count`, parts, code).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, services.ErrTitleNotFound
		}
		return 0, fmt.Errorf("append parts: %w", err)
	}
	return count, nil
}

// DeletePart 删除第 n 集（1-based），返回剩余集数。
//
// 错误处理：
//   - 标题不存在 → services.ErrTitleNotFound
//   - n 越界 → services.ErrPartNotFound
func (r *TitleRepository) DeletePart(ctx context.Context, code string, n int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		UPDATE titles
		SET parts_file_ids = parts_file_ids - ($1::int - 1),
			post_count = jsonb_array_length(parts_file_ids) - 1,
			updated_at = now()
		WHERE code = $2 AND $1::int BETWEEN 1 AND jsonb_array_length(parts_file_ids)
		RETURNING post_count`, n, code).Scan(&count)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("delete part: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE code = $1)`, code).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check title: %w", err)
	}
	if !exists {
		return 0, services.ErrTitleNotFound
	}
	return 0, services.ErrPartNotFound
}

func scanTitle(row pgx.Row) (*po.Title, error) {
	var (
		t          po.Title
		rawParts   string
		posterType string
	)
	if err := row.Scan(
		&t.Code, &t.Title, &t.Genre, &t.Season, &t.Quality, &t.ChannelName, &t.DubbedBy, &t.TotalParts,
		&rawParts, &t.PosterFileID, &posterType, &t.Caption, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parts, err := decodeParts(rawParts)
	if err != nil {
		return nil, err
	}
	t.Parts = parts
	t.PosterType = po.PosterKind(posterType)
	return &t, nil
}

func collectSummaries(rows pgx.Rows) ([]po.TitleSummary, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (po.TitleSummary, error) {
		var s po.TitleSummary
		err := row.Scan(&s.Code, &s.Title)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan titles: %w", err)
	}
	return items, nil
}

var _ interface {
	Upsert(context.Context, *po.Title) error
	Get(context.Context, string) (*po.Title, error)
	List(context.Context) ([]po.TitleSummary, error)
	Search(context.Context, string, int) ([]po.TitleSummary, error)
	Count(context.Context) (int64, error)
	Delete(context.Context, string) (bool, error)
	UpdateField(context.Context, string, po.TitleField, any) error
	AppendParts(context.Context, string, []string) (int, error)
	DeletePart(context.Context, string, int) (int, error)
} = (*TitleRepository)(nil)
