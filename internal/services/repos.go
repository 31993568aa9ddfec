package services

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
)

// TitleRepo 定义标题目录所需的持久化接口。
type TitleRepo interface {
	Upsert(ctx context.Context, title *po.Title) error
	Get(ctx context.Context, code string) (*po.Title, error)
	List(ctx context.Context) ([]po.TitleSummary, error)
	Search(ctx context.Context, query string, limit int) ([]po.TitleSummary, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, code string) (bool, error)
	UpdateField(ctx context.Context, code string, field po.TitleField, value any) error
	AppendParts(ctx context.Context, code string, fileIDs []string) (int, error)
	DeletePart(ctx context.Context, code string, n int) (int, error)
}

// StatsRepo 定义使用计数接口。
type StatsRepo interface {
	Init(ctx context.Context, code string) error
	Increment(ctx context.Context, code string, field po.StatField) error
	Get(ctx context.Context, code string) (*po.UsageStats, error)
}

// UserRepo 定义用户登记接口。
type UserRepo interface {
	Add(ctx context.Context, userID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// AdminRepo 定义管理员集合接口。
type AdminRepo interface {
	List(ctx context.Context) ([]int64, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Add(ctx context.Context, userID int64) (bool, error)
	RemoveUnlessLast(ctx context.Context, userID int64) (bool, error)
	Seed(ctx context.Context, ids []int64) error
}

// ChannelRepo 定义频道登记接口。
type ChannelRepo interface {
	Upsert(ctx context.Context, ch *po.Channel) error
	ListByKind(ctx context.Context, kind po.ChannelKind) ([]po.Channel, error)
	Remove(ctx context.Context, channelID int64, kind po.ChannelKind) (bool, error)
}

// JoinRequestRepo 定义入群申请账本接口。
type JoinRequestRepo interface {
	Record(ctx context.Context, userID, channelID int64) (bool, error)
	Exists(ctx context.Context, userID, channelID int64) (bool, error)
}

// MembershipChecker 查询用户在会话中的实时成员状态。
type MembershipChecker interface {
	MemberStatus(ctx context.Context, chatID, userID int64) (string, error)
}

// ChatInspector 在 MembershipChecker 之上提供会话信息与 Bot 自身 ID。
type ChatInspector interface {
	MembershipChecker
	Chat(ctx context.Context, chatID int64) (*vo.ChatInfo, error)
	SelfID() int64
}
