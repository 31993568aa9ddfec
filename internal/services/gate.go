package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
)

// 满足订阅要求的成员状态。
var memberStatuses = map[string]struct{}{
	"member":        {},
	"administrator": {},
	"creator":       {},
}

// SubscriptionGate 计算用户尚未满足的强制订阅频道。
type SubscriptionGate struct {
	admins   AdminDirectory
	channels ChannelRepo
	ledger   JoinRequestRepo
	members  MembershipChecker
	log      *log.Helper
}

// NewSubscriptionGate 构造订阅闸门。
func NewSubscriptionGate(admins AdminDirectory, channels ChannelRepo, ledger JoinRequestRepo, members MembershipChecker, logger log.Logger) *SubscriptionGate {
	return &SubscriptionGate{
		admins:   admins,
		channels: channels,
		ledger:   ledger,
		members:  members,
		log:      log.NewHelper(logger),
	}
}

// Unsatisfied 返回用户尚未满足的 sub 频道（按登记顺序）。管理员永远返回空。
//
// open 模式查询实时成员状态，查询失败视为未满足；request 模式仅看入群申请账本。
// 单个频道的失败不会中断扫描，只读。
func (g *SubscriptionGate) Unsatisfied(ctx context.Context, userID int64) ([]po.Channel, error) {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return nil, nil
	}

	channels, err := g.channels.ListByKind(ctx, po.ChannelSub)
	if err != nil {
		return nil, storageError("list sub channels", err)
	}

	var missing []po.Channel
	for _, ch := range channels {
		if !g.satisfied(ctx, userID, ch) {
			missing = append(missing, ch)
		}
	}
	return missing, nil
}

func (g *SubscriptionGate) satisfied(ctx context.Context, userID int64, ch po.Channel) bool {
	if ch.Mode == po.ModeRequest {
		ok, err := g.ledger.Exists(ctx, userID, ch.ChannelID)
		if err != nil {
			g.log.WithContext(ctx).Warnf("join request lookup failed: user_id=%d channel_id=%d err=%v", userID, ch.ChannelID, err)
			return false
		}
		return ok
	}
	status, err := g.members.MemberStatus(ctx, ch.ChannelID, userID)
	if err != nil {
		g.log.WithContext(ctx).Warnf("membership check failed: user_id=%d channel_id=%d err=%v", userID, ch.ChannelID, err)
		return false
	}
	_, ok := memberStatuses[status]
	return ok
}

// RecordJoinRequest 记录入群申请（幂等）。
func (g *SubscriptionGate) RecordJoinRequest(ctx context.Context, userID, channelID int64) error {
	created, err := g.ledger.Record(ctx, userID, channelID)
	if err != nil {
		return storageError("record join request", err)
	}
	if created {
		g.log.WithContext(ctx).Infof("join request recorded: user_id=%d channel_id=%d", userID, channelID)
	}
	return nil
}
