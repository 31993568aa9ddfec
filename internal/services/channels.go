package services

import (
	"context"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
)

// ChannelService 管理 sub/main 频道登记。
type ChannelService struct {
	repo  ChannelRepo
	chats ChatInspector
	log   *log.Helper
}

// NewChannelService 构造频道服务。
func NewChannelService(repo ChannelRepo, chats ChatInspector, logger log.Logger) *ChannelService {
	return &ChannelService{
		repo:  repo,
		chats: chats,
		log:   log.NewHelper(logger),
	}
}

// VerifyBotAdmin 确认 Bot 是目标频道的管理员，返回频道信息。
func (s *ChannelService) VerifyBotAdmin(ctx context.Context, chatID int64) (*vo.ChatInfo, error) {
	chat, err := s.chats.Chat(ctx, chatID)
	if err != nil {
		s.log.WithContext(ctx).Warnf("get chat failed: chat_id=%d err=%v", chatID, err)
		return nil, ErrChatUnavailable.WithCause(err)
	}
	status, err := s.chats.MemberStatus(ctx, chatID, s.chats.SelfID())
	if err != nil {
		s.log.WithContext(ctx).Warnf("get bot membership failed: chat_id=%d err=%v", chatID, err)
		return nil, ErrChatUnavailable.WithCause(err)
	}
	if status != "administrator" && status != "creator" {
		return nil, ErrBotNotAdmin
	}
	return chat, nil
}

// Add 登记频道；同一 (ChannelID, Kind) 重复登记时覆盖标题、链接与模式。
func (s *ChannelService) Add(ctx context.Context, ch *po.Channel) error {
	if ch == nil || !ch.Kind.Valid() || !ch.Mode.Valid() {
		return ErrInvalidField
	}
	if ch.ChannelID == 0 {
		return ErrInvalidChannelID
	}
	ch.Link = strings.TrimSpace(ch.Link)
	if !strings.HasPrefix(ch.Link, "http") {
		return ErrInvalidLink
	}
	if err := s.repo.Upsert(ctx, ch); err != nil {
		return storageError("save channel", err)
	}
	s.log.WithContext(ctx).Infof("channel saved: channel_id=%d kind=%s mode=%s", ch.ChannelID, ch.Kind, ch.Mode)
	return nil
}

// List 按登记顺序返回指定类型的频道。
func (s *ChannelService) List(ctx context.Context, kind po.ChannelKind) ([]po.Channel, error) {
	if !kind.Valid() {
		return nil, ErrInvalidField
	}
	channels, err := s.repo.ListByKind(ctx, kind)
	if err != nil {
		return nil, storageError("list channels", err)
	}
	return channels, nil
}

// Remove 仅删除指定类型下的频道登记，返回是否存在。
func (s *ChannelService) Remove(ctx context.Context, channelID int64, kind po.ChannelKind) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidField
	}
	removed, err := s.repo.Remove(ctx, channelID, kind)
	if err != nil {
		return false, storageError("remove channel", err)
	}
	if removed {
		s.log.WithContext(ctx).Infof("channel removed: channel_id=%d kind=%s", channelID, kind)
	}
	return removed, nil
}
