package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

func TestChannelService_VerifyBotAdmin(t *testing.T) {
	chats := newChatStub()
	chats.chats[-1001] = &vo.ChatInfo{ID: -1001, Title: "Anime Uz"}
	chats.chats[-1002] = &vo.ChatInfo{ID: -1002, Title: "Other"}
	chats.statuses[[2]int64{-1001, chats.self}] = "administrator"
	chats.statuses[[2]int64{-1002, chats.self}] = "member"
	chats.errs[-1003] = errors.New("Forbidden: bot is not a member")

	svc := services.NewChannelService(&channelRepoStub{}, chats, log.NewStdLogger(io.Discard))
	ctx := context.Background()

	info, err := svc.VerifyBotAdmin(ctx, -1001)
	require.NoError(t, err)
	require.Equal(t, "Anime Uz", info.Title)

	_, err = svc.VerifyBotAdmin(ctx, -1002)
	require.ErrorIs(t, err, services.ErrBotNotAdmin)

	_, err = svc.VerifyBotAdmin(ctx, -1003)
	require.ErrorIs(t, err, services.ErrChatUnavailable)
}

func TestChannelService_AddListRemovePerKind(t *testing.T) {
	repo := &channelRepoStub{}
	svc := services.NewChannelService(repo, newChatStub(), log.NewStdLogger(io.Discard))
	ctx := context.Background()

	mainCh := &po.Channel{ChannelID: -100777, Kind: po.ChannelMain, Mode: po.ModeOpen, Title: "Main", Link: "https://t.me/main"}
	require.NoError(t, svc.Add(ctx, mainCh))
	require.NoError(t, svc.Add(ctx, &po.Channel{ChannelID: -100777, Kind: po.ChannelSub, Mode: po.ModeRequest, Title: "Sub", Link: "https://t.me/+abc"}))

	mains, err := svc.List(ctx, po.ChannelMain)
	require.NoError(t, err)
	require.Len(t, mains, 1)
	require.Equal(t, int64(-100777), mains[0].ChannelID)
	require.Equal(t, po.ModeOpen, mains[0].Mode)

	require.ErrorIs(t, svc.Add(ctx, &po.Channel{ChannelID: -1, Kind: po.ChannelSub, Mode: po.ModeOpen, Link: "t.me/x"}), services.ErrInvalidLink)
	require.ErrorIs(t, svc.Add(ctx, &po.Channel{ChannelID: -1, Kind: "other", Mode: po.ModeOpen, Link: "https://x"}), services.ErrInvalidField)

	removed, err := svc.Remove(ctx, -100777, po.ChannelSub)
	require.NoError(t, err)
	require.True(t, removed)

	mains, err = svc.List(ctx, po.ChannelMain)
	require.NoError(t, err)
	require.Len(t, mains, 1)
}
