package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

func newGate(admins *adminRepoStub, channels *channelRepoStub, ledger *ledgerStub, chats *chatStub) *services.SubscriptionGate {
	logger := log.NewStdLogger(io.Discard)
	return services.NewSubscriptionGate(services.NewAdminService(admins, logger), channels, ledger, chats, logger)
}

func TestSubscriptionGate_AdminShortCircuits(t *testing.T) {
	chats := newChatStub()
	channels := &channelRepoStub{channels: []po.Channel{{ChannelID: -1001, Kind: po.ChannelSub, Mode: po.ModeOpen}}}
	gate := newGate(newAdminRepoStub(7), channels, newLedgerStub(), chats)

	missing, err := gate.Unsatisfied(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, missing)
	require.Zero(t, chats.calls)
}

func TestSubscriptionGate_OpenAndRequestModes(t *testing.T) {
	chats := newChatStub()
	chats.statuses[[2]int64{-1001, 42}] = "member"
	chats.statuses[[2]int64{-1002, 42}] = "kicked"
	chats.errs[-1003] = errors.New("Bad Request: member list is inaccessible")

	ledger := newLedgerStub()
	ledger.rows[[2]int64{42, -1004}] = true

	channels := &channelRepoStub{channels: []po.Channel{
		{ChannelID: -1001, Kind: po.ChannelSub, Mode: po.ModeOpen, Title: "ok"},
		{ChannelID: -1002, Kind: po.ChannelSub, Mode: po.ModeOpen, Title: "kicked"},
		{ChannelID: -1003, Kind: po.ChannelSub, Mode: po.ModeOpen, Title: "broken"},
		{ChannelID: -1004, Kind: po.ChannelSub, Mode: po.ModeRequest, Title: "requested"},
		{ChannelID: -1005, Kind: po.ChannelSub, Mode: po.ModeRequest, Title: "not requested"},
		{ChannelID: -1006, Kind: po.ChannelMain, Mode: po.ModeOpen, Title: "main"},
	}}
	gate := newGate(newAdminRepoStub(1), channels, ledger, chats)

	missing, err := gate.Unsatisfied(context.Background(), 42)
	require.NoError(t, err)

	var ids []int64
	for _, ch := range missing {
		ids = append(ids, ch.ChannelID)
	}
	require.Equal(t, []int64{-1002, -1003, -1005}, ids)
}

func TestSubscriptionGate_RequestModeSkipsMembershipQuery(t *testing.T) {
	chats := newChatStub()
	channels := &channelRepoStub{channels: []po.Channel{{ChannelID: -1009, Kind: po.ChannelSub, Mode: po.ModeRequest}}}
	gate := newGate(newAdminRepoStub(1), channels, newLedgerStub(), chats)

	missing, err := gate.Unsatisfied(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	require.Zero(t, chats.calls)

	require.NoError(t, gate.RecordJoinRequest(context.Background(), 5, -1009))
	require.NoError(t, gate.RecordJoinRequest(context.Background(), 5, -1009))

	missing, err = gate.Unsatisfied(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, missing)
}

func TestSubscriptionGate_StorageErrorIsReturned(t *testing.T) {
	channels := &channelRepoStub{err: errStorage}
	gate := newGate(newAdminRepoStub(1), channels, newLedgerStub(), newChatStub())

	_, err := gate.Unsatisfied(context.Background(), 5)
	require.Error(t, err)
	require.ErrorIs(t, err, errStorage)
}
