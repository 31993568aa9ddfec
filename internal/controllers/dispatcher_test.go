package controllers_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartDownloadSendsDocument(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1", "f2", "f3")

	e.callback(userID, "part_download:100:2")

	doc, ok := e.bot.last().(tgbotapi.DocumentConfig)
	require.True(t, ok, "expected a document, got %T", e.bot.last())
	assert.Equal(t, tgbotapi.FileID("f2"), doc.File)
	assert.Equal(t, userID, doc.ChatID)
	assert.Contains(t, doc.Caption, "2-qism")

	answers := e.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, views.PartLoadingText(2), answers[0].Text)

	// 下载单集不计数
	assert.Zero(t, e.catalog.stats["100"].Viewed)
	assert.Zero(t, e.catalog.stats["100"].Searched)
}

func TestPartDownloadOutOfRange(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")

	e.callback(userID, "part_download:100:7")
	assert.Equal(t, []string{views.MsgPartMissing}, e.bot.texts())

	e.bot.reset()
	e.callback(userID, "part_download:404:1")
	assert.Equal(t, []string{views.MsgAnimeNotFound}, e.bot.texts())
}

func TestCodeBlockedBySubscriptionGate(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")
	e.channels.items = []po.Channel{{
		ChannelID: -1001,
		Kind:      po.ChannelSub,
		Title:     "Anime UZ",
		Link:      "https://t.me/anime_uz",
		Mode:      po.ModeOpen,
	}}

	e.text(userID, "100")

	msg, ok := e.bot.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, views.MsgSubscribeForTitle, msg.Text)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1][0]
	require.NotNil(t, last.CallbackData)
	assert.Equal(t, views.CheckSubData("100"), *last.CallbackData)

	assert.Len(t, e.bot.texts(), 1, "no card must be sent")
	assert.Zero(t, e.catalog.stats["100"].Searched)
	assert.Zero(t, e.catalog.stats["100"].Viewed)
}

func TestCodeDeliversCardWhenSubscribed(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1", "f2")
	e.channels.items = []po.Channel{{ChannelID: -1001, Kind: po.ChannelSub, Title: "A", Link: "https://t.me/a", Mode: po.ModeOpen}}
	e.chats.statuses[[2]int64{-1001, userID}] = "member"

	e.text(userID, "100")

	photo, ok := e.bot.last().(tgbotapi.PhotoConfig)
	require.True(t, ok, "expected a photo, got %T", e.bot.last())
	assert.Equal(t, tgbotapi.FileID("poster-100"), photo.File)
	assert.Contains(t, photo.Caption, "<b>Naruto</b>")
	kb, ok := photo.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Len(t, kb.InlineKeyboard[0], 2)

	assert.EqualValues(t, 1, e.catalog.stats["100"].Searched)
	assert.EqualValues(t, 1, e.catalog.stats["100"].Viewed)
}

func TestRequestModeUsesJoinLedger(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")
	e.channels.items = []po.Channel{{ChannelID: -1002, Kind: po.ChannelSub, Title: "Private", Link: "https://t.me/+abc", Mode: po.ModeRequest}}

	e.d.Handle(context.Background(), tgbotapi.Update{ChatJoinRequest: &tgbotapi.ChatJoinRequest{
		Chat: tgbotapi.Chat{ID: -1002},
		From: tgbotapi.User{ID: userID},
	}})
	assert.True(t, e.ledger.rows[[2]int64{userID, -1002}])
	assert.Empty(t, e.bot.texts(), "join requests are silent")

	e.callback(userID, views.CheckSubData("100"))
	_, ok := e.bot.last().(tgbotapi.PhotoConfig)
	assert.True(t, ok, "card expected after recheck, got %T", e.bot.last())
	assert.Zero(t, e.catalog.stats["100"].Searched)
	assert.EqualValues(t, 1, e.catalog.stats["100"].Viewed)
}

func TestUnknownCode(t *testing.T) {
	e := newEnv(t)
	e.text(userID, "555")
	assert.Equal(t, []string{views.MsgTitleNotFound}, e.bot.texts())
}

func TestStartDeepLinkPart(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1", "f2")

	e.command(userID, "start", "part_100_2")

	texts := e.bot.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, views.MsgPartLoading, texts[0])
	assert.Contains(t, texts[1], "2-qism")
	assert.Equal(t, views.MsgYourPanel, texts[2])

	// 发送成功后删除"加载中"提示
	var deleted []tgbotapi.DeleteMessageConfig
	for _, r := range e.bot.requests {
		if del, ok := r.(tgbotapi.DeleteMessageConfig); ok {
			deleted = append(deleted, del)
		}
	}
	require.Len(t, deleted, 1)
	assert.Equal(t, userID, deleted[0].ChatID)
	assert.Equal(t, 1, deleted[0].MessageID)
}

func TestStartWithoutPayload(t *testing.T) {
	e := newEnv(t)

	e.command(userID, "start", "")
	e.command(adminID, "start", "")

	assert.Equal(t, []string{views.MsgStart, views.MsgAdminPanel}, e.bot.texts())
	assert.ElementsMatch(t, []int64{userID, adminID}, e.users.ids)
}

func TestAdminChannelFlow(t *testing.T) {
	e := newEnv(t)
	e.chats.infos[-100123] = &vo.ChatInfo{ID: -100123, Title: "Anime Main", Username: "anime_main"}
	e.chats.statuses[[2]int64{-100123, botID}] = "administrator"

	e.text(adminID, views.BtnChannels)
	e.callback(adminID, views.CbChannelType+string(po.ChannelMain))
	e.callback(adminID, views.CbChannelAction+views.ActionAdd)
	e.callback(adminID, views.CbChannelMode+string(po.ModeOpen))
	e.text(adminID, "-100123")
	e.text(adminID, "t.me/anime_main")
	assert.Equal(t, views.MsgFullLink, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "https://t.me/anime_main")

	require.Len(t, e.channels.items, 1)
	saved := e.channels.items[0]
	assert.Equal(t, int64(-100123), saved.ChannelID)
	assert.Equal(t, po.ChannelMain, saved.Kind)
	assert.Equal(t, po.ModeOpen, saved.Mode)
	assert.Equal(t, "Anime Main", saved.Title)
	assert.Equal(t, views.ChannelSavedText(po.ModeOpen), e.bot.texts()[len(e.bot.texts())-1])

	_, active, err := e.sessions.Get(context.Background(), adminID)
	require.NoError(t, err)
	assert.False(t, active)

	e.bot.reset()
	e.callback(adminID, views.CbChannelType+string(po.ChannelMain))
	e.callback(adminID, views.CbChannelAction+views.ActionList)
	assert.Equal(t, []string{views.ChannelListText(po.ChannelMain, e.channels.items)}, e.bot.texts())
}

func TestChannelFlowRejectsChannelWithoutBotAdmin(t *testing.T) {
	e := newEnv(t)
	e.chats.infos[-100123] = &vo.ChatInfo{ID: -100123, Title: "Anime Main"}
	e.chats.statuses[[2]int64{-100123, botID}] = "member"

	e.text(adminID, views.BtnChannels)
	e.callback(adminID, views.CbChannelType+string(po.ChannelSub))
	e.callback(adminID, views.CbChannelAction+views.ActionAdd)
	e.callback(adminID, views.CbChannelMode+string(po.ModeRequest))
	e.text(adminID, "abc")
	e.text(adminID, "-100123")
	e.text(adminID, "-1007777")

	texts := e.bot.texts()
	require.GreaterOrEqual(t, len(texts), 3)
	assert.Equal(t, []string{views.MsgBadChannelID, views.MsgBotNotAdmin, views.MsgChatUnavailable}, texts[len(texts)-3:])
	assert.Empty(t, e.channels.items)
}

func TestAddTitleWizard(t *testing.T) {
	e := newEnv(t)

	e.text(adminID, views.BtnAddTitle)
	e.text(adminID, "abc")
	assert.Equal(t, views.MsgCodeDigitsOnly, e.bot.texts()[len(e.bot.texts())-1])

	for _, in := range []string{"100", "Naruto", "Action Drama", "1", "1080p", "@anime_uz", "Studio"} {
		e.text(adminID, in)
	}
	e.text(adminID, "0")
	assert.Equal(t, views.MsgPositiveOnly, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "12")

	e.text(adminID, "not a poster")
	assert.Equal(t, views.MsgPosterExpected, e.bot.texts()[len(e.bot.texts())-1])
	e.photo(adminID, "poster", "caption")

	e.text(adminID, views.CommandDone)
	assert.Equal(t, views.MsgNoPartsSent, e.bot.texts()[len(e.bot.texts())-1])

	e.document(adminID, "p1")
	e.document(adminID, "p2")
	assert.Equal(t, views.PartSavedText(2), e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, views.CommandDone)

	assert.Equal(t, views.TitleSavedText("100"), e.bot.texts()[len(e.bot.texts())-1])
	saved := e.catalog.titles["100"]
	require.NotNil(t, saved)
	assert.Equal(t, "Naruto", saved.Title)
	assert.Equal(t, "Action Drama", saved.Genre)
	assert.Equal(t, 12, saved.TotalParts)
	assert.Equal(t, []string{"p1", "p2"}, saved.Parts)
	assert.Equal(t, "poster", saved.PosterFileID)
	assert.Equal(t, po.PosterPhoto, saved.PosterType)
	require.Contains(t, e.catalog.stats, "100")

	_, active, _ := e.sessions.Get(context.Background(), adminID)
	assert.False(t, active)
}

func TestCancelReturnsToMenu(t *testing.T) {
	e := newEnv(t)

	e.text(adminID, views.BtnAddTitle)
	e.text(adminID, "100")
	e.text(adminID, views.BtnCancel)

	assert.Equal(t, views.MsgAdminPanel, e.bot.texts()[len(e.bot.texts())-1])
	_, active, _ := e.sessions.Get(context.Background(), adminID)
	assert.False(t, active)
	assert.Empty(t, e.catalog.titles)

	e.text(userID, views.BtnSearch)
	e.text(userID, views.BtnBack)
	assert.Equal(t, views.MsgUserPanel, e.bot.texts()[len(e.bot.texts())-1])
}

func TestSearchFlow(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")
	e.addTitle("200", "One Piece", "f1")

	e.text(userID, views.BtnSearch)
	e.text(userID, "naru")

	msg, ok := e.bot.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, views.MsgSearchResults, msg.Text)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, views.CbShowAnime+"100", *kb.InlineKeyboard[0][0].CallbackData)

	e.callback(userID, views.CbShowAnime+"100")
	_, ok = e.bot.last().(tgbotapi.PhotoConfig)
	assert.True(t, ok)
	// 搜索结果入口只计 searched
	assert.EqualValues(t, 1, e.catalog.stats["100"].Searched)
	assert.Zero(t, e.catalog.stats["100"].Viewed)
}

func TestMenuButtonReplacesActiveWizard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(adminID, views.BtnAddTitle)
	e.text(adminID, "200")
	e.text(adminID, views.BtnBroadcast)

	assert.Equal(t, views.MsgBroadcastType, e.bot.texts()[len(e.bot.texts())-1])
	st, active, err := e.sessions.Get(ctx, adminID)
	require.NoError(t, err)
	require.True(t, active)
	assert.Equal(t, session.KindBroadcast, st.Kind)
	assert.Nil(t, st.Title)
}

func TestMenuButtonEndsUserSearch(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")

	e.text(userID, views.BtnSearch)
	e.bot.reset()
	e.text(userID, views.BtnAllTitles)

	texts := e.bot.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Naruto")
	assert.NotEqual(t, views.MsgSearchNothing, texts[0])
	_, active, _ := e.sessions.Get(context.Background(), userID)
	assert.False(t, active)
}

func TestDisabledBotBlocksUsersOnly(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")

	e.callback(adminID, views.CbBotToggle+"off")
	require.False(t, e.runtime.Enabled())

	e.text(userID, "100")
	assert.Equal(t, views.MsgBotDisabled, e.bot.texts()[len(e.bot.texts())-1])

	e.bot.reset()
	e.callback(userID, "part_download:100:1")
	answers := e.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, views.MsgBotDisabled, answers[0].Text)
	assert.True(t, answers[0].ShowAlert)

	e.bot.reset()
	e.text(adminID, "100")
	_, ok := e.bot.last().(tgbotapi.PhotoConfig)
	assert.True(t, ok, "admins keep access while disabled")
}

func TestAdminCallbacksRequirePermission(t *testing.T) {
	e := newEnv(t)

	e.callback(userID, views.CbBotToggle+"off")

	assert.True(t, e.runtime.Enabled())
	answers := e.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, views.MsgNoPermission, answers[0].Text)
}

func TestAdminMenuIgnoredForUsers(t *testing.T) {
	e := newEnv(t)

	e.text(userID, views.BtnAddTitle)

	assert.Empty(t, e.bot.texts())
	_, active, _ := e.sessions.Get(context.Background(), userID)
	assert.False(t, active)
}

func TestBroadcastCopyLaunchesJob(t *testing.T) {
	e := newEnv(t)
	e.command(userID, "start", "")
	e.command(adminID, "start", "")

	e.text(adminID, views.BtnBroadcast)
	e.text(adminID, views.BtnBroadcastCopy)
	e.text(adminID, "Yangi anime chiqdi!")

	require.Len(t, e.launcher.jobs, 1)
	job := e.launcher.jobs[0]
	assert.Equal(t, adminID, job.AdminChatID)
	assert.ElementsMatch(t, []int64{userID, adminID}, job.Recipients)
	src, ok := job.Source.(broadcast.Copy)
	require.True(t, ok)
	assert.Equal(t, adminID, src.FromChatID)

	_, active, _ := e.sessions.Get(context.Background(), adminID)
	assert.False(t, active)
}

func TestBroadcastForwardValidation(t *testing.T) {
	e := newEnv(t)

	e.text(adminID, views.BtnBroadcast)
	e.text(adminID, views.BtnBroadcastForward)
	e.text(adminID, "anime 12")
	assert.Equal(t, views.MsgForwardBadFormat, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "@anime x")
	assert.Equal(t, views.MsgForwardBadMsgID, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "@anime 12")

	require.Len(t, e.launcher.jobs, 1)
	assert.Equal(t, broadcast.Forward{ChannelUsername: "anime", MessageID: 12}, e.launcher.jobs[0].Source)
}

func TestAdminManagement(t *testing.T) {
	e := newEnv(t)

	e.text(adminID, views.BtnAdmins)
	e.text(adminID, views.BtnAddAdmin)
	e.text(adminID, "12ab")
	assert.Equal(t, views.MsgIDDigitsOnly, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "77")
	assert.Contains(t, e.admins.ids, int64(77))

	e.text(adminID, views.BtnRemoveAdmin)
	e.text(adminID, "77")
	assert.NotContains(t, e.admins.ids, int64(77))

	e.text(adminID, views.BtnRemoveAdmin)
	e.text(adminID, "1")
	assert.Equal(t, views.MsgLastAdmin, e.bot.texts()[len(e.bot.texts())-1])
	assert.Equal(t, []int64{adminID}, e.admins.ids)
}

func TestContactAdminRelaysMessage(t *testing.T) {
	e := newEnv(t)

	e.text(userID, views.BtnContactAdmin)
	e.text(userID, "Salom, yangi anime qachon?")

	var relayed *tgbotapi.MessageConfig
	for _, c := range e.bot.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == adminID {
			relayed = &m
		}
	}
	require.NotNil(t, relayed)
	assert.True(t, strings.Contains(relayed.Text, "Salom, yangi anime qachon?"))
	assert.Equal(t, views.MsgContactSent, e.bot.texts()[len(e.bot.texts())-1])
}

func TestAdminOnlySessionClearedForDemotedUser(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.sessions.Set(context.Background(), userID, session.State{Kind: session.KindAddTitle, Step: "code"}))

	e.text(userID, "100")

	_, active, _ := e.sessions.Get(context.Background(), userID)
	assert.False(t, active)
	assert.Equal(t, []string{views.MsgTitleNotFound}, e.bot.texts())
}

func TestEditWizardFlushesPartsOnControl(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")

	e.text(adminID, views.BtnEditCode)
	e.text(adminID, "404")
	assert.Equal(t, views.MsgCodeNotFound, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "100")
	e.callback(adminID, views.CbEditParts+views.EditPartsAdd)
	e.document(adminID, "f2")
	e.document(adminID, "f3")
	e.text(adminID, views.BtnControl)

	assert.Equal(t, []string{"f1", "f2", "f3"}, e.catalog.titles["100"].Parts)
	assert.Equal(t, views.PartsAppendedText(2), e.bot.texts()[len(e.bot.texts())-1])
	_, active, _ := e.sessions.Get(context.Background(), adminID)
	assert.False(t, active)
}

func TestEditWizardFieldAndPartDeletion(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1", "f2")

	e.text(adminID, views.BtnEditCode)
	e.text(adminID, "100")
	e.callback(adminID, views.CbEditField+string(po.FieldTotalParts))
	e.text(adminID, "ko'p")
	assert.Equal(t, views.MsgPositiveIntOnly, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "24")
	assert.Equal(t, views.MsgFieldSaved, e.bot.texts()[len(e.bot.texts())-1])
	assert.Equal(t, 24, e.catalog.titles["100"].TotalParts)

	e.text(adminID, views.BtnEditCode)
	e.text(adminID, "100")
	e.callback(adminID, views.CbEditParts+views.EditPartsDel)
	e.text(adminID, "5")
	assert.Equal(t, views.MsgBadPartNumber, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "1")
	assert.Equal(t, views.PartDeletedText(1), e.bot.texts()[len(e.bot.texts())-1])
	assert.Equal(t, []string{"f2"}, e.catalog.titles["100"].Parts)
}

func TestEditCallbackWithoutSession(t *testing.T) {
	e := newEnv(t)

	e.callback(adminID, views.CbEditParts+views.EditPartsAdd)

	answers := e.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, views.MsgEditSessionLost, answers[0].Text)
}

func TestDeleteTitle(t *testing.T) {
	e := newEnv(t)
	e.addTitle("100", "Naruto", "f1")

	e.text(adminID, views.BtnDeleteCode)
	e.text(adminID, "1 0 0")
	assert.Equal(t, views.MsgDeleteBadFormat, e.bot.texts()[len(e.bot.texts())-1])
	e.text(adminID, "100")

	assert.Equal(t, views.TitleDeletedText("100", true), e.bot.texts()[len(e.bot.texts())-1])
	assert.NotContains(t, e.catalog.titles, "100")
	assert.NotContains(t, e.catalog.stats, "100")
}
