package controllers

import (
	"context"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 频道管理步骤
const (
	stepChannelKind   session.Step = "kind"
	stepChannelAction session.Step = "action"
	stepChannelMode   session.Step = "mode"
	stepChannelID     session.Step = "id"
	stepChannelLink   session.Step = "link"
)

// channelSession 读取频道流程会话；未选择类型时返回 false。
func (d *Dispatcher) channelSession(ctx context.Context, userID int64) (session.State, bool) {
	st, ok, err := d.sessions.Get(ctx, userID)
	if err != nil || !ok || st.Kind != session.KindChannel || st.Channel == nil || !st.Channel.Kind.Valid() {
		return session.State{}, false
	}
	return st, true
}

func (d *Dispatcher) onChannelType(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	kind := po.ChannelKind(arg)
	if !kind.Valid() {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	d.answer(ctx, cq, "", false)
	d.setSession(ctx, actor.UserID, session.State{
		Kind:    session.KindChannel,
		Step:    stepChannelAction,
		Channel: &session.ChannelDraft{Kind: kind},
	})
	kb := views.ChannelActionKeyboard()
	d.edit(ctx, cq.Message, views.ChannelKindMenuText(kind), &kb)
}

func (d *Dispatcher) onChannelAction(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	if arg == views.ActionBack {
		d.answer(ctx, cq, "", false)
		d.setSession(ctx, actor.UserID, session.State{Kind: session.KindChannel, Step: stepChannelKind})
		kb := views.ChannelKindKeyboard()
		d.edit(ctx, cq.Message, views.MsgChannelKindMenu, &kb)
		return
	}
	st, ok := d.channelSession(ctx, actor.UserID)
	if !ok {
		d.answer(ctx, cq, views.MsgChooseKindFirst, true)
		return
	}
	d.answer(ctx, cq, "", false)
	kind := st.Channel.Kind

	switch arg {
	case views.ActionAdd:
		st.Step = stepChannelMode
		d.setSession(ctx, actor.UserID, st)
		kb := views.ChannelModeKeyboard()
		d.edit(ctx, cq.Message, views.MsgChannelModeMenu, &kb)
	case views.ActionList:
		items, err := d.channels.List(ctx, kind)
		if err != nil {
			d.fail(ctx, actor, "list channels", err)
			return
		}
		d.say(ctx, actor.ChatID, views.ChannelListText(kind, items), nil)
	case views.ActionDelete:
		items, err := d.channels.List(ctx, kind)
		if err != nil {
			d.fail(ctx, actor, "list channels", err)
			return
		}
		if len(items) == 0 {
			d.say(ctx, actor.ChatID, views.MsgNoChannels, nil)
			return
		}
		kb := views.ChannelDeleteKeyboard(items)
		d.edit(ctx, cq.Message, views.MsgChannelDeleteMenu, &kb)
	}
}

func (d *Dispatcher) onChannelMode(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	st, ok := d.channelSession(ctx, actor.UserID)
	if !ok {
		d.answer(ctx, cq, views.MsgChooseKindFirst, true)
		return
	}
	mode := po.AccessMode(arg)
	if !mode.Valid() {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	d.answer(ctx, cq, "", false)
	st.Step = stepChannelID
	st.Channel.Mode = mode
	d.setSession(ctx, actor.UserID, st)
	d.say(ctx, actor.ChatID, views.ChannelIDPromptText(mode), views.ControlKeyboard())
}

func (d *Dispatcher) onDeleteChannel(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	st, ok := d.channelSession(ctx, actor.UserID)
	if !ok {
		d.answer(ctx, cq, views.MsgChooseKindFirst, true)
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	removed, err := d.channels.Remove(ctx, id, st.Channel.Kind)
	if err != nil {
		d.answer(ctx, cq, views.MsgGenericError, true)
		d.log.WithContext(ctx).Errorw("msg", "remove channel failed", "channel_id", id, "error", err)
		return
	}
	if !removed {
		d.answer(ctx, cq, views.MsgNoChannels, true)
		return
	}
	d.answer(ctx, cq, views.MsgChannelDeleted, false)
	kb := views.ChannelActionKeyboard()
	d.edit(ctx, cq.Message, views.MsgChannelDeleted, &kb)
}

func (d *Dispatcher) channelStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	if st.Channel == nil {
		d.say(ctx, actor.ChatID, views.MsgChooseKindFirst, nil)
		return
	}
	text := strings.TrimSpace(msg.Text)
	switch st.Step {
	case stepChannelID:
		id, err := services.ParseChannelID(text)
		if err != nil {
			d.say(ctx, actor.ChatID, views.MsgBadChannelID, nil)
			return
		}
		info, err := d.channels.VerifyBotAdmin(ctx, id)
		switch {
		case errors.Is(err, services.ErrBotNotAdmin):
			d.say(ctx, actor.ChatID, views.MsgBotNotAdmin, nil)
			return
		case errors.Is(err, services.ErrChatUnavailable):
			d.say(ctx, actor.ChatID, views.MsgChatUnavailable, nil)
			return
		case err != nil:
			d.fail(ctx, actor, "verify channel", err)
			return
		}
		st.Step = stepChannelLink
		st.Channel.ChannelID = info.ID
		st.Channel.Title = info.Title
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.ChannelLinkPromptText(info.Username), nil)

	case stepChannelLink:
		ch := &po.Channel{
			ChannelID: st.Channel.ChannelID,
			Kind:      st.Channel.Kind,
			Title:     st.Channel.Title,
			Link:      text,
			Mode:      st.Channel.Mode,
		}
		err := d.channels.Add(ctx, ch)
		switch {
		case errors.Is(err, services.ErrInvalidLink):
			d.say(ctx, actor.ChatID, views.MsgFullLink, nil)
		case err != nil:
			d.fail(ctx, actor, "save channel", err)
		default:
			d.finishFlow(ctx, actor, views.ChannelSavedText(ch.Mode))
		}

	default:
		// 其余步骤只接受内联按钮
		d.say(ctx, actor.ChatID, views.MsgChannelKindMenu, views.ChannelKindKeyboard())
	}
}
