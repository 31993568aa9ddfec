package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// onAdminMenu 处理管理员面板按钮，未识别返回 false。
func (d *Dispatcher) onAdminMenu(ctx context.Context, actor metadata.Actor, text string) bool {
	switch text {
	case views.BtnChannels:
		d.setSession(ctx, actor.UserID, session.State{Kind: session.KindChannel, Step: stepChannelKind})
		d.say(ctx, actor.ChatID, views.MsgChannelKindMenu, views.ChannelKindKeyboard())
	case views.BtnDeleteCode:
		d.startFlow(ctx, actor, session.State{Kind: session.KindDeleteTitle}, views.MsgDeleteAskCode)
	case views.BtnAddTitle:
		d.startFlow(ctx, actor, session.State{
			Kind:  session.KindAddTitle,
			Step:  stepAddCode,
			Title: &session.TitleDraft{},
		}, views.MsgAskCode)
	case views.BtnEditCode:
		d.startFlow(ctx, actor, session.State{Kind: session.KindEditTitle, Step: stepEditCode}, views.MsgEditAskCode)
	case views.BtnCodeList:
		d.listTitles(ctx, actor, true)
	case views.BtnCodeStats:
		d.startFlow(ctx, actor, session.State{Kind: session.KindCodeStats}, views.MsgStatsAskCode)
	case views.BtnStats:
		d.showGlobalStats(ctx, actor)
	case views.BtnAdmins:
		d.say(ctx, actor.ChatID, views.MsgAdminsMenu, views.AdminsMenu())
	case views.BtnAddAdmin:
		d.startFlow(ctx, actor, session.State{Kind: session.KindAdminAdd}, views.MsgAskNewAdmin)
	case views.BtnRemoveAdmin:
		d.startFlow(ctx, actor, session.State{Kind: session.KindAdminRemove}, views.MsgAskRemoveAdmin)
	case views.BtnListAdmins:
		d.listAdmins(ctx, actor)
	case views.BtnBroadcast:
		d.setSession(ctx, actor.UserID, session.State{Kind: session.KindBroadcast, Step: stepBroadcastType})
		d.say(ctx, actor.ChatID, views.MsgBroadcastType, views.BroadcastTypeKeyboard())
	case views.BtnPost:
		d.startFlow(ctx, actor, session.State{Kind: session.KindPostTitle}, views.MsgPostAskCode)
	case views.BtnPartPost:
		d.startFlow(ctx, actor, session.State{Kind: session.KindPostPart, Step: stepPostCode}, views.MsgPartPostAskCode)
	case views.BtnBotStatus:
		enabled := d.runtime.Enabled()
		d.say(ctx, actor.ChatID, views.BotStatusText(enabled), views.BotStatusKeyboard(enabled))
	default:
		return false
	}
	return true
}

// startFlow 覆盖已有会话并发出第一个提示。
func (d *Dispatcher) startFlow(ctx context.Context, actor metadata.Actor, st session.State, prompt string) {
	d.setSession(ctx, actor.UserID, st)
	d.say(ctx, actor.ChatID, prompt, views.ControlKeyboard())
}

func (d *Dispatcher) finishFlow(ctx context.Context, actor metadata.Actor, text string) {
	d.clearSession(ctx, actor.UserID)
	d.say(ctx, actor.ChatID, text, views.AdminMenu())
}

func (d *Dispatcher) showGlobalStats(ctx context.Context, actor metadata.Actor) {
	stats, err := d.stats.Global(ctx)
	if err != nil {
		d.fail(ctx, actor, "global stats", err)
		return
	}
	d.say(ctx, actor.ChatID, views.GlobalStatsText(stats), nil)
}

func (d *Dispatcher) listAdmins(ctx context.Context, actor metadata.Actor) {
	ids, err := d.admins.List(ctx)
	if err != nil {
		d.fail(ctx, actor, "list admins", err)
		return
	}
	d.say(ctx, actor.ChatID, views.AdminListText(ids), nil)
}

func (d *Dispatcher) adminIDStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	id, ok := parseUserID(msg.Text)
	if !ok {
		d.say(ctx, actor.ChatID, views.MsgIDDigitsOnly, nil)
		return
	}
	if st.Kind == session.KindAdminAdd {
		if _, err := d.admins.Add(ctx, id); err != nil {
			d.fail(ctx, actor, "add admin", err)
			return
		}
		d.clearSession(ctx, actor.UserID)
		d.say(ctx, actor.ChatID, views.AdminAddedText(id), views.AdminsMenu())
		return
	}

	err := d.admins.Remove(ctx, id)
	switch {
	case err == nil:
		d.clearSession(ctx, actor.UserID)
		d.say(ctx, actor.ChatID, views.AdminRemovedText(id), views.AdminsMenu())
	case errors.Is(err, services.ErrAdminNotFound):
		d.clearSession(ctx, actor.UserID)
		d.say(ctx, actor.ChatID, views.MsgAdminIDNotFound, views.AdminsMenu())
	case errors.Is(err, services.ErrLastAdmin):
		d.clearSession(ctx, actor.UserID)
		d.say(ctx, actor.ChatID, views.MsgLastAdmin, views.AdminsMenu())
	default:
		d.fail(ctx, actor, "remove admin", err)
	}
}

func (d *Dispatcher) onBotToggle(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	enabled := arg == "on"
	d.runtime.SetEnabled(enabled)
	d.log.WithContext(ctx).Infow("msg", "bot toggled", "enabled", enabled, "admin_id", actor.UserID)
	if enabled {
		d.answer(ctx, cq, views.MsgBotEnabledToast, false)
	} else {
		d.answer(ctx, cq, views.MsgBotDisabledToast, false)
	}
	kb := views.BotStatusKeyboard(enabled)
	d.edit(ctx, cq.Message, views.BotStatusText(enabled), &kb)
}

func (d *Dispatcher) onBotStatusBack(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, _ string) {
	d.answer(ctx, cq, "", false)
	d.remove(ctx, cq.Message)
	d.say(ctx, actor.ChatID, views.MsgAdminPanel, views.AdminMenu())
}

func (d *Dispatcher) onReplyUser(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	userID, ok := parseUserID(arg)
	if !ok {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	d.answer(ctx, cq, "", false)
	d.setSession(ctx, actor.UserID, session.State{Kind: session.KindAdminReply, ReplyTo: userID})
	d.say(ctx, actor.ChatID, views.MsgReplyPrompt, views.ControlKeyboard())
}

func (d *Dispatcher) adminReplyStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	text := firstNonEmpty(msg.Text, msg.Caption)
	if text == "" {
		d.say(ctx, actor.ChatID, views.MsgReplyPrompt, nil)
		return
	}
	if _, err := d.say(ctx, st.ReplyTo, views.AdminReplyText(text), nil); err != nil {
		d.finishFlow(ctx, actor, views.ErrorText(err))
		return
	}
	d.finishFlow(ctx, actor, views.MsgReplySent)
}
