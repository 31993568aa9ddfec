package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type callbackRoute struct {
	prefix string
	admin  bool
	handle func(d *Dispatcher, ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string)
}

// 按前缀匹配，顺序敏感：较长前缀在前。
var callbackRoutes = []callbackRoute{
	{views.CbCheckPartSub, false, (*Dispatcher).onCheckPartSub},
	{views.CbCheckSub, false, (*Dispatcher).onCheckSub},
	{views.CbShowAnime, false, (*Dispatcher).onShowAnime},
	{views.CbPartDownload, false, (*Dispatcher).onPartDownload},
	{views.CbBotToggle, true, (*Dispatcher).onBotToggle},
	{views.CbBotStatusBack, true, (*Dispatcher).onBotStatusBack},
	{views.CbReplyUser, true, (*Dispatcher).onReplyUser},
	{views.CbChannelType, true, (*Dispatcher).onChannelType},
	{views.CbChannelAction, true, (*Dispatcher).onChannelAction},
	{views.CbChannelMode, true, (*Dispatcher).onChannelMode},
	{views.CbDeleteChannel, true, (*Dispatcher).onDeleteChannel},
	{views.CbEditParts, true, (*Dispatcher).onEditParts},
	{views.CbEditField, true, (*Dispatcher).onEditField},
	{views.CbEdit, true, (*Dispatcher).onEditMenu},
}

func (d *Dispatcher) onCallback(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery) {
	if !actor.IsAdmin && !d.runtime.Enabled() {
		d.answer(ctx, cq, views.MsgBotDisabled, true)
		return
	}
	for _, route := range callbackRoutes {
		arg, ok := strings.CutPrefix(cq.Data, route.prefix)
		if !ok {
			continue
		}
		if route.admin && !actor.IsAdmin {
			d.answer(ctx, cq, views.MsgNoPermission, true)
			return
		}
		route.handle(d, ctx, actor, cq, arg)
		return
	}
	d.answer(ctx, cq, "", false)
}
