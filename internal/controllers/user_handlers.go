package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (d *Dispatcher) onStart(ctx context.Context, actor metadata.Actor, args string) {
	if strings.TrimSpace(args) == "" {
		if actor.IsAdmin {
			d.say(ctx, actor.ChatID, views.MsgAdminPanel, views.AdminMenu())
			return
		}
		d.say(ctx, actor.ChatID, views.MsgStart, views.UserMenu())
		return
	}

	payload, ok := parseStartPayload(args)
	if !ok {
		d.say(ctx, actor.ChatID, views.MsgBadLink, nil)
		return
	}
	if payload.part > 0 {
		if !d.passPartGate(ctx, actor, payload.code, payload.part) {
			return
		}
		loading, loadErr := d.say(ctx, actor.ChatID, views.MsgPartLoading, nil)
		switch err := d.sendPart(ctx, actor.ChatID, payload.code, payload.part); {
		case err == nil:
			if loadErr == nil {
				d.remove(ctx, &loading)
			}
			if actor.IsAdmin {
				d.say(ctx, actor.ChatID, views.MsgAdminPanel, views.AdminMenu())
			} else {
				d.say(ctx, actor.ChatID, views.MsgYourPanel, views.UserMenu())
			}
		case errors.Is(err, services.ErrTitleNotFound), errors.Is(err, services.ErrPartNotFound):
			d.say(ctx, actor.ChatID, views.MsgPartNotFound, nil)
		case isDomain(err):
			d.fail(ctx, actor, "deep link part", err)
		default:
			d.say(ctx, actor.ChatID, views.MsgFileSendFailed, nil)
		}
		return
	}
	if !d.passTitleGate(ctx, actor, payload.code) {
		return
	}
	d.sendCard(ctx, actor, payload.code, services.EntryDeepLinkCode)
}

// onCode 处理用户直接输入的代码。
func (d *Dispatcher) onCode(ctx context.Context, actor metadata.Actor, code string) {
	if !d.passTitleGate(ctx, actor, code) {
		return
	}
	d.sendCard(ctx, actor, code, services.EntryDirectCode)
}

func (d *Dispatcher) onUserMenu(ctx context.Context, actor metadata.Actor, text string) bool {
	switch text {
	case views.BtnSearch:
		d.setSession(ctx, actor.UserID, session.State{Kind: session.KindSearch})
		d.say(ctx, actor.ChatID, views.MsgSearchPrompt, views.CancelKeyboard())
	case views.BtnAllTitles:
		d.listTitles(ctx, actor, false)
	case views.BtnContactAdmin:
		d.setSession(ctx, actor.UserID, session.State{Kind: session.KindContact})
		d.say(ctx, actor.ChatID, views.MsgContactPrompt, views.CancelKeyboard())
	default:
		return false
	}
	return true
}

func (d *Dispatcher) listTitles(ctx context.Context, actor metadata.Actor, admin bool) {
	items, err := d.catalog.List(ctx)
	if err != nil {
		d.fail(ctx, actor, "list titles", err)
		return
	}
	chunks := views.CodeListChunks(items, admin)
	if len(chunks) == 0 {
		if admin {
			d.say(ctx, actor.ChatID, views.MsgNoTitlesAdmin, nil)
		} else {
			d.say(ctx, actor.ChatID, views.MsgNoTitlesUser, nil)
		}
		return
	}
	for _, chunk := range chunks {
		if _, err := d.say(ctx, actor.ChatID, chunk, nil); err != nil {
			return
		}
	}
}

func (d *Dispatcher) searchStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	items, err := d.catalog.Search(ctx, msg.Text)
	switch {
	case errors.Is(err, services.ErrInvalidQuery):
		d.say(ctx, actor.ChatID, views.MsgSearchEmpty, nil)
		return
	case err != nil:
		d.fail(ctx, actor, "search titles", err)
		return
	}
	d.clearSession(ctx, actor.UserID)
	if len(items) == 0 {
		d.say(ctx, actor.ChatID, views.MsgSearchNothing, views.UserMenu())
		return
	}
	d.say(ctx, actor.ChatID, views.MsgSearchResults, views.SearchResultsKeyboard(items))
}

func (d *Dispatcher) contactStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	text := firstNonEmpty(msg.Text, msg.Caption)
	if strings.TrimSpace(text) == "" {
		d.say(ctx, actor.ChatID, views.MsgContactPrompt, views.CancelKeyboard())
		return
	}
	admins, err := d.admins.List(ctx)
	if err != nil {
		d.fail(ctx, actor, "list admins", err)
		return
	}
	body := views.ContactText(actor.FullName, actor.UserID, text)
	for _, id := range admins {
		d.say(ctx, id, body, views.ReplyUserKeyboard(actor.UserID))
	}
	d.clearSession(ctx, actor.UserID)
	d.say(ctx, actor.ChatID, views.MsgContactSent, views.UserMenu())
}

// passTitleGate 校验强制订阅；未满足时发送订阅提示并返回 false。
func (d *Dispatcher) passTitleGate(ctx context.Context, actor metadata.Actor, code string) bool {
	missing, err := d.gate.Unsatisfied(ctx, actor.UserID)
	if err != nil {
		d.fail(ctx, actor, "subscription gate", err)
		return false
	}
	if len(missing) == 0 {
		return true
	}
	d.say(ctx, actor.ChatID, views.MsgSubscribeForTitle,
		views.SubscribeKeyboard(missing, views.BtnCheck, views.CheckSubData(code)))
	return false
}

func (d *Dispatcher) passPartGate(ctx context.Context, actor metadata.Actor, code string, n int) bool {
	missing, err := d.gate.Unsatisfied(ctx, actor.UserID)
	if err != nil {
		d.fail(ctx, actor, "subscription gate", err)
		return false
	}
	if len(missing) == 0 {
		return true
	}
	d.say(ctx, actor.ChatID, views.MsgSubscribeForPart,
		views.SubscribeKeyboard(missing, views.BtnCheck, views.CheckPartSubData(code, n)))
	return false
}

func (d *Dispatcher) onCheckSub(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, code string) {
	missing, err := d.gate.Unsatisfied(ctx, actor.UserID)
	if err != nil {
		d.answer(ctx, cq, views.MsgGenericError, true)
		d.log.WithContext(ctx).Errorw("msg", "subscription recheck failed", "user_id", actor.UserID, "error", err)
		return
	}
	if len(missing) > 0 {
		d.answer(ctx, cq, views.MsgNotSubscribed, true)
		kb := views.SubscribeKeyboard(missing, views.BtnCheckAgain, views.CheckSubData(code))
		d.edit(ctx, cq.Message, views.MsgStillMissing, &kb)
		return
	}
	d.answer(ctx, cq, views.MsgSubscribed, false)
	d.remove(ctx, cq.Message)
	if !services.IsCode(code) {
		d.say(ctx, actor.ChatID, views.MsgSubscribed, nil)
		return
	}
	d.sendCard(ctx, actor, code, services.EntryDeepLinkCode)
}

func (d *Dispatcher) onCheckPartSub(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, ref string) {
	code, n, ok := parsePartRef(ref, "_")
	if !ok {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	missing, err := d.gate.Unsatisfied(ctx, actor.UserID)
	if err != nil {
		d.answer(ctx, cq, views.MsgGenericError, true)
		d.log.WithContext(ctx).Errorw("msg", "subscription recheck failed", "user_id", actor.UserID, "error", err)
		return
	}
	if len(missing) > 0 {
		d.answer(ctx, cq, views.MsgNotSubscribedPart, true)
		return
	}
	d.answer(ctx, cq, views.MsgSubscribedPart, false)
	d.remove(ctx, cq.Message)
	d.deliverPart(ctx, actor, code, n)
}

func (d *Dispatcher) onShowAnime(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, code string) {
	d.answer(ctx, cq, "", false)
	if !d.passTitleGate(ctx, actor, code) {
		return
	}
	d.sendCard(ctx, actor, code, services.EntrySearchResult)
}

func (d *Dispatcher) onPartDownload(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, ref string) {
	code, n, ok := parsePartRef(ref, ":")
	if !ok {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	missing, err := d.gate.Unsatisfied(ctx, actor.UserID)
	if err != nil {
		d.answer(ctx, cq, views.MsgGenericError, true)
		return
	}
	if len(missing) > 0 {
		d.answer(ctx, cq, "", false)
		d.say(ctx, actor.ChatID, views.MsgSubscribeForPart,
			views.SubscribeKeyboard(missing, views.BtnCheck, views.CheckPartSubData(code, n)))
		return
	}
	d.answer(ctx, cq, views.PartLoadingText(n), false)
	d.deliverPart(ctx, actor, code, n)
}

// deliverPart 发送单集并把错误映射为用户提示。
func (d *Dispatcher) deliverPart(ctx context.Context, actor metadata.Actor, code string, n int) {
	err := d.sendPart(ctx, actor.ChatID, code, n)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTitleNotFound):
		d.say(ctx, actor.ChatID, views.MsgAnimeNotFound, nil)
	case errors.Is(err, services.ErrPartNotFound):
		d.say(ctx, actor.ChatID, views.MsgPartMissing, nil)
	case isDomain(err):
		d.fail(ctx, actor, "deliver part", err)
	default:
		d.say(ctx, actor.ChatID, views.MsgPartSendFailed, nil)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
