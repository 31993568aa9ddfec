package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendCard 渲染宣传卡片（海报 + 说明 + 单集按钮），送达后记录浏览。
func (d *Dispatcher) sendCard(ctx context.Context, actor metadata.Actor, code string, path services.EntryPath) {
	card, err := d.delivery.CardByCode(ctx, code, path)
	switch {
	case errors.Is(err, services.ErrTitleNotFound), errors.Is(err, services.ErrInvalidCode):
		d.say(ctx, actor.ChatID, views.MsgTitleNotFound, nil)
		return
	case err != nil:
		d.fail(ctx, actor, "load title card", err)
		return
	}

	var markup any
	if kb, ok := views.PartButtons(card.Code, card.PartCount); ok {
		markup = kb
	}
	msg := posterMessage(actor.ChatID, card.PosterFileID, card.PosterType, views.PromoCaption(card), markup)
	if _, err := d.bot.Send(ctx, msg); err != nil {
		d.log.WithContext(ctx).Errorw("msg", "send title card failed", "code", code, "path", path.String(), "error", err)
		d.say(ctx, actor.ChatID, views.MsgPostSendFailed, nil)
		return
	}
	if err := d.delivery.Delivered(ctx, code, path); err != nil {
		d.log.WithContext(ctx).Warnw("msg", "record view failed", "code", code, "error", err)
	}
}

// sendPart 以文档形式发送第 n 集。返回领域错误或平台错误。
func (d *Dispatcher) sendPart(ctx context.Context, chatID int64, code string, n int) error {
	part, err := d.delivery.Part(ctx, code, n)
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(part.FileID))
	doc.Caption = part.Caption
	if _, err := d.bot.Send(ctx, doc); err != nil {
		d.log.WithContext(ctx).Warnw("msg", "send part failed", "code", code, "part", n, "chat_id", chatID, "error", err)
		return err
	}
	return nil
}

// posterMessage 按海报类型构造消息；无海报时退化为文本。
func posterMessage(chatID int64, fileID string, kind po.PosterKind, caption string, markup any) tgbotapi.Chattable {
	if fileID == "" {
		kind = po.PosterNone
	}
	switch kind {
	case po.PosterPhoto:
		m := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
		m.Caption, m.ParseMode = caption, tgbotapi.ModeHTML
		if markup != nil {
			m.ReplyMarkup = markup
		}
		return m
	case po.PosterVideo:
		m := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
		m.Caption, m.ParseMode = caption, tgbotapi.ModeHTML
		if markup != nil {
			m.ReplyMarkup = markup
		}
		return m
	case po.PosterDocument:
		m := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
		m.Caption, m.ParseMode = caption, tgbotapi.ModeHTML
		if markup != nil {
			m.ReplyMarkup = markup
		}
		return m
	default:
		m := tgbotapi.NewMessage(chatID, caption)
		m.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			m.ReplyMarkup = markup
		}
		return m
	}
}

// isDomain 报告 err 是否为 kratos 领域错误（含存储失败）。
func isDomain(err error) bool {
	var e *errors.Error
	return errors.As(err, &e)
}
